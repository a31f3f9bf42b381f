// Package interact turns a raw pointer and keyboard stream into editor
// intents.
//
// Every transition is a pure step:
//
//	session', effects := machine.Handle(session, view, event)
//
// Session is a plain value owned by the caller. The machine never touches
// the store or a clock; it describes what should happen as Effects
// (move a node, add a link, schedule or cancel a timer, open an overlay)
// and the caller applies them. Timers are identified by a TimerToken. A
// transition that invalidates a pending timer cancels it by token before
// scheduling a replacement, and a timer_fired event whose token no longer
// matches the session is ignored.
//
// Gestures on pointer-down over a node, first match wins:
//
//  1. link mode on, primary button: start drawing a link
//  2. secondary button: open the context menu
//  3. primary button: select, arm a drag, promote after ArmDelay
//
// Click disambiguation runs alongside: a click (press and release without
// drag promotion) starts the double-click window; a second click inside the
// window opens the info overlay for the most recent node.
package interact
