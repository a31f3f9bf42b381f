// Package harness replays recorded editor sessions against the engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: double_click_opens_info
//	description: "Two clicks open the info overlay"
//	config: |
//	  interaction: side_panel: true
//	map:
//	  nodes:
//	    - {id: a, x: 100, y: 100, info: "hello"}
//	  links:
//	    - {source: a, target: b}
//	steps:
//	  - down: {x: 100, y: 100}
//	  - up: {x: 100, y: 100}
//	  - advance: 300ms
//	  - tick: 10
//	  - command: {name: submit_info, text: "updated"}
//	assertions:
//	  - type: overlay
//	    kind: info
//	    node: a
//
// Each step holds exactly one action: a pointer input (down, move, up,
// leave), a key, toggle_link_mode, context_action, open or close, an
// advance of virtual time, a number of simulation ticks, or an engine
// command. Unknown fields are rejected.
//
// # Determinism
//
// Every scenario runs against a fresh engine, and so a fresh seq clock, with
// testutil.ManualTimers, a fixed session id and a seeded random source.
// Timers only fire when a step advances virtual time, so traces are
// identical across runs and can be compared against golden files in
// testdata/golden.
package harness
