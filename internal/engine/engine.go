package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
	"github.com/roach88/nodemap/internal/sim"
)

// RecordKind distinguishes listener records.
type RecordKind string

const (
	RecordInput RecordKind = "input"
	RecordTick  RecordKind = "tick"
)

// Record describes one processed input or tick.
type Record struct {
	Seq     int64
	Kind    RecordKind
	Input   interact.Event
	Effects []interact.Effect
	Gesture interact.Gesture
	Stats   sim.StepStats
}

// Listener observes processed inputs and ticks. It runs on the loop
// goroutine and must not call back into the engine.
type Listener func(Record)

// Engine is the single-writer editor loop.
//
// It owns the graph store, the simulator and the interaction session. Inputs
// and calls are queued and processed in FIFO order; every tick first drains
// the queue so pointer-driven mutations are visible to that tick's forces.
//
// Thread-safety model:
//   - Enqueue(), Call(), Stop(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - every other method: only from the loop goroutine (inside Call), or
//     from the single goroutine driving the engine manually without Run
type Engine struct {
	store     *graph.Store
	sim       *sim.Simulator
	machine   *interact.Machine
	session   interact.Session
	clock     *Clock
	queue     *eventQueue
	logger    *slog.Logger
	listener  Listener
	sessionID string

	timers  Timers
	mu      sync.Mutex // guards pending
	pending map[interact.TimerToken]func() bool

	rng     *rand.Rand
	simCfg  sim.Config
	interOp interact.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTimers sets the timer factory. Default: WallTimers.
func WithTimers(t Timers) Option {
	return func(e *Engine) { e.timers = t }
}

// WithRand sets the random source for spawn positions and colours.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithIDGenerator sets the session id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.sessionID = g.Generate() }
}

// WithListener registers a listener for processed inputs and ticks.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listener = l }
}

// WithSimConfig sets the simulation parameters. Default: sim.DefaultConfig().
func WithSimConfig(cfg sim.Config) Option {
	return func(e *Engine) { e.simCfg = cfg }
}

// WithInteraction sets the interaction options. Default:
// interact.DefaultOptions().
func WithInteraction(opts interact.Options) Option {
	return func(e *Engine) { e.interOp = opts }
}

// New creates an engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   NewClock(),
		queue:   newEventQueue(),
		logger:  slog.Default(),
		timers:  WallTimers{},
		pending: make(map[interact.TimerToken]func() bool),
		simCfg:  sim.DefaultConfig(),
		interOp: interact.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		e.sessionID = UUIDv7Generator{}.Generate()
	}

	var storeOpts []graph.StoreOption
	if e.rng != nil {
		storeOpts = append(storeOpts, graph.WithRand(e.rng))
	}
	e.store = graph.NewStore(storeOpts...)
	e.sim = sim.New(e.simCfg)
	e.machine = interact.New(e.interOp)
	e.logger = e.logger.With("session", e.sessionID)
	return e
}

// SessionID returns the id of this editor session.
func (e *Engine) SessionID() string { return e.sessionID }

// Store returns the graph store.
func (e *Engine) Store() *graph.Store { return e.store }

// Session returns the current interaction session.
func (e *Engine) Session() interact.Session { return e.session }

// Simulator returns the simulator.
func (e *Engine) Simulator() *sim.Simulator { return e.sim }

// Machine returns the interaction machine.
func (e *Engine) Machine() *interact.Machine { return e.machine }

// Seq returns the sequence number of the last processed event.
func (e *Engine) Seq() int64 { return e.clock.Current() }

// Enqueue submits an input for processing by the loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev interact.Event) bool {
	return e.queue.Enqueue(Event{Input: &ev})
}

// Call runs fn on the loop goroutine and waits for its result.
// Thread-safe: may be called from any goroutine.
func (e *Engine) Call(ctx context.Context, fn func() error) error {
	c := &call{fn: fn, done: make(chan error, 1)}
	if !e.queue.Enqueue(Event{Call: c}) {
		return e.stoppedError()
	}
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the loop. It ticks the simulation every FrameInterval and
// processes queued events between ticks. Blocks until ctx is cancelled or
// Stop is called.
//
// Must be called from exactly one goroutine.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "frame_interval", e.simCfg.FrameInterval)

	ticker := time.NewTicker(e.simCfg.FrameInterval)
	defer ticker.Stop()

	for {
		if ev, ok := e.queue.TryDequeue(); ok {
			e.process(ev)
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.shutdown()
			return ctx.Err()

		case <-ticker.C:
			e.Tick()

		case <-e.queue.Wait():
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				e.shutdown()
				return nil
			}
		}
	}
}

// Stop shuts the engine down: pending timers are stopped and the queue is
// closed so late timer callbacks are dropped. Run returns shortly after.
func (e *Engine) Stop() {
	e.queue.Close()
	e.stopTimers()
}

// Flush processes every queued event on the calling goroutine.
// Returns the number of events processed.
func (e *Engine) Flush() int {
	n := 0
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return n
		}
		e.process(ev)
		n++
	}
}

// Tick drains the queue and then advances the simulation by one frame.
func (e *Engine) Tick() sim.StepStats {
	e.Flush()
	stats := e.sim.Step(e.store, e.session.Pinned())
	seq := e.clock.Next()
	if e.listener != nil {
		e.listener(Record{Seq: seq, Kind: RecordTick, Gesture: e.session.Gesture, Stats: stats})
	}
	return stats
}

// Dispatch applies one input immediately, bypassing the queue.
func (e *Engine) Dispatch(ev interact.Event) []interact.Effect {
	if ev.Kind == interact.EventTimerFired {
		e.forgetTimer(ev.Token)
	}

	var effects []interact.Effect
	e.session, effects = e.machine.Handle(e.session, e.store, ev)
	e.apply(effects)

	seq := e.clock.Next()
	e.logger.Debug("input processed",
		"seq", seq,
		"kind", ev.Kind,
		"gesture", e.session.Gesture.String(),
		"effects", len(effects),
	)
	if e.listener != nil {
		e.listener(Record{Seq: seq, Kind: RecordInput, Input: ev, Effects: effects, Gesture: e.session.Gesture})
	}
	return effects
}

// process routes a dequeued event.
func (e *Engine) process(ev Event) {
	switch {
	case ev.Input != nil:
		e.Dispatch(*ev.Input)
	case ev.Call != nil:
		ev.Call.done <- e.runCall(ev.Call.fn)
	default:
		e.logger.Error("event processing failed", "error", fmt.Errorf("event has neither input nor call"))
	}
}

func (e *Engine) runCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("call panicked: %v", r)
			e.logger.Error("call failed", "error", err)
		}
	}()
	return fn()
}

// apply carries out the effects of one transition, in order.
func (e *Engine) apply(effects []interact.Effect) {
	for _, eff := range effects {
		switch eff.Kind {
		case interact.EffectMoveNode:
			e.store.MoveTo(eff.NodeID, e.simCfg.Bounds.Clamp(eff.Pos))

		case interact.EffectAddLink:
			if e.store.AddLink(eff.NodeID, eff.Target) {
				e.logger.Info("link added", "source", eff.NodeID, "target", eff.Target)
			}

		case interact.EffectScheduleTimer:
			e.startTimer(eff.Timer)

		case interact.EffectCancelTimer:
			e.cancelTimer(eff.Token)
		}
	}
}

func (e *Engine) startTimer(t interact.Timer) {
	fired := interact.TimerFired(t.Token)
	stop := e.timers.AfterFunc(t.Delay, func() {
		e.queue.Enqueue(Event{Input: &fired})
	})

	e.mu.Lock()
	e.pending[t.Token] = stop
	e.mu.Unlock()
}

func (e *Engine) cancelTimer(token interact.TimerToken) {
	e.mu.Lock()
	stop, ok := e.pending[token]
	delete(e.pending, token)
	e.mu.Unlock()

	if ok {
		stop()
	}
}

func (e *Engine) forgetTimer(token interact.TimerToken) {
	e.mu.Lock()
	delete(e.pending, token)
	e.mu.Unlock()
}

// PendingTimers returns how many timers are scheduled and not yet fired.
func (e *Engine) PendingTimers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) stopTimers() {
	e.mu.Lock()
	pending := e.pending
	e.pending = make(map[interact.TimerToken]func() bool)
	e.mu.Unlock()

	for _, stop := range pending {
		stop()
	}
}

// shutdown fails calls still queued after the loop stopped.
func (e *Engine) shutdown() {
	e.queue.Close()
	e.stopTimers()
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return
		}
		if ev.Call != nil {
			ev.Call.done <- e.stoppedError()
		}
	}
}

func (e *Engine) stoppedError() error {
	return &RuntimeError{Code: ErrCodeStopped, Message: "engine is stopped", Session: e.sessionID}
}
