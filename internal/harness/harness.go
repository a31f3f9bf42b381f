package harness

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/roach88/nodemap/internal/config"
	"github.com/roach88/nodemap/internal/document"
	"github.com/roach88/nodemap/internal/engine"
	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
	"github.com/roach88/nodemap/internal/testutil"
)

// Harness replays one scenario against an engine driven manually under
// virtual time.
type Harness struct {
	engine *engine.Engine
	timers *testutil.ManualTimers
	result *Result
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh engine with manual timers, a
// deterministic clock and a fixed session id, so the trace is identical on
// every run. Errors are returned for scenarios that cannot be executed;
// failed assertions are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	if scenario.Config != "" {
		var err error
		cfg, err = config.Parse(scenario.Name+".cue", []byte(scenario.Config))
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	h := &Harness{
		timers: testutil.NewManualTimers(),
		result: NewResult(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.engine = engine.New(
		engine.WithLogger(h.logger),
		engine.WithTimers(h.timers),
		engine.WithRand(rand.New(rand.NewPCG(scenario.Seed, scenario.Seed))),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.Session)),
		engine.WithListener(h.result.addRecord),
		engine.WithSimConfig(cfg.Sim),
		engine.WithInteraction(cfg.Interaction),
	)
	defer h.engine.Stop()

	if err := h.engine.LoadDocument(fixtureDocument(scenario.Map)); err != nil {
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	for i, step := range scenario.Steps {
		if err := h.step(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		h.engine.Flush()
	}

	h.result.Frame = h.engine.Frame()
	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions, h.engine) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func fixtureDocument(m MapFixture) document.Document {
	doc := document.Document{
		Nodes: make([]document.Node, 0, len(m.Nodes)),
		Links: make([]document.Link, 0, len(m.Links)),
	}
	for _, n := range m.Nodes {
		color := n.Color
		if color == "" {
			color = graph.Palette[0]
		}
		doc.Nodes = append(doc.Nodes, document.Node{ID: n.ID, Color: color, X: n.X, Y: n.Y, Info: n.Info})
	}
	for _, l := range m.Links {
		doc.Links = append(doc.Links, document.Link{Source: l.Source, Target: l.Target})
	}
	return doc
}

func (h *Harness) step(s Step) error {
	switch {
	case s.Down != nil:
		b, _ := interact.ParseButton(s.Down.Button)
		h.engine.Enqueue(interact.PointerDown(s.Down.X, s.Down.Y, b))
	case s.Move != nil:
		h.engine.Enqueue(interact.PointerMove(s.Move.X, s.Move.Y))
	case s.Up != nil:
		b, _ := interact.ParseButton(s.Up.Button)
		h.engine.Enqueue(interact.PointerUp(s.Up.X, s.Up.Y, b))
	case s.Leave:
		h.engine.Enqueue(interact.PointerLeave())
	case s.Advance != "":
		d, err := time.ParseDuration(s.Advance)
		if err != nil {
			return err
		}
		h.advance(d)
	case s.Tick > 0:
		for i := 0; i < s.Tick; i++ {
			h.engine.Tick()
		}
	case s.Key != "":
		h.engine.Enqueue(interact.Key(s.Key))
	case s.ToggleLinkMode != nil:
		h.engine.Enqueue(interact.ToggleLinkMode(*s.ToggleLinkMode))
	case s.ContextAction != "":
		a, _ := interact.ParseContextAction(s.ContextAction)
		h.engine.Enqueue(interact.ContextMenu(a))
	case s.Open != "":
		k, _ := interact.ParseOverlayKind(s.Open)
		h.engine.Enqueue(interact.OpenOverlay(k))
	case s.Close:
		h.engine.Enqueue(interact.CloseOverlay())
	case s.Command != nil:
		return h.command(*s.Command)
	}
	return nil
}

// advance moves virtual time forward. Timers fire one at a time so a timer
// scheduled by an earlier firing within the same window is honoured.
func (h *Harness) advance(d time.Duration) {
	const slice = time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; {
		step := slice
		if d-elapsed < step {
			step = d - elapsed
		}
		h.timers.Advance(step)
		h.engine.Flush()
		elapsed += step
	}
}

func (h *Harness) command(c Command) error {
	h.engine.Flush()
	h.result.addCommand(h.engine.Seq(), c)

	var err error
	switch c.Name {
	case CmdAddNode:
		_, err = h.engine.AddNode(c.ID, c.Text)
	case CmdRenameNode:
		err = h.engine.RenameNode(c.ID, c.To)
	case CmdDeleteNode:
		h.engine.DeleteNode(c.ID)
	case CmdSetColor:
		err = h.engine.SetColor(c.ID, c.Color)
	case CmdSetInfo:
		err = h.engine.SetInfo(c.ID, c.Text)
	case CmdAddLink:
		if !h.engine.AddLink(c.ID, c.Target) {
			err = fmt.Errorf("link %s-%s not added", c.ID, c.Target)
		}
	case CmdImportText:
		_, err = h.engine.ImportText(c.File, c.Content)
	case CmdPrune:
		h.engine.PruneDanglingLinks()
	case CmdSubmitInfo:
		err = h.engine.SubmitInfo(c.Text)
	case CmdPickColor:
		err = h.engine.PickColor(c.Color)
	case CmdConfirmDelete:
		err = h.engine.ConfirmDelete()
	case CmdSubmitLink:
		var added bool
		added, err = h.engine.SubmitLink(c.ID, c.Target)
		if err == nil && !added {
			err = fmt.Errorf("link %s-%s not added", c.ID, c.Target)
		}
	}

	switch {
	case c.ExpectError && err == nil:
		return fmt.Errorf("command %s: expected an error", c.Name)
	case !c.ExpectError && err != nil:
		return fmt.Errorf("command %s: %w", c.Name, err)
	}
	return nil
}
