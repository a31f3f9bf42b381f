package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nodemap/internal/interact"
)

// Scenario is a recorded editor session replayed against a fresh engine.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is optional CUE source unified with the config schema. Empty
	// means the default configuration.
	Config string `yaml:"config,omitempty"`

	// Seed seeds spawn positions and colours for nodes added during the run.
	Seed uint64 `yaml:"seed,omitempty"`

	// Session is a fixed session id. Defaults to "test-session".
	Session string `yaml:"session,omitempty"`

	// Map is the graph loaded before the first step.
	Map MapFixture `yaml:"map"`

	// Steps are replayed in order. Queued timer events are flushed after
	// every step.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// MapFixture is the initial graph.
type MapFixture struct {
	Nodes []NodeFixture `yaml:"nodes"`
	Links []LinkFixture `yaml:"links"`
}

// NodeFixture is one initial node. Color defaults to the first palette entry.
type NodeFixture struct {
	ID    string  `yaml:"id"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color,omitempty"`
	Info  string  `yaml:"info,omitempty"`
}

// LinkFixture is one initial link.
type LinkFixture struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Step is exactly one input, timer advance, tick batch or command.
type Step struct {
	Down           *Pointer `yaml:"down,omitempty"`
	Move           *Pointer `yaml:"move,omitempty"`
	Up             *Pointer `yaml:"up,omitempty"`
	Leave          bool     `yaml:"leave,omitempty"`
	Advance        string   `yaml:"advance,omitempty"`
	Tick           int      `yaml:"tick,omitempty"`
	Key            string   `yaml:"key,omitempty"`
	ToggleLinkMode *bool    `yaml:"toggle_link_mode,omitempty"`
	ContextAction  string   `yaml:"context_action,omitempty"`
	Open           string   `yaml:"open,omitempty"`
	Close          bool     `yaml:"close,omitempty"`
	Command        *Command `yaml:"command,omitempty"`
}

// Pointer is a pointer position. Button defaults to primary.
type Pointer struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button string  `yaml:"button,omitempty"`
}

// Command invokes an engine mutation the way a UI form would.
type Command struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id,omitempty"`
	To      string `yaml:"to,omitempty"`
	Target  string `yaml:"target,omitempty"`
	Color   string `yaml:"color,omitempty"`
	Text    string `yaml:"text,omitempty"`
	File    string `yaml:"file,omitempty"`
	Content string `yaml:"content,omitempty"`

	// ExpectError marks a command that must fail.
	ExpectError bool `yaml:"expect_error,omitempty"`
}

// Command names.
const (
	CmdAddNode       = "add_node"
	CmdRenameNode    = "rename_node"
	CmdDeleteNode    = "delete_node"
	CmdSetColor      = "set_color"
	CmdSetInfo       = "set_info"
	CmdAddLink       = "add_link"
	CmdImportText    = "import_text"
	CmdPrune         = "prune"
	CmdSubmitInfo    = "submit_info"
	CmdPickColor     = "pick_color"
	CmdConfirmDelete = "confirm_delete"
	CmdSubmitLink    = "submit_link"
)

var commandNames = map[string]bool{
	CmdAddNode: true, CmdRenameNode: true, CmdDeleteNode: true,
	CmdSetColor: true, CmdSetInfo: true, CmdAddLink: true,
	CmdImportText: true, CmdPrune: true, CmdSubmitInfo: true,
	CmdPickColor: true, CmdConfirmDelete: true, CmdSubmitLink: true,
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Node    string   `yaml:"node,omitempty"`
	Source  string   `yaml:"source,omitempty"`
	Target  string   `yaml:"target,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
	Effect  string   `yaml:"effect,omitempty"`
	Gesture string   `yaml:"gesture,omitempty"`
	Content string   `yaml:"content,omitempty"`
	Info    *string  `yaml:"info,omitempty"`
	Color   string   `yaml:"color,omitempty"`
	Count   *int     `yaml:"count,omitempty"`
	On      *bool    `yaml:"on,omitempty"`
	X       *float64 `yaml:"x,omitempty"`
	Y       *float64 `yaml:"y,omitempty"`

	// Tolerance for node_position. Defaults to 0.5.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Absent inverts has_link and node_exists.
	Absent bool `yaml:"absent,omitempty"`
}

// Assertion types.
const (
	AssertNodeCount    = "node_count"
	AssertNodeExists   = "node_exists"
	AssertNode         = "node"
	AssertLinkCount    = "link_count"
	AssertHasLink      = "has_link"
	AssertSelection    = "selection"
	AssertOverlay      = "overlay"
	AssertTooltip      = "tooltip"
	AssertGesture      = "gesture"
	AssertEffectCount  = "effect_count"
	AssertNodePosition = "node_position"
	AssertLinkMode     = "link_mode"
	AssertPendingTimer = "pending_timers"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected so typos
// fail loudly.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, n := range s.Map.Nodes {
		if n.ID == "" {
			return fmt.Errorf("map.nodes[%d]: id is required", i)
		}
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(s Step) error {
	set := 0
	count := func(b bool) {
		if b {
			set++
		}
	}
	count(s.Down != nil)
	count(s.Move != nil)
	count(s.Up != nil)
	count(s.Leave)
	count(s.Advance != "")
	count(s.Tick != 0)
	count(s.Key != "")
	count(s.ToggleLinkMode != nil)
	count(s.ContextAction != "")
	count(s.Open != "")
	count(s.Close)
	count(s.Command != nil)
	if set != 1 {
		return fmt.Errorf("exactly one action is required, got %d", set)
	}

	for _, p := range []*Pointer{s.Down, s.Up} {
		if p != nil && p.Button != "" {
			if _, ok := interact.ParseButton(p.Button); !ok {
				return fmt.Errorf("unknown button %q", p.Button)
			}
		}
	}
	if s.Advance != "" {
		d, err := time.ParseDuration(s.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("advance must not be negative")
		}
	}
	if s.Tick < 0 {
		return fmt.Errorf("tick must be positive")
	}
	if s.ContextAction != "" {
		if _, ok := interact.ParseContextAction(s.ContextAction); !ok {
			return fmt.Errorf("unknown context action %q", s.ContextAction)
		}
	}
	if s.Open != "" {
		if _, ok := interact.ParseOverlayKind(s.Open); !ok {
			return fmt.Errorf("unknown overlay %q", s.Open)
		}
	}
	if s.Command != nil && !commandNames[s.Command.Name] {
		return fmt.Errorf("unknown command %q", s.Command.Name)
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertNodeCount, AssertLinkCount, AssertPendingTimer:
		if a.Count == nil {
			return fmt.Errorf("count is required for %s", a.Type)
		}
	case AssertNodeExists, AssertNode:
		if a.Node == "" {
			return fmt.Errorf("node is required for %s", a.Type)
		}
	case AssertHasLink:
		if a.Source == "" || a.Target == "" {
			return fmt.Errorf("source and target are required for has_link")
		}
	case AssertSelection, AssertTooltip:
	case AssertLinkMode:
		if a.On == nil {
			return fmt.Errorf("on is required for link_mode")
		}
	case AssertOverlay:
		if a.Kind == "" {
			return fmt.Errorf("kind is required for overlay")
		}
		if _, ok := interact.ParseOverlayKind(a.Kind); !ok {
			return fmt.Errorf("unknown overlay %q", a.Kind)
		}
	case AssertGesture:
		if a.Gesture == "" {
			return fmt.Errorf("gesture is required for gesture")
		}
	case AssertEffectCount:
		if a.Effect == "" || a.Count == nil {
			return fmt.Errorf("effect and count are required for effect_count")
		}
	case AssertNodePosition:
		if a.Node == "" || a.X == nil || a.Y == nil {
			return fmt.Errorf("node, x and y are required for node_position")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
