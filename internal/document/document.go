package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/nodemap/internal/graph"
)

// Node is a persisted node.
type Node struct {
	ID    string  `json:"id"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Info  string  `json:"info"`
}

// Link is a persisted link.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Document is a complete persisted map.
type Document struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// FromStore snapshots a store in store order.
func FromStore(s *graph.Store) Document {
	nodes := s.Nodes()
	links := s.Links()
	doc := Document{
		Nodes: make([]Node, 0, len(nodes)),
		Links: make([]Link, 0, len(links)),
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Color: n.Color, X: n.Pos.X, Y: n.Pos.Y, Info: n.Info})
	}
	for _, l := range links {
		doc.Links = append(doc.Links, Link{Source: l.A, Target: l.B})
	}
	return doc
}

// Graph converts the document into store nodes and links.
func (d Document) Graph() ([]graph.Node, []graph.Link) {
	nodes := make([]graph.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes = append(nodes, graph.Node{
			ID:    n.ID,
			Pos:   graph.Vec2{X: n.X, Y: n.Y},
			Color: n.Color,
			Info:  n.Info,
		})
	}
	links := make([]graph.Link, 0, len(d.Links))
	for _, l := range d.Links {
		links = append(links, graph.Link{A: l.Source, B: l.Target})
	}
	return nodes, links
}

// Apply replaces the store contents with the document.
func (d Document) Apply(s *graph.Store) error {
	nodes, links := d.Graph()
	return s.Replace(nodes, links)
}

// Encode writes the document compactly. Empty collections encode as [].
func Encode(d Document) ([]byte, error) {
	if d.Nodes == nil {
		d.Nodes = []Node{}
	}
	if d.Links == nil {
		d.Links = []Link{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses and validates a document. Node ids and link endpoints are
// normalized the same way the store normalizes ids.
func Decode(data []byte) (Document, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Document{}, &MalformedDocumentError{Reason: "invalid JSON", Err: err}
	}
	if dec.More() {
		return Document{}, malformed("", "trailing data after document")
	}

	top, ok := raw.(map[string]any)
	if !ok {
		return Document{}, malformed("", "expected an object, got %s", kindOf(raw))
	}
	rawNodes, err := arrayField(top, "nodes")
	if err != nil {
		return Document{}, err
	}
	rawLinks, err := arrayField(top, "links")
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Nodes: make([]Node, 0, len(rawNodes)),
		Links: make([]Link, 0, len(rawLinks)),
	}
	seen := make(map[string]int, len(rawNodes))
	for i, v := range rawNodes {
		path := fmt.Sprintf("nodes[%d]", i)
		n, err := decodeNode(path, v)
		if err != nil {
			return Document{}, err
		}
		if first, dup := seen[n.ID]; dup {
			return Document{}, malformed(path+".id", "duplicate id %q (first at nodes[%d])", n.ID, first)
		}
		seen[n.ID] = i
		doc.Nodes = append(doc.Nodes, n)
	}
	for i, v := range rawLinks {
		l, err := decodeLink(fmt.Sprintf("links[%d]", i), v)
		if err != nil {
			return Document{}, err
		}
		doc.Links = append(doc.Links, l)
	}
	return doc, nil
}

func arrayField(obj map[string]any, name string) ([]any, error) {
	v, ok := obj[name]
	if !ok {
		return nil, malformed(name, "missing")
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, malformed(name, "expected an array, got %s", kindOf(v))
	}
	return arr, nil
}

func decodeNode(path string, v any) (Node, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Node{}, malformed(path, "expected an object, got %s", kindOf(v))
	}
	id, err := stringField(obj, path, "id", true)
	if err != nil {
		return Node{}, err
	}
	id = graph.NormalizeID(id)
	if id == "" {
		return Node{}, malformed(path+".id", "must not be empty")
	}
	color, err := stringField(obj, path, "color", true)
	if err != nil {
		return Node{}, err
	}
	x, err := numberField(obj, path, "x")
	if err != nil {
		return Node{}, err
	}
	y, err := numberField(obj, path, "y")
	if err != nil {
		return Node{}, err
	}
	info, err := stringField(obj, path, "info", false)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Color: color, X: x, Y: y, Info: info}, nil
}

func decodeLink(path string, v any) (Link, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Link{}, malformed(path, "expected an object, got %s", kindOf(v))
	}
	source, err := stringField(obj, path, "source", true)
	if err != nil {
		return Link{}, err
	}
	target, err := stringField(obj, path, "target", true)
	if err != nil {
		return Link{}, err
	}
	return Link{Source: graph.NormalizeID(source), Target: graph.NormalizeID(target)}, nil
}

func stringField(obj map[string]any, path, name string, required bool) (string, error) {
	v, ok := obj[name]
	if !ok {
		if required {
			return "", malformed(path+"."+name, "missing")
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", malformed(path+"."+name, "expected a string, got %s", kindOf(v))
	}
	return s, nil
}

func numberField(obj map[string]any, path, name string) (float64, error) {
	v, ok := obj[name]
	if !ok {
		return 0, malformed(path+"."+name, "missing")
	}
	f, ok := v.(float64)
	if !ok {
		return 0, malformed(path+"."+name, "expected a number, got %s", kindOf(v))
	}
	return f, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
