package engine

import (
	"github.com/roach88/nodemap/internal/document"
	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
)

// The methods in this file mutate the graph on behalf of the UI
// collaborators (forms, button bar, file dialogs). Like Dispatch they run on
// the loop goroutine; wrap them in Call when Run is active.

// AddNode creates a node at a random spawn position.
func (e *Engine) AddNode(id, info string) (string, error) {
	id, err := e.store.AddNode(id, info)
	if err != nil {
		return "", err
	}
	e.logger.Info("node added", "id", id)
	return id, nil
}

// RenameNode renames a node, following it in the session.
func (e *Engine) RenameNode(oldID, newID string) error {
	newID = graph.NormalizeID(newID)
	if err := e.store.RenameNode(oldID, newID); err != nil {
		return err
	}
	e.session = e.machine.Rename(e.session, oldID, newID)
	e.logger.Info("node renamed", "from", oldID, "to", newID)
	return nil
}

// DeleteNode removes a node and its links and drops session references to it.
// Deleting a missing id is a no-op.
func (e *Engine) DeleteNode(id string) {
	if !e.store.Has(id) {
		return
	}
	e.store.DeleteNode(id)
	e.reconcile()
	e.logger.Info("node deleted", "id", id)
}

// SetColor sets a node's colour.
func (e *Engine) SetColor(id, color string) error {
	return e.store.SetColor(id, color)
}

// SetInfo sets a node's info text.
func (e *Engine) SetInfo(id, text string) error {
	return e.store.SetInfo(id, text)
}

// AddLink connects two nodes. It reports whether a link was added.
func (e *Engine) AddLink(a, b string) bool {
	added := e.store.AddLink(a, b)
	if added {
		e.logger.Info("link added", "source", a, "target", b)
	}
	return added
}

// ImportText creates a node from a text file. A taken name gets a numeric
// suffix.
func (e *Engine) ImportText(filename, content string) (string, error) {
	id, err := e.store.ImportTextAsNode(filename, content)
	if err != nil {
		return "", err
	}
	e.logger.Info("text imported", "file", filename, "id", id)
	return id, nil
}

// PruneDanglingLinks removes links that reference missing nodes, self links
// and duplicates. Returns how many were removed.
func (e *Engine) PruneDanglingLinks() int {
	n := e.store.PruneDanglingLinks()
	if n > 0 {
		e.logger.Info("links pruned", "count", n)
	}
	return n
}

// SubmitInfo saves text into the node of the open info overlay and closes it.
func (e *Engine) SubmitInfo(text string) error {
	o := e.session.Overlay
	if o.Kind != interact.OverlayInfo {
		return e.noOverlay(interact.OverlayInfo)
	}
	if err := e.store.SetInfo(o.NodeID, text); err != nil {
		return err
	}
	e.Dispatch(interact.CloseOverlay())
	return nil
}

// PickColor applies a colour to the node of the open colour picker and
// closes it.
func (e *Engine) PickColor(color string) error {
	o := e.session.Overlay
	if o.Kind != interact.OverlayColorPicker {
		return e.noOverlay(interact.OverlayColorPicker)
	}
	if err := e.store.SetColor(o.NodeID, color); err != nil {
		return err
	}
	e.Dispatch(interact.CloseOverlay())
	return nil
}

// ConfirmDelete deletes the node of the open delete confirmation.
func (e *Engine) ConfirmDelete() error {
	o := e.session.Overlay
	if o.Kind != interact.OverlayDeleteConfirm {
		return e.noOverlay(interact.OverlayDeleteConfirm)
	}
	e.Dispatch(interact.CloseOverlay())
	e.DeleteNode(o.NodeID)
	return nil
}

// SubmitLink adds the link entered in the open link form and closes it.
// It reports whether a link was added.
func (e *Engine) SubmitLink(source, target string) (bool, error) {
	if e.session.Overlay.Kind != interact.OverlayLinkForm {
		return false, e.noOverlay(interact.OverlayLinkForm)
	}
	added := e.AddLink(graph.NormalizeID(source), graph.NormalizeID(target))
	e.Dispatch(interact.CloseOverlay())
	return added, nil
}

// Load replaces the graph with a persisted document. A malformed document
// leaves the graph untouched.
func (e *Engine) Load(data []byte) error {
	doc, err := document.Decode(data)
	if err != nil {
		e.logger.Warn("document rejected", "error", err)
		return err
	}
	return e.LoadDocument(doc)
}

// LoadDocument replaces the graph with an already decoded document.
func (e *Engine) LoadDocument(doc document.Document) error {
	if err := doc.Apply(e.store); err != nil {
		e.logger.Warn("document rejected", "error", err)
		return err
	}
	e.reconcile()
	e.logger.Info("document loaded",
		"nodes", len(doc.Nodes),
		"links", len(doc.Links),
		"violations", len(e.store.Check()),
	)
	return nil
}

// Document snapshots the graph.
func (e *Engine) Document() document.Document {
	return document.FromStore(e.store)
}

// Save encodes the graph.
func (e *Engine) Save() ([]byte, error) {
	return document.Encode(e.Document())
}

func (e *Engine) reconcile() {
	var effects []interact.Effect
	e.session, effects = e.machine.Reconcile(e.session, e.store)
	e.apply(effects)
}

func (e *Engine) noOverlay(want interact.OverlayKind) error {
	return &RuntimeError{
		Code:    ErrCodeNoOverlay,
		Message: want.String() + " overlay is not open",
		Session: e.sessionID,
	}
}
