package graph

import (
	"math/rand/v2"
)

// Store holds nodes in insertion order and links in creation order.
type Store struct {
	nodes []Node
	index map[string]int // id -> position in nodes
	links []Link

	rng   *rand.Rand
	spawn Rect
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRand sets the random source used for spawn positions and colors.
// Tests pass a seeded source for reproducible placement.
func WithRand(r *rand.Rand) StoreOption {
	return func(s *Store) {
		s.rng = r
	}
}

// WithSpawn sets the rectangle that AddNode and ImportTextAsNode place
// new nodes in.
func WithSpawn(r Rect) StoreOption {
	return func(s *Store) {
		s.spawn = r
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		index: make(map[string]int),
		spawn: DefaultSpawn,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.nodes) }

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Has reports whether a node with id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Nodes returns a copy of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Links returns a copy of all links in creation order, dangling ones included.
func (s *Store) Links() []Link {
	out := make([]Link, len(s.links))
	copy(out, s.links)
	return out
}

// ResolvedLinks returns links whose endpoints both exist, with endpoint
// positions. Dangling links are skipped.
func (s *Store) ResolvedLinks() []ResolvedLink {
	out := make([]ResolvedLink, 0, len(s.links))
	for _, l := range s.links {
		a, okA := s.index[l.A]
		b, okB := s.index[l.B]
		if !okA || !okB {
			continue
		}
		out = append(out, ResolvedLink{Link: l, From: s.nodes[a].Pos, To: s.nodes[b].Pos})
	}
	return out
}

// Neighbors returns the ids linked to id, in link order. Dangling
// neighbors are omitted.
func (s *Store) Neighbors(id string) []string {
	var out []string
	for _, l := range s.links {
		if !l.Has(id) || l.A == l.B {
			continue
		}
		other := l.Other(id)
		if s.Has(other) {
			out = append(out, other)
		}
	}
	return out
}

// HasLink reports whether a and b are linked in either order.
func (s *Store) HasLink(a, b string) bool {
	probe := Link{A: a, B: b}
	for _, l := range s.links {
		if l.Same(probe) {
			return true
		}
	}
	return false
}

// AddNode creates a node at a random spawn position with a random palette
// color. Returns the normalized id.
func (s *Store) AddNode(id, info string) (string, error) {
	return s.InsertNode(Node{
		ID:    id,
		Pos:   s.randomPosition(),
		Color: s.randomColor(),
		Info:  info,
	})
}

// InsertNode adds n as given, after normalizing its id. Velocity is reset.
func (s *Store) InsertNode(n Node) (string, error) {
	id := NormalizeID(n.ID)
	if id == "" {
		return "", &Error{Code: ErrCodeInvalidID}
	}
	if s.Has(id) {
		return "", &Error{Code: ErrCodeDuplicateID, ID: id}
	}
	n.ID = id
	n.Vel = Vec2{}
	s.index[id] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return id, nil
}

// ImportTextAsNode creates a node named after filename with content as its
// info. A taken name gets a numeric suffix instead of failing.
func (s *Store) ImportTextAsNode(filename, content string) (string, error) {
	id := s.uniqueID(ImportName(filename))
	return s.AddNode(id, content)
}

// RenameNode changes a node's id and rewrites every incident link endpoint.
// Nothing is mutated when an error is returned.
func (s *Store) RenameNode(oldID, newID string) error {
	i, ok := s.index[oldID]
	if !ok {
		return &Error{Code: ErrCodeNodeNotFound, ID: oldID}
	}
	newID = NormalizeID(newID)
	if newID == "" {
		return &Error{Code: ErrCodeInvalidID}
	}
	if newID == oldID {
		return nil
	}
	if s.Has(newID) {
		return &Error{Code: ErrCodeDuplicateID, ID: newID}
	}

	s.nodes[i].ID = newID
	delete(s.index, oldID)
	s.index[newID] = i
	for j := range s.links {
		if s.links[j].A == oldID {
			s.links[j].A = newID
		}
		if s.links[j].B == oldID {
			s.links[j].B = newID
		}
	}
	return nil
}

// DeleteNode removes a node and every link touching it. Deleting an absent
// id is a no-op.
func (s *Store) DeleteNode(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.DeleteLinksIncidentTo(id)
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	s.reindex()
}

// DeleteLinksIncidentTo removes every link with id as an endpoint and
// returns how many were removed.
func (s *Store) DeleteLinksIncidentTo(id string) int {
	kept := s.links[:0]
	removed := 0
	for _, l := range s.links {
		if l.Has(id) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return removed
}

// SetColor changes a node's color.
func (s *Store) SetColor(id, color string) error {
	i, ok := s.index[id]
	if !ok {
		return &Error{Code: ErrCodeNodeNotFound, ID: id}
	}
	s.nodes[i].Color = color
	return nil
}

// SetInfo replaces a node's free-text info.
func (s *Store) SetInfo(id, text string) error {
	i, ok := s.index[id]
	if !ok {
		return &Error{Code: ErrCodeNodeNotFound, ID: id}
	}
	s.nodes[i].Info = text
	return nil
}

// AddLink links a and b. It is a silent no-op, returning false, for a self
// link, an existing pair in either order, or a missing endpoint.
func (s *Store) AddLink(a, b string) bool {
	if a == b || !s.Has(a) || !s.Has(b) || s.HasLink(a, b) {
		return false
	}
	s.links = append(s.links, Link{A: a, B: b})
	return true
}

// PruneDanglingLinks drops links with a missing endpoint, self links and
// repeated pairs, keeping the first occurrence. Returns the number removed.
func (s *Store) PruneDanglingLinks() int {
	seen := make(map[pairKey]bool, len(s.links))
	kept := s.links[:0]
	removed := 0
	for _, l := range s.links {
		k := l.key()
		if l.A == l.B || !s.Has(l.A) || !s.Has(l.B) || seen[k] {
			removed++
			continue
		}
		seen[k] = true
		kept = append(kept, l)
	}
	s.links = kept
	return removed
}

// Replace swaps in a complete node and link set. Ids and link endpoints are
// normalized like every other way in; node ids must then be unique. Links
// are installed verbatim without endpoint checks. On error the store is
// unchanged.
func (s *Store) Replace(nodes []Node, links []Link) error {
	next := make([]Node, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		n.ID = NormalizeID(n.ID)
		if n.ID == "" {
			return &Error{Code: ErrCodeInvalidID}
		}
		if _, dup := index[n.ID]; dup {
			return &Error{Code: ErrCodeDuplicateID, ID: n.ID}
		}
		n.Vel = Vec2{}
		next[i] = n
		index[n.ID] = i
	}

	nextLinks := make([]Link, len(links))
	for i, l := range links {
		nextLinks[i] = Link{A: NormalizeID(l.A), B: NormalizeID(l.B)}
	}

	s.nodes = next
	s.index = index
	s.links = nextLinks
	return nil
}

// SetPosition writes a node's position. Used by the simulation.
func (s *Store) SetPosition(id string, p Vec2) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.nodes[i].Pos = p
	return true
}

// SetVelocity writes a node's velocity. Used by the simulation.
func (s *Store) SetVelocity(id string, v Vec2) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.nodes[i].Vel = v
	return true
}

// MoveTo places a node at p and zeroes its velocity, as a drag does.
func (s *Store) MoveTo(id string, p Vec2) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.nodes[i].Pos = p
	s.nodes[i].Vel = Vec2{}
	return true
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		s.index[n.ID] = i
	}
}

func (s *Store) randomPosition() Vec2 {
	return Vec2{
		X: s.spawn.MinX + s.rng.Float64()*(s.spawn.MaxX-s.spawn.MinX),
		Y: s.spawn.MinY + s.rng.Float64()*(s.spawn.MaxY-s.spawn.MinY),
	}
}

func (s *Store) randomColor() string {
	return Palette[s.rng.IntN(len(Palette))]
}
