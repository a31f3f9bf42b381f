package graph

// ViolationKind names a broken store invariant.
type ViolationKind string

const (
	ViolationMissingSource ViolationKind = "missing_source"
	ViolationMissingTarget ViolationKind = "missing_target"
	ViolationMissingBoth   ViolationKind = "missing_both"
	ViolationSelfLink      ViolationKind = "self_link"
	ViolationDuplicateLink ViolationKind = "duplicate_link"
)

// Violation describes one link that breaks a store invariant. Index is the
// link's position in Links().
type Violation struct {
	Kind  ViolationKind `json:"kind"`
	Index int           `json:"index"`
	Link  Link          `json:"link"`
}

// Check reports every link that PruneDanglingLinks would remove. A store
// that only went through mutators always returns an empty slice.
func (s *Store) Check() []Violation {
	var out []Violation
	seen := make(map[pairKey]bool, len(s.links))
	for i, l := range s.links {
		okA, okB := s.Has(l.A), s.Has(l.B)
		switch {
		case !okA && !okB:
			out = append(out, Violation{Kind: ViolationMissingBoth, Index: i, Link: l})
		case !okA:
			out = append(out, Violation{Kind: ViolationMissingSource, Index: i, Link: l})
		case !okB:
			out = append(out, Violation{Kind: ViolationMissingTarget, Index: i, Link: l})
		case l.A == l.B:
			out = append(out, Violation{Kind: ViolationSelfLink, Index: i, Link: l})
		case seen[l.key()]:
			out = append(out, Violation{Kind: ViolationDuplicateLink, Index: i, Link: l})
		default:
			seen[l.key()] = true
		}
	}
	return out
}
