package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultImportID names a node imported from a file without a usable stem.
const DefaultImportID = "NewNode"

// NormalizeID trims surrounding whitespace and applies Unicode NFC so that
// ids that render identically compare equal.
func NormalizeID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// ImportName derives a node id from a file name: the base name up to the
// first ".", or DefaultImportID when that is empty.
func ImportName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	base = NormalizeID(base)
	if base == "" || base == "/" {
		return DefaultImportID
	}
	return base
}

// Label returns the text drawn inside a node: ids longer than 12 runes are
// cut to 10 followed by "...".
func Label(id string) string {
	r := []rune(id)
	if len(r) > 12 {
		return string(r[:10]) + "..."
	}
	return id
}

// uniqueID returns base if free, otherwise base-2, base-3, ...
func (s *Store) uniqueID(base string) string {
	if _, taken := s.index[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := s.index[candidate]; !taken {
			return candidate
		}
	}
}
