package engine

import (
	"fmt"
	"strings"
)

// Match is the outcome of resolving a typed name against a Directory.
// Callers must disambiguate when more than one candidate is returned.
type Match struct {
	Name       string
	Candidates []Contact
}

// Unique reports whether exactly one contact matched.
func (m Match) Unique() bool { return len(m.Candidates) == 1 }

// Ambiguous reports whether several contacts share the name.
func (m Match) Ambiguous() bool { return len(m.Candidates) > 1 }

// IDs returns the candidate ids in directory order.
func (m Match) IDs() []string {
	ids := make([]string, len(m.Candidates))
	for i, c := range m.Candidates {
		ids[i] = c.ID
	}
	return ids
}

// Resolve finds every contact whose display name equals name exactly
// (case-sensitive). A blank name fails with ErrEmptyName before lookup; no
// match fails with ErrNotFound.
func Resolve(name string, dir *Directory) (Match, error) {
	if strings.TrimSpace(name) == "" {
		return Match{}, ErrEmptyName
	}

	m := Match{Name: name}
	for _, c := range dir.Contacts() {
		if c.Name == name {
			m.Candidates = append(m.Candidates, c)
		}
	}
	if len(m.Candidates) == 0 {
		return Match{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return m, nil
}
