// Package tally implements the vote-counting methods run over a ballot.Schedule.
package tally

import (
	"fmt"
	"strings"

	"github.com/okian/rankvote/internal/domain/ballot"
)

// Method names a counting method.
type Method string

// Supported methods.
const (
	Plurality   Method = "plurality"
	Borda       Method = "borda"
	Pairwise    Method = "pairwise"
	Elimination Method = "elimination"
	Runoff      Method = "runoff"
)

var aliases = map[string]Method{
	"plurality":           Plurality,
	"borda":               Borda,
	"pairwise":            Pairwise,
	"pairwise-comparison": Pairwise,
	"condorcet":           Pairwise,
	"elimination":         Elimination,
	"instant-runoff":      Elimination,
	"irv":                 Elimination,
	"runoff":              Runoff,
}

var titles = map[Method]string{
	Plurality:   "Plurality method",
	Borda:       "Borda count",
	Pairwise:    "Pairwise comparison method",
	Elimination: "Elimination method",
	Runoff:      "Runoff method",
}

// Title returns the human-readable method name.
func (m Method) Title() string {
	if t, ok := titles[m]; ok {
		return t
	}
	return string(m)
}

func (m Method) String() string { return string(m) }

// ParseMethod resolves a method name or alias, ignoring case and surrounding space.
func ParseMethod(name string) (Method, error) {
	if m, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// ParseMethods resolves every name, failing on the first unknown one.
func ParseMethods(names []string) ([]Method, error) {
	out := make([]Method, 0, len(names))
	for _, n := range names {
		m, err := ParseMethod(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Sequence returns the methods run when none is named, in reporting order.
func Sequence() []Method {
	return []Method{Plurality, Borda, Pairwise}
}

// Methods returns every supported method.
func Methods() []Method {
	return []Method{Plurality, Borda, Pairwise, Elimination, Runoff}
}

// Tallier counts a schedule under one method. Implementations hold no state
// between calls and are safe for concurrent use.
type Tallier interface {
	Method() Method
	Tally(s *ballot.Schedule) (Result, error)
}

// For returns the tallier for m.
func For(m Method) (Tallier, error) {
	switch m {
	case Plurality:
		return pluralityTallier{}, nil
	case Borda:
		return bordaTallier{}, nil
	case Pairwise:
		return pairwiseTallier{}, nil
	case Elimination:
		return eliminationTallier{}, nil
	case Runoff:
		return runoffTallier{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(m))
}

// Run tallies s under m.
func Run(m Method, s *ballot.Schedule) (Result, error) {
	t, err := For(m)
	if err != nil {
		return Result{}, err
	}
	return t.Tally(s)
}
