package ballot

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for schedule validation. These allow errors.Is from callers.
var (
	ErrInvalidCandidateSet = errors.New("invalid candidate set")
	ErrMalformedBallot     = errors.New("malformed ballot")
	ErrUnknownCandidate    = errors.New("unknown candidate")
	ErrDuplicateRanking    = errors.New("duplicate ranking")
)

// ValidationError reports the first rule a schedule failed.
type ValidationError struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Ballot is the 1-based position of the offending ballot, 0 for candidate-set errors.
	Ballot int
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Ballot > 0 {
		return fmt.Sprintf("%v: ballot %d: %s", e.Kind, e.Ballot, e.Detail)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// KindName returns a stable snake_case name for a validation kind, e.g. for
// metrics labels or API error codes. Unknown errors map to "invalid_schedule".
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCandidateSet):
		return "invalid_candidate_set"
	case errors.Is(err, ErrMalformedBallot):
		return "malformed_ballot"
	case errors.Is(err, ErrUnknownCandidate):
		return "unknown_candidate"
	case errors.Is(err, ErrDuplicateRanking):
		return "duplicate_ranking"
	default:
		return "invalid_schedule"
	}
}

func invalid(kind error, ballot int, format string, args ...any) error {
	return &ValidationError{Kind: kind, Ballot: ballot, Detail: fmt.Sprintf(format, args...)}
}
