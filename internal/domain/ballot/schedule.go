package ballot

import (
	"strings"
)

// Option applies a configuration option to schedule construction.
type Option func(*Schedule)

// WithLenientRankings skips the one-ranking-per-candidate check. Ballots of the
// right length that name only known candidates are accepted even if they
// repeat one.
func WithLenientRankings() Option {
	return func(s *Schedule) {
		s.strict = false
	}
}

// WithStrictRankings sets whether each ballot must rank every candidate exactly once.
func WithStrictRankings(strict bool) Option {
	return func(s *Schedule) {
		s.strict = strict
	}
}

// Schedule is a validated, read-only preference schedule: the declared
// candidates and every ballot in submission order.
type Schedule struct {
	candidates []Candidate
	index      map[Candidate]int
	ballots    []Ballot
	strict     bool
}

// NewSchedule validates ballots against candidates and returns the schedule.
// Rules are checked in order and the first failure is returned:
//  1. candidates must be non-empty, non-blank and distinct
//  2. every ballot must have len(candidates) entries
//  3. every entry must be a declared candidate
//  4. every candidate must appear once per ballot (unless lenient)
//
// Inputs are copied; later changes by the caller do not affect the schedule.
func NewSchedule(candidates []Candidate, ballots []Ballot, opts ...Option) (*Schedule, error) {
	s := &Schedule{strict: true}
	for _, opt := range opts {
		opt(s)
	}

	if len(candidates) == 0 {
		return nil, invalid(ErrInvalidCandidateSet, 0, "no candidates")
	}
	s.index = make(map[Candidate]int, len(candidates))
	s.candidates = make([]Candidate, len(candidates))
	for i, c := range candidates {
		if strings.TrimSpace(string(c)) == "" {
			return nil, invalid(ErrInvalidCandidateSet, 0, "candidate %d is blank", i+1)
		}
		if _, dup := s.index[c]; dup {
			return nil, invalid(ErrInvalidCandidateSet, 0, "candidate %q listed twice", c)
		}
		s.index[c] = i
		s.candidates[i] = c
	}

	s.ballots = make([]Ballot, len(ballots))
	for i, b := range ballots {
		if err := s.validate(i+1, b); err != nil {
			return nil, err
		}
		s.ballots[i] = b.clone()
	}
	return s, nil
}

func (s *Schedule) validate(n int, b Ballot) error {
	if len(b) != len(s.candidates) {
		return invalid(ErrMalformedBallot, n, "ranks %d candidates, want %d", len(b), len(s.candidates))
	}
	for _, c := range b {
		if _, ok := s.index[c]; !ok {
			return invalid(ErrUnknownCandidate, n, "%q is not a candidate", c)
		}
	}
	if !s.strict {
		return nil
	}
	seen := make([]bool, len(s.candidates))
	for _, c := range b {
		i := s.index[c]
		if seen[i] {
			return invalid(ErrDuplicateRanking, n, "%q ranked more than once", c)
		}
		seen[i] = true
	}
	return nil
}

// Candidates returns the declared candidates in declared order.
func (s *Schedule) Candidates() []Candidate {
	if s == nil {
		return nil
	}
	out := make([]Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// CandidateCount returns the number of declared candidates.
func (s *Schedule) CandidateCount() int {
	if s == nil {
		return 0
	}
	return len(s.candidates)
}

// Len returns the number of ballots.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ballots)
}

// Strict reports whether duplicate rankings were rejected at construction.
func (s *Schedule) Strict() bool {
	return s != nil && s.strict
}

// Ballot returns a copy of the i-th ballot (0-based, submission order).
func (s *Schedule) Ballot(i int) Ballot {
	if s == nil {
		return nil
	}
	return s.ballots[i].clone()
}

// Ballots returns a copy of every ballot in submission order.
func (s *Schedule) Ballots() []Ballot {
	if s == nil {
		return nil
	}
	out := make([]Ballot, len(s.ballots))
	for i, b := range s.ballots {
		out[i] = b.clone()
	}
	return out
}

// Grouped returns each distinct ballot with its number of voters, in order of
// first appearance. Counts sum to Len().
func (s *Schedule) Grouped() []Group {
	if s == nil {
		return nil
	}
	pos := make(map[string]int, len(s.ballots))
	groups := make([]Group, 0, len(s.ballots))
	for _, b := range s.ballots {
		k := b.Key()
		if i, ok := pos[k]; ok {
			groups[i].Count++
			continue
		}
		pos[k] = len(groups)
		groups = append(groups, Group{Ballot: b.clone(), Count: 1})
	}
	return groups
}
