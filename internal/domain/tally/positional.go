package tally

import "github.com/okian/rankvote/internal/domain/ballot"

// pluralityTallier awards one point per ballot to its first choice.
type pluralityTallier struct{}

func (pluralityTallier) Method() Method { return Plurality }

func (pluralityTallier) Tally(s *ballot.Schedule) (Result, error) {
	if s.CandidateCount() == 0 {
		return Result{}, ErrEmptyCandidateSet
	}
	r := newResult(Plurality, s)
	for _, g := range s.Grouped() {
		r.Scores[g.Ballot[0]] += g.Count
	}
	return r, r.resolve()
}

// bordaTallier awards n-i points for rank index i, n being the candidate count.
type bordaTallier struct{}

func (bordaTallier) Method() Method { return Borda }

func (bordaTallier) Tally(s *ballot.Schedule) (Result, error) {
	n := s.CandidateCount()
	if n == 0 {
		return Result{}, ErrEmptyCandidateSet
	}
	r := newResult(Borda, s)
	for _, g := range s.Grouped() {
		for i, c := range g.Ballot {
			r.Scores[c] += (n - i) * g.Count
		}
	}
	return r, r.resolve()
}
