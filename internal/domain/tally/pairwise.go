package tally

import "github.com/okian/rankvote/internal/domain/ballot"

// pairwiseTallier awards one point per head-to-head match-up won. A tied
// match-up goes to the second-listed candidate of the pair.
type pairwiseTallier struct{}

func (pairwiseTallier) Method() Method { return Pairwise }

func (pairwiseTallier) Tally(s *ballot.Schedule) (Result, error) {
	n := s.CandidateCount()
	if n == 0 {
		return Result{}, ErrEmptyCandidateSet
	}
	r := newResult(Pairwise, s)
	groups := s.Grouped()

	// positions[g][k] is the rank of candidate k on group g's ballot.
	positions := make([][]int, len(groups))
	for gi, g := range groups {
		pos := make([]int, n)
		for k, c := range r.Candidates {
			pos[k] = g.Ballot.Position(c)
		}
		positions[gi] = pos
	}

	r.Matchups = make([]Matchup, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m := Matchup{First: r.Candidates[i], Second: r.Candidates[j]}
			for gi, g := range groups {
				if positions[gi][i] < positions[gi][j] {
					m.FirstVotes += g.Count
				} else {
					m.SecondVotes += g.Count
				}
			}
			if m.FirstVotes > m.SecondVotes {
				m.Point = m.First
			} else {
				m.Point = m.Second
			}
			r.Scores[m.Point]++
			r.Matchups = append(r.Matchups, m)
		}
	}
	return r, r.resolve()
}
