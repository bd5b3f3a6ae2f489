package tally

import "github.com/okian/rankvote/internal/domain/ballot"

// Direction selects which end of the score range Resolve picks.
type Direction int

const (
	// Highest picks candidates at the maximum score.
	Highest Direction = iota
	// Lowest picks candidates at the minimum score.
	Lowest
)

// Resolve returns every candidate in order whose score is the best for dir.
// Candidates absent from scores count as 0. The result keeps the order of order.
func Resolve(order []ballot.Candidate, scores map[ballot.Candidate]int, dir Direction) ([]ballot.Candidate, error) {
	if len(order) == 0 {
		return nil, ErrEmptyScoreMapping
	}
	best := scores[order[0]]
	for _, c := range order[1:] {
		v := scores[c]
		if (dir == Highest && v > best) || (dir == Lowest && v < best) {
			best = v
		}
	}
	out := make([]ballot.Candidate, 0, 1)
	for _, c := range order {
		if scores[c] == best {
			out = append(out, c)
		}
	}
	return out, nil
}

// Winners returns the candidates tied for the maximum score.
func Winners(order []ballot.Candidate, scores map[ballot.Candidate]int) ([]ballot.Candidate, error) {
	return Resolve(order, scores, Highest)
}
