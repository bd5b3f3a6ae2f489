package tally

import (
	"sort"

	"github.com/okian/rankvote/internal/domain/ballot"
)

// Result is the outcome of one method over one schedule.
type Result struct {
	Method Method
	// Candidates is the declared candidate order; Scores and Winners follow it.
	Candidates []ballot.Candidate
	Scores     map[ballot.Candidate]int
	Winners    []ballot.Candidate
	// Ballots is the number of ballots counted.
	Ballots int

	// Rounds is set by the runoff methods.
	Rounds []Round
	// Matchups is set by the pairwise method.
	Matchups []Matchup
}

// Score returns c's score, 0 if c was not scored.
func (r Result) Score(c ballot.Candidate) int {
	return r.Scores[c]
}

// Total returns the sum of all scores.
func (r Result) Total() int {
	total := 0
	for _, c := range r.Candidates {
		total += r.Scores[c]
	}
	return total
}

// IsWinner reports whether c is in the winner set.
func (r Result) IsWinner(c ballot.Candidate) bool {
	for _, w := range r.Winners {
		if w == c {
			return true
		}
	}
	return false
}

// Standing is a candidate's score in a ranked listing.
type Standing struct {
	Candidate ballot.Candidate
	Score     int
}

// Ranked returns every candidate ordered by score, highest first. Equal scores
// keep declared order.
func (r Result) Ranked() []Standing {
	out := make([]Standing, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = Standing{Candidate: c, Score: r.Scores[c]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Round is one counting pass of a runoff method.
type Round struct {
	Number int
	// Active lists the candidates still counted this round, in declared order.
	Active []ballot.Candidate
	Counts map[ballot.Candidate]int
	// Exhausted counts ballots ranking no active candidate.
	Exhausted int
	// Eliminated lists candidates dropped after this round.
	Eliminated []ballot.Candidate
}

// Continuing returns the number of ballots counted for an active candidate.
func (r Round) Continuing() int {
	n := 0
	for _, c := range r.Active {
		n += r.Counts[c]
	}
	return n
}

// Matchup is a head-to-head comparison between two candidates.
type Matchup struct {
	// First is listed before Second in the declared order.
	First, Second ballot.Candidate
	// FirstVotes counts ballots ranking First above Second; SecondVotes the rest.
	FirstVotes, SecondVotes int
	// Point is the candidate awarded the match-up.
	Point ballot.Candidate
}

func newResult(m Method, s *ballot.Schedule) Result {
	cands := s.Candidates()
	scores := make(map[ballot.Candidate]int, len(cands))
	for _, c := range cands {
		scores[c] = 0
	}
	return Result{Method: m, Candidates: cands, Scores: scores, Ballots: s.Len()}
}

func (r *Result) resolve() error {
	w, err := Winners(r.Candidates, r.Scores)
	if err != nil {
		return err
	}
	r.Winners = w
	return nil
}
