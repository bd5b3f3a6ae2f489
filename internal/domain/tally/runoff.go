package tally

import "github.com/okian/rankvote/internal/domain/ballot"

// countRound credits each ballot to its highest-ranked active candidate.
// Ballots ranking no active candidate are exhausted.
func countRound(number int, groups []ballot.Group, active []ballot.Candidate) Round {
	in := make(map[ballot.Candidate]bool, len(active))
	counts := make(map[ballot.Candidate]int, len(active))
	for _, c := range active {
		in[c] = true
		counts[c] = 0
	}
	rd := Round{Number: number, Active: append([]ballot.Candidate(nil), active...), Counts: counts}
	for _, g := range groups {
		credited := false
		for _, c := range g.Ballot {
			if in[c] {
				counts[c] += g.Count
				credited = true
				break
			}
		}
		if !credited {
			rd.Exhausted += g.Count
		}
	}
	return rd
}

// majority returns the active candidate holding more than half the
// continuing ballots.
func majority(rd Round) (ballot.Candidate, bool) {
	continuing := rd.Continuing()
	for _, c := range rd.Active {
		if 2*rd.Counts[c] > continuing {
			return c, true
		}
	}
	return "", false
}

func without(cands, drop []ballot.Candidate) []ballot.Candidate {
	gone := make(map[ballot.Candidate]bool, len(drop))
	for _, c := range drop {
		gone[c] = true
	}
	out := make([]ballot.Candidate, 0, len(cands))
	for _, c := range cands {
		if !gone[c] {
			out = append(out, c)
		}
	}
	return out
}

// finish copies the last round's counts into the result scores.
func finish(r *Result, winners []ballot.Candidate) {
	last := r.Rounds[len(r.Rounds)-1]
	for _, c := range last.Active {
		r.Scores[c] = last.Counts[c]
	}
	r.Winners = winners
}

// eliminationTallier is instant-runoff voting. Each round the candidates with
// the fewest first choices among those still active are dropped together,
// until one holds a strict majority of continuing ballots or every remaining
// candidate is tied.
type eliminationTallier struct{}

func (eliminationTallier) Method() Method { return Elimination }

func (eliminationTallier) Tally(s *ballot.Schedule) (Result, error) {
	if s.CandidateCount() == 0 {
		return Result{}, ErrEmptyCandidateSet
	}
	r := newResult(Elimination, s)
	groups := s.Grouped()
	active := r.Candidates

	// Each non-final round removes at least one candidate, so this runs at
	// most len(r.Candidates) times.
	for number := 1; ; number++ {
		rd := countRound(number, groups, active)
		if c, ok := majority(rd); ok {
			r.Rounds = append(r.Rounds, rd)
			finish(&r, []ballot.Candidate{c})
			return r, nil
		}
		lowest, err := Resolve(active, rd.Counts, Lowest)
		if err != nil {
			return Result{}, err
		}
		if len(lowest) == len(active) {
			r.Rounds = append(r.Rounds, rd)
			finish(&r, lowest)
			return r, nil
		}
		rd.Eliminated = lowest
		r.Rounds = append(r.Rounds, rd)
		active = without(active, lowest)
	}
}

// runoffTallier is plurality with a runoff. A first-round strict majority wins
// outright; otherwise the leaders advance to a second count: every candidate
// tied for first, or the leader together with everyone tied for second. When
// every candidate advances the first round is final.
type runoffTallier struct{}

func (runoffTallier) Method() Method { return Runoff }

func (runoffTallier) Tally(s *ballot.Schedule) (Result, error) {
	if s.CandidateCount() == 0 {
		return Result{}, ErrEmptyCandidateSet
	}
	r := newResult(Runoff, s)
	groups := s.Grouped()

	first := countRound(1, groups, r.Candidates)
	if c, ok := majority(first); ok {
		r.Rounds = append(r.Rounds, first)
		finish(&r, []ballot.Candidate{c})
		return r, nil
	}

	finalists, err := Resolve(r.Candidates, first.Counts, Highest)
	if err != nil {
		return Result{}, err
	}
	if rest := without(r.Candidates, finalists); len(finalists) == 1 && len(rest) > 0 {
		second, err := Resolve(rest, first.Counts, Highest)
		if err != nil {
			return Result{}, err
		}
		finalists = append(finalists, second...)
		// Keep declared order.
		finalists = without(r.Candidates, without(r.Candidates, finalists))
	}
	first.Eliminated = without(r.Candidates, finalists)
	r.Rounds = append(r.Rounds, first)
	// A second count over every candidate would repeat the first.
	if len(first.Eliminated) == 0 {
		winners, err := Winners(r.Candidates, first.Counts)
		if err != nil {
			return Result{}, err
		}
		finish(&r, winners)
		return r, nil
	}

	final := countRound(2, groups, finalists)
	r.Rounds = append(r.Rounds, final)
	winners, err := Winners(finalists, final.Counts)
	if err != nil {
		return Result{}, err
	}
	finish(&r, winners)
	return r, nil
}
