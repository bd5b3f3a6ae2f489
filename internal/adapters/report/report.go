// Package report renders election outcomes as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	service "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/domain/ballot"
	"github.com/okian/rankvote/internal/domain/tally"
)

var scoreLabels = map[tally.Method]string{
	tally.Plurality:   "The number of votes for each candidate",
	tally.Borda:       "Borda scores",
	tally.Pairwise:    "Pairwise comparison points",
	tally.Elimination: "Votes in the final round",
	tally.Runoff:      "Votes in the final round",
}

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Render writes both views of the schedule followed by every result.
func Render(w io.Writer, out service.Outcome) error {
	p := &printer{w: w}
	schedule(p, out.Schedule)
	for _, r := range out.Results {
		p.printf("\n")
		result(p, r)
	}
	return p.err
}

// RenderSchedule writes the schedule in submission order and grouped by
// distinct ballot.
func RenderSchedule(w io.Writer, s *ballot.Schedule) error {
	p := &printer{w: w}
	schedule(p, s)
	return p.err
}

// RenderResult writes a single method's result.
func RenderResult(w io.Writer, r tally.Result) error {
	p := &printer{w: w}
	result(p, r)
	return p.err
}

func schedule(p *printer, s *ballot.Schedule) {
	p.printf("Preference Schedule:\n")
	if s.Len() == 0 {
		p.printf("(no ballots)\n")
	}
	for i, b := range s.Ballots() {
		p.printf("Voter %d: %s\n", i+1, join(b))
	}
	p.printf("\nDetailed Preference Schedule:\n")
	if s.Len() == 0 {
		p.printf("(no ballots)\n")
	}
	for _, g := range s.Grouped() {
		p.printf("%s: %s\n", english.Plural(g.Count, "Voter", ""), join(g.Ballot))
	}
}

func result(p *printer, r tally.Result) {
	p.printf("%s:\n", r.Method.Title())
	for _, rd := range r.Rounds {
		p.printf("%s round: %s", humanize.Ordinal(rd.Number), counts(rd.Active, rd.Counts))
		if rd.Exhausted > 0 {
			p.printf(" (%s exhausted)", humanize.Comma(int64(rd.Exhausted)))
		}
		if len(rd.Eliminated) > 0 {
			p.printf("; eliminated %s", join(rd.Eliminated))
		}
		p.printf("\n")
	}
	for _, m := range r.Matchups {
		p.printf("%s vs %s: %s to %s, point to %s\n", m.First, m.Second,
			humanize.Comma(int64(m.FirstVotes)), humanize.Comma(int64(m.SecondVotes)), m.Point)
	}
	label := scoreLabels[r.Method]
	if label == "" {
		label = "Scores"
	}
	p.printf("%s: %s\n", label, counts(r.Candidates, r.Scores))
	p.printf("The winner(s) is(are) %s\n", join(r.Winners))
}

func counts(order []ballot.Candidate, scores map[ballot.Candidate]int) string {
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = fmt.Sprintf("%s %s", c, humanize.Comma(int64(scores[c])))
	}
	return strings.Join(parts, ", ")
}

func join(cs []ballot.Candidate) string {
	return strings.Join(ballot.Ballot(cs).Strings(), ", ")
}
