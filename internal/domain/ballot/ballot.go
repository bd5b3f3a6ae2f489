// Package ballot validates and stores ranked ballots for a single election.
package ballot

import (
	"strconv"
	"strings"
)

// Candidate is an opaque candidate identifier.
type Candidate string

// Ballot is one voter's ranking, most preferred first.
type Ballot []Candidate

// Key encodes the ballot as a string usable as a map key. Each entry is
// length-prefixed, so two ballots share a key only if they are identical.
func (b Ballot) Key() string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteString(strconv.Itoa(len(c)))
		sb.WriteByte(':')
		sb.WriteString(string(c))
	}
	return sb.String()
}

// Equal reports whether both ballots rank the same candidates in the same order.
func (b Ballot) Equal(o Ballot) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Position returns the 0-based rank of c on the ballot, or len(b) when c is
// absent. Only the first occurrence counts.
func (b Ballot) Position(c Candidate) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return len(b)
}

// Strings returns the ballot entries as plain strings.
func (b Ballot) Strings() []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = string(c)
	}
	return out
}

func (b Ballot) clone() Ballot {
	out := make(Ballot, len(b))
	copy(out, b)
	return out
}

// Group is a distinct ballot and how many voters cast it.
type Group struct {
	Ballot Ballot
	Count  int
}

// Candidates converts plain strings to candidates.
func Candidates(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = Candidate(n)
	}
	return out
}

// Of builds a ballot from plain strings.
func Of(names ...string) Ballot {
	return Ballot(Candidates(names...))
}
