// Package source reads elections from CSV files. The first record lists the
// candidates in declared order; every following record is one ballot, most
// preferred first.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel kinds for source errors.
var (
	ErrNotFound = errors.New("ballot file not found")
	ErrNotCSV   = errors.New("ballot file is not a .csv file")
	ErrEmpty    = errors.New("ballot file has no candidate row")
	ErrRead     = errors.New("read ballot file")
)

// Election is the raw content of a ballot file. It is validated later, when
// a schedule is built from it.
type Election struct {
	Candidates []string
	Ballots    [][]string
}

// ReadFile opens path and reads an election from it.
func ReadFile(path string) (Election, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return Election{}, fmt.Errorf("%w: %s", ErrNotCSV, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Election{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Election{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses an election from r. Fields are trimmed and blank lines skipped.
// Records may differ in length; a short or long ballot is reported when the
// schedule is validated.
func Read(r io.Reader) (Election, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var e Election
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Election{}, fmt.Errorf("%w: %w", ErrRead, err)
		}
		row := trim(rec)
		if len(row) == 0 {
			continue
		}
		if e.Candidates == nil {
			e.Candidates = row
			continue
		}
		e.Ballots = append(e.Ballots, row)
	}
	if e.Candidates == nil {
		return Election{}, ErrEmpty
	}
	return e, nil
}

// trim strips every field and drops a record made only of empty fields.
func trim(rec []string) []string {
	blank := true
	out := make([]string, len(rec))
	for i, f := range rec {
		out[i] = strings.TrimSpace(f)
		if out[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}
	return out
}
