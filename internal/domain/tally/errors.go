package tally

import "errors"

// Sentinel error kinds for tallying.
var (
	ErrUnknownMethod     = errors.New("unknown method")
	ErrEmptyCandidateSet = errors.New("empty candidate set")
	ErrEmptyScoreMapping = errors.New("empty score mapping")
)
