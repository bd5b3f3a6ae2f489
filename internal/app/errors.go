package service

import "errors"

// ErrTooLarge is returned when an election exceeds the configured size limits.
var ErrTooLarge = errors.New("election too large")
