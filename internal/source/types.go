package source

import (
	"errors"
	"fmt"
)

// ErrMalformedLine reports a line that is neither a record nor a comment.
var ErrMalformedLine = errors.New("malformed line")

// RawEntry is the JSON form of one record line. It matches the body accepted
// by POST /v1/transactions and the objects served by GET /v1/transactions.
type RawEntry struct {
	Amount    string `json:"amount"`
	Direction string `json:"direction"`
}

// LineError ties a rejected line to its position in the input.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ReplayResult holds the output of replaying one input.
type ReplayResult struct {
	Recorded int
	Skipped  int // blank and comment lines
	Errors   []*LineError
}
