// Package source reads transaction records from text input and replays them
// into a ledger.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/cflow/internal/ledger"
)

// ParseLine parses a single record line. ok is false for blank and comment
// lines, which carry no record.
//
// Accepted forms:
//   - "+100", "-30.5"         → sign is the direction
//   - "in 100", "out 30.5"   → direction word, then amount
//   - {"amount":"12.50","direction":"inflow"} → JSON object
//
// Anything after '#' is a comment.
func ParseLine(text string) (amount string, dir ledger.Direction, ok bool, err error) {
	line := strings.TrimSpace(text)

	if strings.HasPrefix(line, "{") {
		return parseJSONLine([]byte(line))
	}

	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return "", 0, false, nil
	}

	var dirText string
	switch line[0] {
	case '+', '-':
		dirText, amount = line[:1], strings.TrimSpace(line[1:])
	default:
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return "", 0, false, fmt.Errorf("%w: %q", ErrMalformedLine, text)
		}
		dirText, amount = fields[0], fields[1]
	}

	dir, err = ledger.ParseDirection(dirText)
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return amount, dir, true, nil
}

func parseJSONLine(line []byte) (string, ledger.Direction, bool, error) {
	var raw RawEntry
	dec := json.NewDecoder(bytes.NewReader(line))
	if err := dec.Decode(&raw); err != nil {
		return "", 0, false, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	dir, err := ledger.ParseDirection(raw.Direction)
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return raw.Amount, dir, true, nil
}

// Replay reads r line by line and records every valid line into l. Bad lines
// are collected in the result and do not stop the replay; only read errors
// are returned.
func Replay(r io.Reader, l *ledger.Ledger) (ReplayResult, error) {
	var res ReplayResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		amount, dir, ok, err := ParseLine(text)
		if err != nil {
			res.Errors = append(res.Errors, &LineError{Line: lineNo, Text: text, Err: err})
			continue
		}
		if !ok {
			res.Skipped++
			continue
		}

		if _, err := l.Record(amount, dir); err != nil {
			res.Errors = append(res.Errors, &LineError{Line: lineNo, Text: text, Err: err})
			continue
		}
		res.Recorded++
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return res, nil
}

// ReplayFile opens path and replays it into l.
func ReplayFile(path string, l *ledger.Ledger) (ReplayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReplayResult{}, err
	}
	defer func() { _ = f.Close() }()

	return Replay(f, l)
}
