// Package ledger owns the running balance, transaction history, and the
// inflow/outflow point series for a cflow session.
//
// A Ledger performs no internal locking. Callers that share one across
// goroutines must serialize access themselves.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when amount text is not a positive number.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrUnknownDirection is returned for a Direction that is neither Inflow nor Outflow.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction tags money added to or removed from the balance.
type Direction int

const (
	Inflow Direction = iota
	Outflow
)

func (d Direction) String() string {
	switch d {
	case Inflow:
		return "inflow"
	case Outflow:
		return "outflow"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is Inflow or Outflow.
func (d Direction) Valid() bool {
	return d == Inflow || d == Outflow
}

// ParseDirection accepts "inflow"/"in"/"+" and "outflow"/"out"/"-", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inflow", "in", "+":
		return Inflow, nil
	case "outflow", "out", "-":
		return Outflow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// MarshalText encodes d as "inflow" or "outflow".
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction is one accepted record.
type Transaction struct {
	Sequence  int64           `json:"sequence"`
	Timestamp int64           `json:"timestamp"` // unix seconds, display only
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
}

// Point is one chart sample. X is the shared sequence, not a time value.
type Point struct {
	Sequence  int64           `json:"sequence"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
}

// RecordResult carries everything a display needs after one Record call.
type RecordResult struct {
	Balance     decimal.Decimal `json:"balance"`
	Transaction Transaction     `json:"transaction"`
	Point       Point           `json:"point"`
}

// Totals summarizes both series.
type Totals struct {
	In       decimal.Decimal `json:"in"`
	Out      decimal.Decimal `json:"out"`
	InCount  int             `json:"in_count"`
	OutCount int             `json:"out_count"`
}

// Ledger is the sole authority over balance arithmetic and series bookkeeping.
type Ledger struct {
	now     func() time.Time
	nextSeq int64
	balance decimal.Decimal
	history []Transaction
	inflow  []Point
	outflow []Point
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns an empty ledger with a zero balance.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:     time.Now,
		balance: decimal.Zero,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record validates amountText and applies it in direction dir.
// On error nothing is mutated and no sequence number is consumed.
func (l *Ledger) Record(amountText string, dir Direction) (RecordResult, error) {
	if !dir.Valid() {
		return RecordResult{}, fmt.Errorf("%w: %d", ErrUnknownDirection, int(dir))
	}
	amount, err := ParseAmount(amountText)
	if err != nil {
		return RecordResult{}, err
	}

	seq := l.nextSeq
	l.nextSeq++

	tx := Transaction{
		Sequence:  seq,
		Timestamp: l.now().Unix(),
		Amount:    amount,
		Direction: dir,
	}
	pt := Point{Sequence: seq, Amount: amount, Direction: dir}

	if dir == Inflow {
		l.balance = l.balance.Add(amount)
		l.inflow = append(l.inflow, pt)
	} else {
		l.balance = l.balance.Sub(amount)
		l.outflow = append(l.outflow, pt)
	}
	l.history = append(l.history, tx)

	return RecordResult{Balance: l.balance, Transaction: tx, Point: pt}, nil
}

// CurrentBalance returns the running balance.
func (l *Ledger) CurrentBalance() decimal.Decimal {
	return l.balance
}

// Len returns the number of accepted transactions.
func (l *Ledger) Len() int {
	return len(l.history)
}

// HistorySnapshot returns a copy of the history in sequence order.
func (l *Ledger) HistorySnapshot() []Transaction {
	out := make([]Transaction, len(l.history))
	copy(out, l.history)
	return out
}

// SeriesSnapshot returns a copy of the points recorded in direction dir.
// Unknown directions yield an empty slice.
func (l *Ledger) SeriesSnapshot(dir Direction) []Point {
	var src []Point
	switch dir {
	case Inflow:
		src = l.inflow
	case Outflow:
		src = l.outflow
	}
	out := make([]Point, len(src))
	copy(out, src)
	return out
}

// Totals sums each series.
func (l *Ledger) Totals() Totals {
	t := Totals{In: decimal.Zero, Out: decimal.Zero}
	for _, p := range l.inflow {
		t.In = t.In.Add(p.Amount)
	}
	for _, p := range l.outflow {
		t.Out = t.Out.Add(p.Amount)
	}
	t.InCount = len(l.inflow)
	t.OutCount = len(l.outflow)
	return t
}

// LastSequence returns the most recently assigned sequence, or -1 when empty.
func (l *Ledger) LastSequence() int64 {
	return l.nextSeq - 1
}
