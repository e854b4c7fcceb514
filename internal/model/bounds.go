package model

import (
	"errors"
	"time"
)

// ErrNoBounds is returned when the statement period was never set.
var ErrNoBounds = errors.New("statement bounds were never set")

// Bounds tracks the earliest and latest transaction date of a statement.
type Bounds struct {
	First time.Time
	Last  time.Time
	set   bool
}

// Update widens the bounds to include date. Missing dates are ignored.
func (b *Bounds) Update(date time.Time) {
	if date.IsZero() {
		return
	}
	if !b.set {
		b.First, b.Last, b.set = date, date, true
		return
	}
	if date.Before(b.First) {
		b.First = date
	}
	if date.After(b.Last) {
		b.Last = date
	}
}

// Valid reports whether Update was called with at least one date.
func (b Bounds) Valid() bool { return b.set }

// Period returns the bounds or ErrNoBounds.
func (b Bounds) Period() (first, last time.Time, err error) {
	if !b.set {
		return time.Time{}, time.Time{}, ErrNoBounds
	}
	return b.First, b.Last, nil
}

// BoundsOf folds the dates of txns into a fresh Bounds.
func BoundsOf(txns []Transaction) Bounds {
	var b Bounds
	for _, t := range txns {
		b.Update(t.Date)
	}
	return b
}
