package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized statement row. Every field is optional:
// a zero Date, an invalid Amount and empty strings mean "not present".
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.NullDecimal // negative = debit, positive = credit
	ID          string              // bank-provided reference, if any
}

// HasDate reports whether the date was parsed.
func (t Transaction) HasDate() bool { return !t.Date.IsZero() }

// IsEmpty reports whether every field is missing. Empty transactions are
// never retained.
func (t Transaction) IsEmpty() bool {
	return !t.HasDate() && t.Description == "" && !t.Amount.Valid && t.ID == ""
}

// AmountString renders the amount keeping the scale it was read with,
// so "-4.50" stays "-4.50". A missing amount renders as "0".
func (t Transaction) AmountString() string {
	if !t.Amount.Valid {
		return "0"
	}
	d := t.Amount.Decimal
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Statement is the result of parsing one input stream.
type Statement struct {
	Transactions []Transaction
	Bounds       Bounds
}

// Add appends a retained transaction and moves the bounds.
func (s *Statement) Add(t Transaction) {
	s.Transactions = append(s.Transactions, t)
	s.Bounds.Update(t.Date)
}

// Append appends a retained transaction without touching the bounds.
func (s *Statement) Append(t Transaction) {
	s.Transactions = append(s.Transactions, t)
}
