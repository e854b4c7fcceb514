package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestTransaction_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want bool
	}{
		{"zero", Transaction{}, true},
		{"date only", Transaction{Date: day(2010, 2, 7)}, false},
		{"description only", Transaction{Description: "x"}, false},
		{"amount only", Transaction{Amount: amount("0")}, false},
		{"id only", Transaction{ID: "TX1"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.txn.IsEmpty(), tt.name)
	}
}

func TestTransaction_AmountString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-4.50", "-4.50"},
		{"12", "12"},
		{"0.001", "0.001"},
		{"1234.5", "1234.5"},
	}
	for _, tt := range tests {
		txn := Transaction{Amount: amount(tt.in)}
		assert.Equal(t, tt.want, txn.AmountString(), "input %s", tt.in)
	}
}

func TestTransaction_AmountStringMissing(t *testing.T) {
	assert.Equal(t, "0", Transaction{}.AmountString())
}
