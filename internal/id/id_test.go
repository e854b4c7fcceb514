package id

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/heiberg/ofxify/internal/model"
)

var generated = regexp.MustCompile(`^generated_guid_[0-9a-f]{32}$`)

func txn(desc, amount string) model.Transaction {
	return model.Transaction{
		Date:        time.Date(2010, 2, 7, 13, 54, 52, 0, time.UTC),
		Description: desc,
		Amount:      decimal.NewNullDecimal(decimal.RequireFromString(amount)),
	}
}

func TestFITID_Natural(t *testing.T) {
	tx := txn("Coffee Shop", "-4.50")
	tx.ID = "TX1"
	assert.Equal(t, "TX1", FITID(tx))
}

func TestFITID_Synthesized(t *testing.T) {
	got := FITID(txn("Coffee Shop", "-4.50"))
	assert.Regexp(t, generated, got)
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := Synthesize(txn("Coffee Shop", "-4.50"))
	b := Synthesize(txn("Coffee Shop", "-4.50"))
	assert.Equal(t, a, b)
}

func TestSynthesize_ContentSensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Transaction
	}{
		{"description", txn("Coffee Shop", "-4.50"), txn("Tea Shop", "-4.50")},
		{"amount", txn("Coffee Shop", "-4.50"), txn("Coffee Shop", "-4.51")},
		{"date", txn("Coffee Shop", "-4.50"), model.Transaction{Description: "Coffee Shop", Amount: txn("", "-4.50").Amount}},
	}
	for _, tt := range tests {
		assert.NotEqual(t, Synthesize(tt.a), Synthesize(tt.b), tt.name)
	}
}

func TestSynthesize_Empty(t *testing.T) {
	assert.Regexp(t, generated, Synthesize(model.Transaction{}))
}
