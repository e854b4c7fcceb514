package id

import (
	"crypto/md5"
	"fmt"
	"time"

	"github.com/heiberg/ofxify/internal/model"
)

// GeneratedPrefix marks FITIDs that were not supplied by the bank.
const GeneratedPrefix = "generated_guid_"

// FITID returns the natural id of txn, or a synthesized one when it has none.
func FITID(txn model.Transaction) string {
	if txn.ID != "" {
		return txn.ID
	}
	return Synthesize(txn)
}

// Synthesize hashes the transaction content into "generated_guid_<md5 hex>".
// Identical content always yields the same id.
func Synthesize(txn model.Transaction) string {
	sum := md5.Sum([]byte(canonical(txn)))
	return fmt.Sprintf("%s%x", GeneratedPrefix, sum)
}

// canonical is the text that gets hashed. Missing fields render empty.
func canonical(txn model.Transaction) string {
	date := ""
	if txn.HasDate() {
		date = txn.Date.Format(time.RFC3339Nano)
	}
	amount := ""
	if txn.Amount.Valid {
		amount = txn.AmountString()
	}
	return fmt.Sprintf("date=%s|description=%s|amount=%s|id=%s", date, txn.Description, amount, txn.ID)
}
