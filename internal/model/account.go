package model

// Account carries the opaque identifiers written into BANKACCTFROM.
type Account struct {
	BankID    string
	AccountID string
}
