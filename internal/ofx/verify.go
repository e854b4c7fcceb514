package ofx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aclindsa/ofxgo"
)

// ErrNoStatement is returned by Verify for documents without a bank statement.
var ErrNoStatement = errors.New("no bank statement in document")

// Summary describes a bank statement read back from an OFX document.
type Summary struct {
	BankID       string
	AccountID    string
	Currency     string
	Transactions int
	Start        time.Time
	End          time.Time
}

// Verify parses an OFX document the way a finance application would and
// summarizes its first bank statement.
func Verify(r io.Reader) (*Summary, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ofx: %w", err)
	}
	if len(resp.Bank) == 0 {
		return nil, ErrNoStatement
	}
	stmt, ok := resp.Bank[0].(*ofxgo.StatementResponse)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNoStatement, resp.Bank[0])
	}

	s := &Summary{
		BankID:    stmt.BankAcctFrom.BankID.String(),
		AccountID: stmt.BankAcctFrom.AcctID.String(),
		Currency:  stmt.CurDef.String(),
	}
	if stmt.BankTranList != nil {
		s.Transactions = len(stmt.BankTranList.Transactions)
		s.Start = stmt.BankTranList.DtStart.Time
		s.End = stmt.BankTranList.DtEnd.Time
	}
	return s, nil
}
