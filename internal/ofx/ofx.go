// Package ofx writes bank statements as OFX 2.0 documents and reads them
// back for checking.
package ofx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/heiberg/ofxify/internal/charset"
	"github.com/heiberg/ofxify/internal/id"
	"github.com/heiberg/ofxify/internal/model"
)

// DateLayout is the OFX date-time form used for every date element.
const DateLayout = "20060102150405"

const (
	header = `<?OFX OFXHEADER="200" VERSION="200" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>`

	language    = "ENG"
	currency    = "EUR"
	accountType = "CHECKING"
	trnType     = "POS"
	severity    = "INFO"
)

type document struct {
	XMLName xml.Name     `xml:"OFX"`
	Signon  signonMsgs   `xml:"SIGNONMSGSRSV1"`
	Bank    bankMessages `xml:"BANKMSGSRSV1"`
}

type status struct {
	Code     int    `xml:"CODE"`
	Severity string `xml:"SEVERITY"`
}

type signonMsgs struct {
	SONRS struct {
		Status   status `xml:"STATUS"`
		DTServer string `xml:"DTSERVER"`
		Language string `xml:"LANGUAGE"`
	} `xml:"SONRS"`
}

type bankMessages struct {
	STMTTRNRS struct {
		TrnUID string       `xml:"TRNUID"`
		Status status       `xml:"STATUS"`
		STMTRS stmtResponse `xml:"STMTRS"`
	} `xml:"STMTTRNRS"`
}

type stmtResponse struct {
	CurDef   string   `xml:"CURDEF"`
	AcctFrom bankAcct `xml:"BANKACCTFROM"`
	TranList tranList `xml:"BANKTRANLIST"`
}

type bankAcct struct {
	BankID   string `xml:"BANKID"`
	AcctID   string `xml:"ACCTID"`
	AcctType string `xml:"ACCTTYPE"`
}

type tranList struct {
	DTStart      string    `xml:"DTSTART"`
	DTEnd        string    `xml:"DTEND"`
	Transactions []stmtTrn `xml:"STMTTRN"`
}

type stmtTrn struct {
	TrnType  string `xml:"TRNTYPE"`
	DTPosted string `xml:"DTPOSTED"`
	TrnAmt   string `xml:"TRNAMT"`
	FITID    string `xml:"FITID"`
	Name     string `xml:"NAME"`
}

// Emitter writes one statement per call.
type Emitter struct {
	// Encoding is the output character encoding. Empty means UTF-8.
	Encoding string
	// Now stamps DTSERVER. Defaults to time.Now.
	Now func() time.Time
}

// Emit renders stmt for acct into w. The statement bounds must be set;
// transactions are written in order. Nothing is written to w unless the
// whole document rendered.
func (e *Emitter) Emit(w io.Writer, stmt *model.Statement, acct model.Account) error {
	first, last, err := stmt.Bounds.Period()
	if err != nil {
		return err
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	doc := document{}
	doc.Signon.SONRS.Status = status{Code: 0, Severity: severity}
	doc.Signon.SONRS.DTServer = now().Format(DateLayout)
	doc.Signon.SONRS.Language = language

	rs := &doc.Bank.STMTTRNRS
	rs.TrnUID = "0"
	rs.Status = status{Code: 0, Severity: severity}
	rs.STMTRS = stmtResponse{
		CurDef: currency,
		AcctFrom: bankAcct{
			BankID:   acct.BankID,
			AcctID:   acct.AccountID,
			AcctType: accountType,
		},
		TranList: tranList{
			DTStart:      first.Format(DateLayout),
			DTEnd:        last.Format(DateLayout),
			Transactions: make([]stmtTrn, 0, len(stmt.Transactions)),
		},
	}
	for _, txn := range stmt.Transactions {
		rs.STMTRS.TranList.Transactions = append(rs.STMTRS.TranList.Transactions, stmtTrn{
			TrnType:  trnType,
			DTPosted: postedDate(txn),
			TrnAmt:   txn.AmountString(),
			FITID:    id.FITID(txn),
			Name:     txn.Description,
		})
	}

	encoding := e.Encoding
	if strings.TrimSpace(encoding) == "" {
		encoding = "UTF-8"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\" encoding=\"%s\"?>\n%s\n", encoding, header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding ofx: %w", err)
	}
	buf.WriteByte('\n')

	out, err := charset.Encode(buf.String(), encoding)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing ofx: %w", err)
	}
	return nil
}

func postedDate(txn model.Transaction) string {
	if !txn.HasDate() {
		return ""
	}
	return txn.Date.Format(DateLayout)
}
