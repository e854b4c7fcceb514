package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/heiberg/ofxify/internal/charset"
	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/model"
)

const (
	sampoDateLayout = "2.1.2006"
	sampoSeparator  = ';'
)

// SampoParser reads the historical Sampo Pankki CSV export:
// date;description;reference;amount with day.month.year dates. A row with
// any field that fails to coerce is dropped whole. The parser does not set
// statement bounds.
type SampoParser struct {
	Encoding string
	Logger   *log.Logger
}

// Format returns the parser name.
func (p *SampoParser) Format() string { return "sampo" }

// Parse reads the export, keeping only rows that coerce cleanly.
func (p *SampoParser) Parse(r io.Reader) (*model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading sampo export: %w", err)
	}
	text, err := charset.Decode(data, p.Encoding)
	if err != nil {
		return nil, err
	}
	logger := orDiscard(p.Logger)

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sampoSeparator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	coercer := column.Coercer{DateLayout: sampoDateLayout, Text: charset.ASCII}
	stmt := &model.Statement{}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Debug("skipping malformed row", "line", perr.Line, "err", err)
				continue
			}
			return nil, fmt.Errorf("reading sampo export: %w", err)
		}
		line, _ := cr.FieldPos(0)

		txn, ok := p.record(coercer, fields)
		if !ok {
			logger.Debug("skipping row", "line", line, "fields", fields)
			continue
		}
		stmt.Append(txn)
	}
	return stmt, nil
}

// record coerces one row. ok is false when the row is short, any field
// failed or nothing usable was left.
func (p *SampoParser) record(c column.Coercer, fields []string) (model.Transaction, bool) {
	if len(fields) < len(column.DefaultFormat) {
		return model.Transaction{}, false
	}
	txn, err := c.Record(column.DefaultFormat, fields)
	if err != nil || txn.IsEmpty() {
		return model.Transaction{}, false
	}
	return txn, true
}
