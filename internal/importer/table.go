package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/heiberg/ofxify/internal/charset"
	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/model"
)

const (
	defaultFieldSeparator  = ","
	defaultRecordSeparator = "\n"
	defaultTableDateLayout = "2006-01-02 15:04:05"
)

// TableParser reads generic delimited text laid out by Columns.
type TableParser struct {
	Encoding        string
	FieldSeparator  string
	RecordSeparator string
	Columns         column.Format
	DateLayout      string
	SkipRows        int
	Logger          *log.Logger
}

// Format returns the parser name.
func (p *TableParser) Format() string { return "table" }

// Parse reads delimited records and keeps every row with at least one
// usable field.
func (p *TableParser) Parse(r io.Reader) (*model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	text, err := charset.Decode(data, p.Encoding)
	if err != nil {
		return nil, err
	}
	text = strings.TrimPrefix(text, "\ufeff")

	fieldSep := p.FieldSeparator
	if fieldSep == "" {
		fieldSep = defaultFieldSeparator
	}
	recordSep := p.RecordSeparator
	if recordSep == "" {
		recordSep = defaultRecordSeparator
	}
	rows, err := SplitRecords(text, fieldSep, recordSep)
	if err != nil {
		return nil, err
	}

	layout := p.DateLayout
	if layout == "" {
		layout = defaultTableDateLayout
	}
	columns := p.Columns
	if len(columns) == 0 {
		columns = column.DefaultFormat
	}

	stmt := &model.Statement{}
	collectRows(stmt, column.Coercer{DateLayout: layout}, columns, rows, p.SkipRows, orDiscard(p.Logger))
	return stmt, nil
}

// SplitRecords tokenizes text into records of fields. The field separator
// must be a single character. Newline record separators (LF or CRLF) let
// quoted fields span lines; any other record separator splits first.
func SplitRecords(text, fieldSep, recordSep string) ([][]string, error) {
	comma, err := separatorRune(fieldSep)
	if err != nil {
		return nil, err
	}
	if recordSep == "\n" || recordSep == "\r\n" {
		return readCSV(text, comma)
	}

	var rows [][]string
	for _, chunk := range strings.Split(text, recordSep) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		recs, err := readCSV(chunk, comma)
		if err != nil {
			return nil, err
		}
		rows = append(rows, recs...)
	}
	return rows, nil
}

func separatorRune(sep string) (rune, error) {
	if utf8.RuneCountInString(sep) != 1 {
		return 0, fmt.Errorf("field separator %q must be a single character", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	return r, nil
}

func readCSV(text string, comma rune) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return rows, nil
}
