package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/model"
)

// xlsMaxRows is the BIFF8 sheet row limit.
const xlsMaxRows = 65536

// XLSXParser reads the first sheet of an .xlsx workbook laid out by Columns.
// Rows are handled exactly like table records.
type XLSXParser struct {
	Columns    column.Format
	DateLayout string
	SkipRows   int
	Logger     *log.Logger
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads the workbook.
func (p *XLSXParser) Parse(r io.Reader) (*model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	stmt := &model.Statement{}
	collectRows(stmt, sheetCoercer(p.DateLayout), sheetColumns(p.Columns), rows, p.SkipRows, orDiscard(p.Logger))
	return stmt, nil
}

// XLSParser reads the first sheet of a legacy .xls workbook. Encoding is the
// workbook's byte charset.
type XLSParser struct {
	Encoding   string
	Columns    column.Format
	DateLayout string
	SkipRows   int
	Logger     *log.Logger
}

// Format returns the parser name.
func (p *XLSParser) Format() string { return "xls" }

// Parse reads the workbook.
func (p *XLSParser) Parse(r io.Reader) (stmt *model.Statement, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading xls: %w", err)
	}

	// The BIFF reader panics on some malformed workbooks.
	defer func() {
		if rec := recover(); rec != nil {
			stmt, err = nil, fmt.Errorf("reading xls: %v", rec)
		}
	}()

	charsetName := p.Encoding
	if charsetName == "" {
		charsetName = "utf-8"
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), charsetName)
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("xls has no sheets")
	}
	rows := wb.ReadAllCells(xlsMaxRows)

	stmt = &model.Statement{}
	collectRows(stmt, sheetCoercer(p.DateLayout), sheetColumns(p.Columns), rows, p.SkipRows, orDiscard(p.Logger))
	return stmt, nil
}

func sheetCoercer(layout string) column.Coercer {
	if layout == "" {
		layout = defaultTableDateLayout
	}
	return column.Coercer{DateLayout: layout}
}

func sheetColumns(f column.Format) column.Format {
	if len(f) == 0 {
		return column.DefaultFormat
	}
	return f
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
