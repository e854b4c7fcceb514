package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/heiberg/ofxify/internal/charset"
	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/model"
)

// Byte offsets into a trimmed Samlink statement row. The layout is fixed
// width and historical. Offsets count bytes of the raw line, so a multi-byte
// character before the amount column shifts the amount and sign; the bank
// wrote these pages in a single-byte charset with letters as entities.
const (
	samlinkDayStart    = 0
	samlinkDayEnd      = 2
	samlinkMonthStart  = 2
	samlinkMonthEnd    = 4
	samlinkDescStart   = 10
	samlinkDescEnd     = 49
	samlinkAmountStart = 90
	samlinkAmountEnd   = 104
	samlinkSignPos     = 105

	samlinkRowMarker = `<TD CLASS="courier1">`

	// Rows are pinned to local noon so a consumer that drops the zone
	// still shows the right day.
	samlinkNoon = 12 * time.Hour
)

var (
	// "01.01.2010 - 31.01.2010"; the period start year is carried forward.
	samlinkPeriod = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.(\d{4})\s*-\s*\d{1,2}\.\d{1,2}\.\d{4}`)
	samlinkRow    = regexp.MustCompile(`^\d{4} \d{4} `)
	samlinkTag    = regexp.MustCompile(`</?[A-Za-z][^>]*>`)

	samlinkCell = strings.NewReplacer("&nbsp;", " ", "&amp;", "&")

	samlinkLetters = strings.NewReplacer(
		"&auml;", "ä", "&Auml;", "Ä", "&#228;", "ä", "&#196;", "Ä",
		"&ouml;", "ö", "&Ouml;", "Ö", "&#246;", "ö", "&#214;", "Ö",
		"&aring;", "å", "&Aring;", "Å", "&#229;", "å", "&#197;", "Å",
		"&uuml;", "ü", "&Uuml;", "Ü", "&#252;", "ü", "&#220;", "Ü",
		"&oslash;", "ø", "&Oslash;", "Ø", "&#248;", "ø", "&#216;", "Ø",
		"&aelig;", "æ", "&AElig;", "Æ", "&#230;", "æ", "&#198;", "Æ",
	)
)

// SamlinkParser scans a saved Samlink HTML statement page line by line.
type SamlinkParser struct {
	Encoding string
	// Now supplies the starting year and the UTC offset. Defaults to time.Now.
	Now    func() time.Time
	Logger *log.Logger
}

// Format returns the parser name.
func (p *SamlinkParser) Format() string { return "samlink" }

// samlinkState is carried from line to line.
type samlinkState struct {
	year int
	zone *time.Location
}

// Parse extracts statement rows. Lines that do not look like rows are ignored.
func (p *SamlinkParser) Parse(r io.Reader) (*model.Statement, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	logger := orDiscard(p.Logger)

	start := now()
	_, offset := start.Zone()
	state := samlinkState{year: start.Year(), zone: time.FixedZone("", offset)}

	stmt := &model.Statement{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := string(bytes.TrimRight(sc.Bytes(), "\r"))

		if m := samlinkPeriod.FindStringSubmatch(line); m != nil {
			state.year, _ = strconv.Atoi(m[1])
		}
		if !strings.Contains(line, samlinkRowMarker) {
			continue
		}
		row := strings.TrimSpace(samlinkCell.Replace(samlinkTag.ReplaceAllString(line, "")))
		if !samlinkRow.MatchString(row) {
			continue
		}

		txn, err := p.row(row, state)
		if err != nil {
			logger.Debug("skipping row", "line", lineNo, "err", err)
			continue
		}
		stmt.Add(txn)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading samlink statement: %w", err)
	}
	return stmt, nil
}

func (p *SamlinkParser) row(row string, state samlinkState) (model.Transaction, error) {
	day, _ := strconv.Atoi(row[samlinkDayStart:samlinkDayEnd])
	month, _ := strconv.Atoi(row[samlinkMonthStart:samlinkMonthEnd])
	if month < 1 || month > 12 || day < 1 || day > daysIn(state.year, time.Month(month)) {
		return model.Transaction{}, fmt.Errorf("no such date %02d.%02d.%d", day, month, state.year)
	}
	date := time.Date(state.year, time.Month(month), day, 0, 0, 0, 0, state.zone).Add(samlinkNoon)

	if len(row) <= samlinkSignPos {
		return model.Transaction{}, fmt.Errorf("row too short: %d bytes", len(row))
	}
	amount, err := column.ParseAmount(row[samlinkSignPos:samlinkSignPos+1] + row[samlinkAmountStart:samlinkAmountEnd])
	if err != nil {
		return model.Transaction{}, err
	}

	desc, err := charset.Decode([]byte(slice(row, samlinkDescStart, samlinkDescEnd)), p.Encoding)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Date:        date,
		Description: strings.TrimSpace(samlinkLetters.Replace(desc)),
		Amount:      decimal.NewNullDecimal(amount),
	}, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// slice returns s[from:to] clamped to the length of s.
func slice(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
