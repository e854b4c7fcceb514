package column

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/heiberg/ofxify/internal/model"
)

// Coercer turns raw field text into typed transaction values.
type Coercer struct {
	// DateLayout is a Go reference layout, e.g. "2006-01-02 15:04:05".
	DateLayout string
	// Location is used for layouts without a zone. Defaults to UTC.
	Location *time.Location
	// Text, when set, rewrites description and id fields.
	Text func(string) string
}

// Date parses raw against the configured layout.
func (c Coercer) Date(raw string) (time.Time, error) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	t, err := time.ParseInLocation(c.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}
	return t, nil
}

// Amount parses raw after NormalizeAmount.
func (c Coercer) Amount(raw string) (decimal.Decimal, error) {
	return ParseAmount(raw)
}

func (c Coercer) text(raw string) string {
	if c.Text != nil {
		return c.Text(raw)
	}
	return raw
}

// Record coerces fields positionally against f. Fields that fail to coerce
// are left missing in the returned transaction and reported in the joined
// error, so callers can pick between dropping the field and dropping the
// record.
func (c Coercer) Record(f Format, fields []string) (model.Transaction, error) {
	var txn model.Transaction
	var errs []error
	for i, role := range f {
		if i >= len(fields) {
			break
		}
		raw := fields[i]
		switch role {
		case RoleDate:
			d, err := c.Date(raw)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			txn.Date = d
		case RoleAmount:
			a, err := c.Amount(raw)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			txn.Amount = decimal.NewNullDecimal(a)
		case RoleDescription:
			txn.Description = c.text(raw)
		case RoleID:
			txn.ID = c.text(raw)
		}
	}
	return txn, errors.Join(errs...)
}

// NormalizeAmount removes whitespace, drops a leading plus sign, moves a
// trailing minus to the front and turns a lone decimal comma into a point.
func NormalizeAmount(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if strings.HasSuffix(s, "-") && !strings.HasPrefix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// ParseAmount normalizes raw and parses it as a decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := NormalizeAmount(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: empty", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d, nil
}
