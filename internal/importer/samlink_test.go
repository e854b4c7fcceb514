package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samlinkNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("EEST", 3*3600))

// samlinkLine lays out one decoded statement row at the fixed offsets, then
// escapes it back into row cell markup.
func samlinkLine(ddmm, desc, amount string, sign byte) string {
	row := []byte(strings.Repeat(" ", samlinkSignPos+1))
	copy(row, ddmm+" "+ddmm+" ")
	copy(row[samlinkDescStart:], desc)
	copy(row[samlinkAmountEnd-len(amount):], amount)
	row[samlinkSignPos] = sign
	s := strings.ReplaceAll(string(row), " & ", " &amp; ")
	return samlinkRowMarker + strings.ReplaceAll(s[:samlinkDescStart], " ", "&nbsp;") + s[samlinkDescStart:] + "</TD>"
}

func TestSamlinkParser_Parse(t *testing.T) {
	page := strings.Join([]string{
		"<HTML><BODY>",
		"<P>Tiliote 01.01.2010 - 31.03.2010</P>",
		"<TABLE><TR>",
		samlinkLine("0702", "K&auml;rkk&auml;inen Oy", "1 234,50", '-'),
		samlinkLine("1503", "Salary & bonus", "2000,00", '+'),
		"</TR></TABLE>",
		"</BODY></HTML>",
	}, "\n")

	p := &SamlinkParser{Now: func() time.Time { return samlinkNow }}
	stmt, err := p.Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	first := stmt.Transactions[0]
	assert.Equal(t, "20100207120000", first.Date.Format("20060102150405"))
	_, offset := first.Date.Zone()
	assert.Equal(t, 3*3600, offset)
	assert.Equal(t, "Kärkkäinen Oy", first.Description)
	assert.Equal(t, "-1234.50", first.AmountString())
	assert.Empty(t, first.ID)

	second := stmt.Transactions[1]
	assert.Equal(t, "20100315120000", second.Date.Format("20060102150405"))
	assert.Equal(t, "Salary & bonus", second.Description)
	assert.Equal(t, "2000.00", second.AmountString())

	begin, end, err := stmt.Bounds.Period()
	require.NoError(t, err)
	assert.True(t, begin.Equal(first.Date))
	assert.True(t, end.Equal(second.Date))
}

func TestSamlinkParser_YearDefaultsToNow(t *testing.T) {
	p := &SamlinkParser{Now: func() time.Time { return samlinkNow }}
	stmt, err := p.Parse(strings.NewReader(samlinkLine("0702", "Shop", "4,50", '-')))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, 2024, stmt.Transactions[0].Date.Year())
}

func TestSamlinkParser_YearFollowsLatestPeriod(t *testing.T) {
	page := strings.Join([]string{
		"<P>Tiliote 01.12.2009 - 31.12.2009</P>",
		samlinkLine("2412", "Gift shop", "25,00", '-'),
		"<P>Tiliote 01.01.2010 - 31.01.2010</P>",
		samlinkLine("0201", "Grocer", "12,00", '-'),
	}, "\n")

	p := &SamlinkParser{Now: func() time.Time { return samlinkNow }}
	stmt, err := p.Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)
	assert.Equal(t, 2009, stmt.Transactions[0].Date.Year())
	assert.Equal(t, time.December, stmt.Transactions[0].Date.Month())
	assert.Equal(t, 2010, stmt.Transactions[1].Date.Year())
	assert.Equal(t, time.January, stmt.Transactions[1].Date.Month())
}

func TestSamlinkParser_SkipsBadRows(t *testing.T) {
	page := strings.Join([]string{
		"<P>Period 1.2.2010 - 28.2.2010</P>",
		samlinkLine("3002", "No such day", "1,00", '-'),
		samlinkLine("0102", "Bad amount", "x,yz", '-'),
		samlinkRowMarker + "0102 0102 too short</TD>",
		`<TD CLASS="other">0102 0102 not a row</TD>`,
		samlinkLine("0202", "Kept", "1,00", '-'),
	}, "\n")

	p := &SamlinkParser{Now: func() time.Time { return samlinkNow }}
	stmt, err := p.Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Kept", stmt.Transactions[0].Description)
	assert.Equal(t, 2010, stmt.Transactions[0].Date.Year())
}

func TestSamlinkParser_Latin1(t *testing.T) {
	p := &SamlinkParser{Encoding: "ISO-8859-1", Now: func() time.Time { return samlinkNow }}
	stmt, err := p.Parse(strings.NewReader(samlinkLine("0702", "K\xe4rkk\xe4inen", "1,00", '+')))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Kärkkäinen", stmt.Transactions[0].Description)
}

func TestSamlinkParser_NoRows(t *testing.T) {
	p := &SamlinkParser{}
	stmt, err := p.Parse(strings.NewReader("<HTML></HTML>"))
	require.NoError(t, err)
	assert.Empty(t, stmt.Transactions)
}
