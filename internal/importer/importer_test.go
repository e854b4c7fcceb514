package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&SampoParser{})
	p := r.Get("sampo")
	require.NotNil(t, p)
	assert.Equal(t, "sampo", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&SamlinkParser{})
	assert.NotNil(t, r.Get("Samlink"))
	assert.NotNil(t, r.Get("SAMLINK"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&TableParser{})
	assert.Panics(t, func() { r.Register(&TableParser{}) })
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry(Options{})
	p, err := r.Lookup("table")
	require.NoError(t, err)
	assert.Equal(t, "table", p.Format())

	_, err = r.Lookup("nordea")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProcessor)
	assert.Contains(t, err.Error(), "samlink")
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{"samlink", "sampo", "table", "xls", "xlsx"}, Names())
}

func TestDefaultRegistry_PassesOptions(t *testing.T) {
	r := DefaultRegistry(Options{FieldSeparator: ";", DateLayout: "2006-01-02"})
	p, err := r.Lookup("table")
	require.NoError(t, err)

	stmt, err := p.Parse(strings.NewReader("2010-02-07;Shop;X;1\n"))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Shop", stmt.Transactions[0].Description)
}
