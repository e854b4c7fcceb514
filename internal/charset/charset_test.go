package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf8", "", "ISO-8859-1", "windows-1252", "ISO-8859-15"} {
		enc, err := Lookup(name)
		require.NoError(t, err, "name %q", name)
		assert.NotNil(t, enc)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("klingon-1")
	assert.Error(t, err)
}

func TestDecode_Latin1(t *testing.T) {
	got, err := Decode([]byte{'K', 0xe4, 'r', 'k', 'k', 0xe4, 'i', 'n', 'e', 'n'}, "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Kärkkäinen", got)
}

func TestEncode_Latin1(t *testing.T) {
	got, err := Encode("Åbo", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xc5, 'b', 'o'}, got)
}

func TestEncode_UnsupportedBecomesCharRef(t *testing.T) {
	got, err := Encode("a€b", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "a&#8364;b", string(got))
}

func TestEncode_UTF8PassThrough(t *testing.T) {
	got, err := Encode("Kärkkäinen", "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "Kärkkäinen", string(got))
}

func TestASCII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kärkkäinen", "Karkkainen"},
		{"ÅÄÖ åäö", "AAO aao"},
		{"Café 5€", "Cafe 5"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ASCII(tt.in))
	}
}
