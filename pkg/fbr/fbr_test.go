package fbr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

func TestFormatGatewayDate(t *testing.T) {
	d := time.Date(2025, time.February, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "04-Feb-2025", fbr.FormatGatewayDate(d))
	assert.Equal(t, "2025-02-04", fbr.FormatISODate(d))
}

func TestParseInvoiceDate_AmbosFormatos(t *testing.T) {
	a, err := fbr.ParseInvoiceDate("2025-02-04")
	require.NoError(t, err)
	b, err := fbr.ParseInvoiceDate("04-Feb-2025")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	_, err = fbr.ParseInvoiceDate("04/02/2025")
	assert.Error(t, err)
}

func TestNormalizeNTN(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0710106", "0710106", false},
		{"0710106-4", "0710106", false},
		{"44206-5312391-7", "4420653123917", false},
		{"12345", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := fbr.NormalizeNTN(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "SI-0001", fbr.FormatReference(fbr.InvoiceTypeSale, 1))
	assert.Equal(t, "DN-0042", fbr.FormatReference(fbr.InvoiceTypeDebitNote, 42))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "Bearer abc", fbr.BearerToken("abc"))
	assert.Equal(t, "Bearer abc", fbr.BearerToken("Bearer abc"))
	assert.Equal(t, "", fbr.BearerToken("  "))
}
