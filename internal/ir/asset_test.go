package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol(t *testing.T) {
	sym, err := ParseSymbol("4,BES")
	require.NoError(t, err)
	assert.Equal(t, Symbol{Precision: 4, Code: "BES"}, sym)
	assert.Equal(t, "4,BES", sym.String())

	for _, bad := range []string{"BES", "4,bes", "4,", "x,BES", "19,BES", "2,TOOLONGX"} {
		_, err := ParseSymbol(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAsset(t *testing.T) {
	tests := []struct {
		in     string
		amount int64
		prec   uint8
		out    string
	}{
		{"10.0000 BES", 100000, 4, "10.0000 BES"},
		{"0.5000 BES", 5000, 4, "0.5000 BES"},
		{"0.0001 BES", 1, 4, "0.0001 BES"},
		{"7 PTS", 7, 0, "7 PTS"},
		{"-1.50 EUR", -150, 2, "-1.50 EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseAsset(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, a.Amount)
			assert.Equal(t, tt.prec, a.Symbol.Precision)
			assert.Equal(t, tt.out, a.String())
		})
	}
}

func TestParseAsset_Invalid(t *testing.T) {
	for _, bad := range []string{"", "10", "10.0 bes", ".5 BES", "1.2.3 BES", "abc BES",
		"--1.0000 BES", "-+1.0000 BES", "+1.0000 BES", "1.-500 BES"} {
		_, err := ParseAsset(bad)
		assert.Error(t, err, bad)
	}
}

func TestAsset_Valid(t *testing.T) {
	sym := Symbol{Precision: 2, Code: "EUR"}
	assert.True(t, NewAsset(0, sym).Valid())
	assert.True(t, NewAsset(MaxAmount, sym).Valid())
	assert.False(t, NewAsset(MaxAmount+1, sym).Valid())
	assert.False(t, NewAsset(1, Symbol{Precision: 2, Code: "eur"}).Valid())
}

func TestParseVerificationMode(t *testing.T) {
	m, err := ParseVerificationMode("claimable")
	require.NoError(t, err)
	assert.Equal(t, VerificationClaimable, m)

	_, err = ParseVerificationMode("manual")
	assert.Error(t, err)
}
