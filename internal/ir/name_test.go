package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"alice", true},
		{"bob.spiral", true},
		{"a1b2c3d4e5", true},
		{"abcdefghijkl", true},
		{"", false},
		{"abcdefghijklm", false},
		{"Alice", false},
		{"alice6", false},
		{"alice.", false},
		{"al ice", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseName(tt.in)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, Name(tt.in), n)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMustName_Panics(t *testing.T) {
	assert.Panics(t, func() { MustName("NOPE") })
	assert.NotPanics(t, func() { MustName("fine") })
}
