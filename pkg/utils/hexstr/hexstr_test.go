package hexstr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAlwaysPrefixed(t *testing.T) {
	assert.Equal(t, "0xdeadbeef", Encode([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, "0x", Encode(nil))
}

func TestDecodeOptionalPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"  0XDEADBEEF \n", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"0x", []byte{}},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, in := range []string{"0xabc", "zz", "0xgg00"} {
		_, err := Decode(in)
		assert.True(t, errors.Is(err, ErrInvalidHex), in)
	}
}

func TestDecodeFixed(t *testing.T) {
	_, err := DecodeFixed("0x0102", 3)
	assert.ErrorIs(t, err, ErrInvalidHex)

	b, err := DecodeFixed("010203", 3)
	require.NoError(t, err)
	assert.Len(t, b, 3)
}
