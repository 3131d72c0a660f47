package mpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0xfd65974662f9d9a0e22a0d5dd757c4799a1b93f9c4988d16078380d3ad42d90f"

func TestSplitRecover(t *testing.T) {
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	got, err := Recover(shares[1:4])
	require.NoError(t, err)
	assert.Equal(t, secret, got)

	got, err = Recover([]string{shares[4], shares[0], shares[2]})
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestSplit_NoPrefix(t *testing.T) {
	shares, err := Split(secret[2:], 2, 2)
	require.NoError(t, err)

	got, err := Recover(shares)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestSplit_Invalid(t *testing.T) {
	_, err := Split("zz", 3, 2)
	assert.Error(t, err)

	_, err = Split(secret, 2, 3)
	assert.Error(t, err, "threshold above parts")
}

func TestRecover_Invalid(t *testing.T) {
	_, err := Recover([]string{"nothex", "0x01"})
	assert.ErrorIs(t, err, ErrInvalidShare)

	_, err = Recover([]string{"0x0102"})
	assert.Error(t, err, "a single share is not enough")
}
