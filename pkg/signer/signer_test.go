package signer

import (
	"bytes"
	"strings"
	"testing"

	"mth-wallet/pkg/utils/hexstr"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) (priv, pub []byte) {
	t.Helper()
	priv, err := hexstr.Decode("0xfd65974662f9d9a0e22a0d5dd757c4799a1b93f9c4988d16078380d3ad42d90f")
	require.NoError(t, err)
	_, pk := btcec.PrivKeyFromBytes(priv)
	return priv, pk.SerializeCompressed()
}

func TestSignVerify(t *testing.T) {
	priv, pub := testKey(t)

	sig, hash, err := SignPayload([]byte("transfer 10 to bob"), priv)
	require.NoError(t, err)
	assert.True(t, Verify(hash[:], sig, pub))
	assert.True(t, VerifyPayload([]byte("transfer 10 to bob"), sig, pub))
	assert.False(t, VerifyPayload([]byte("transfer 11 to bob"), sig, pub))

	// 其他公钥
	_, other := btcec.PrivKeyFromBytes([]byte{1})
	assert.False(t, Verify(hash[:], sig, other.SerializeCompressed()))
}

// derToRS 把 DER 签名转换为 32 字节左补零的 R||S
func derToRS(t *testing.T, der []byte) []byte {
	t.Helper()
	require.Equal(t, byte(0x30), der[0])
	out := make([]byte, 0, SignatureSize)
	rest := der[2:]
	for range 2 {
		require.Equal(t, byte(0x02), rest[0])
		n := int(rest[1])
		v := bytes.TrimLeft(rest[2:2+n], "\x00")
		out = append(out, append(make([]byte, 32-len(v)), v...)...)
		rest = rest[2+n:]
	}
	return out
}

func TestSign_MatchesDER(t *testing.T) {
	priv, _ := testKey(t)
	hash := HashPayload([]byte("transfer 10 to bob"))

	sig, err := Sign(hash[:], priv)
	require.NoError(t, err)

	key, _ := btcec.PrivKeyFromBytes(priv)
	der := ecdsa.Sign(key, hash[:]).Serialize()
	assert.Equal(t, derToRS(t, der), sig[:])
}

func TestSign_Deterministic(t *testing.T) {
	priv, _ := testKey(t)
	hash := HashPayload([]byte("payload"))

	a, err := Sign(hash[:], priv)
	require.NoError(t, err)
	b, err := Sign(hash[:], priv)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a.Hex(), 2+2*SignatureSize)
}

func TestSign_LowS(t *testing.T) {
	priv, _ := testKey(t)
	for i := 0; i < 32; i++ {
		hash := HashPayload([]byte{byte(i)})
		sig, err := Sign(hash[:], priv)
		require.NoError(t, err)

		var s btcec.ModNScalar
		s.SetByteSlice(sig[32:])
		assert.False(t, s.IsOverHalfOrder(), "high S at %d", i)
	}
}

func TestSign_Errors(t *testing.T) {
	priv, _ := testKey(t)

	_, err := Sign(make([]byte, 31), priv)
	assert.ErrorIs(t, err, ErrInvalidHash)

	hash := HashPayload(nil)
	for _, k := range [][]byte{nil, make([]byte, 32), bytes.Repeat([]byte{0xff}, 32), make([]byte, 16)} {
		_, err := Sign(hash[:], k)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestVerify_Malformed(t *testing.T) {
	priv, pub := testKey(t)
	hash := HashPayload([]byte("x"))
	sig, err := Sign(hash[:], priv)
	require.NoError(t, err)

	assert.False(t, Verify(hash[:16], sig, pub))
	assert.False(t, Verify(hash[:], sig, nil))
	assert.False(t, Verify(hash[:], sig, pub[:20]))
	assert.False(t, Verify(hash[:], Signature{}, pub))

	var overflow Signature
	copy(overflow[:], bytes.Repeat([]byte{0xff}, SignatureSize))
	assert.False(t, Verify(hash[:], overflow, pub))
}

func TestParseSignature(t *testing.T) {
	priv, _ := testKey(t)
	hash := HashPayload([]byte("x"))
	sig, err := Sign(hash[:], priv)
	require.NoError(t, err)

	parsed, err := ParseSignature(sig.Hex())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	parsed, err = ParseSignature(strings.TrimPrefix(sig.Hex(), "0x"))
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	for _, bad := range []string{"", "0x1234", "zz", sig.Hex() + "00"} {
		_, err := ParseSignature(bad)
		assert.ErrorIs(t, err, ErrInvalidSignatureEncoding, bad)
	}
}
