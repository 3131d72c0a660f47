// Package signer 使用 secp256k1 对 32 字节摘要签名。
// 签名为 64 字节 R||S，nonce 按 RFC 6979 确定性生成，S 总是取低值。
package signer

import (
	"errors"

	"mth-wallet/pkg/crypto_util"
	"mth-wallet/pkg/utils/hexstr"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	HashSize      = 32
	SignatureSize = 64
)

var (
	ErrInvalidKey               = errors.New("invalid signing key")
	ErrInvalidHash              = errors.New("hash must be 32 bytes")
	ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")
)

// Signature R||S，各 32 字节大端
type Signature [SignatureSize]byte

func (s Signature) Hex() string {
	return hexstr.Encode(s[:])
}

// ParseSignature 解析 64 字节十六进制签名，0x 前缀可选
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	b, err := hexstr.DecodeFixed(s, SignatureSize)
	if err != nil {
		return sig, errors.Join(ErrInvalidSignatureEncoding, err)
	}
	copy(sig[:], b)
	return sig, nil
}

// HashPayload 返回交易载荷的 SHA-256 摘要
func HashPayload(raw []byte) [HashSize]byte {
	return crypto_util.SHA256(raw)
}

// Sign 对摘要签名
func Sign(hash, privateKey []byte) (Signature, error) {
	var sig Signature
	if len(hash) != HashSize {
		return sig, ErrInvalidHash
	}
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return sig, err
	}
	defer priv.Zero()

	// 紧凑格式首字节为恢复标识，其后是 R||S
	compact := ecdsa.SignCompact(priv, hash, true)
	copy(sig[:], compact[1:])
	return sig, nil
}

// SignPayload 对 SHA-256(raw) 签名，同时返回摘要
func SignPayload(raw, privateKey []byte) (Signature, [HashSize]byte, error) {
	hash := HashPayload(raw)
	sig, err := Sign(hash[:], privateKey)
	return sig, hash, err
}

// Verify 校验签名。任何格式错误的输入都返回 false。
// 高 S 值的签名同样被拒绝。
func Verify(hash []byte, sig Signature, publicKey []byte) bool {
	if len(hash) != HashSize {
		return false
	}
	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() || s.IsOverHalfOrder() {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pub)
}

// VerifyPayload 校验对 SHA-256(raw) 的签名
func VerifyPayload(raw []byte, sig Signature, publicKey []byte) bool {
	hash := HashPayload(raw)
	return Verify(hash[:], sig, publicKey)
}

func parsePrivateKey(b []byte) (*btcec.PrivateKey, error) {
	if len(b) != 32 {
		return nil, ErrInvalidKey
	}
	var scalar btcec.ModNScalar
	defer scalar.Zero()
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, ErrInvalidKey
	}
	return btcec.PrivKeyFromScalar(&scalar), nil
}
