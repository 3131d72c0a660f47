// Package keys 从助记词派生 secp256k1 账户密钥对，或导入外部私钥。
package keys

import (
	"bytes"
	"errors"
	"fmt"

	"mth-wallet/pkg/address"
	"mth-wallet/pkg/bip39"
	"mth-wallet/pkg/utils/hexstr"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	PrivateKeySize = 32
	PublicKeySize  = 33

	// CoinType 派生路径 m/44'/CoinType'/0'/0/index 中固定的币种编号
	CoinType uint32 = 55555
)

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrInvalidScalar   = errors.New("invalid private key scalar")
	ErrInvalidHex      = errors.New("invalid private key hex")
	ErrUnknownScheme   = errors.New("unknown derivation scheme")
)

// KeyPair 压缩公钥与私钥。只在单次操作期间存在于内存中，用完调用 Zero。
type KeyPair struct {
	PublicKey  [PublicKeySize]byte
	PrivateKey [PrivateKeySize]byte
}

// FromPrivateKey 校验标量 (0 < k < n) 并计算对应的压缩公钥
func FromPrivateKey(b []byte) (*KeyPair, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidScalar, len(b))
	}
	var scalar btcec.ModNScalar
	defer scalar.Zero()
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, ErrInvalidScalar
	}
	priv := btcec.PrivKeyFromScalar(&scalar)
	defer priv.Zero()

	kp := &KeyPair{}
	copy(kp.PrivateKey[:], b)
	copy(kp.PublicKey[:], priv.PubKey().SerializeCompressed())
	return kp, nil
}

// ImportPrivateKey 解析 32 字节十六进制私钥，0x 前缀可选
func ImportPrivateKey(s string) (*KeyPair, error) {
	b, err := hexstr.DecodeFixed(s, PrivateKeySize)
	if err != nil {
		return nil, errors.Join(ErrInvalidHex, err)
	}
	defer clear(b)
	return FromPrivateKey(b)
}

// GenerateMnemonic 生成 24 个单词的随机助记词
func GenerateMnemonic() (string, error) {
	return bip39.NewMnemonicService().GenerateMnemonic(bip39.DefaultEntropyBits)
}

// ValidateMnemonic 检查单词表和校验和
func ValidateMnemonic(mnemonic string) bool {
	return bip39.NewMnemonicService().ValidateMnemonic(mnemonic)
}

// Address 返回公钥对应的地址
func (k *KeyPair) Address() address.Address {
	a, _ := address.FromPublicKey(k.PublicKey[:])
	return a
}

func (k *KeyPair) PublicKeyHex() string {
	return hexstr.Encode(k.PublicKey[:])
}

func (k *KeyPair) PrivateKeyHex() string {
	return hexstr.Encode(k.PrivateKey[:])
}

// MatchesPublicKey 判断 pub (压缩或非压缩编码) 是否与本密钥对的公钥为同一个点
func (k *KeyPair) MatchesPublicKey(pub []byte) bool {
	p, err := btcec.ParsePubKey(pub)
	if err != nil {
		return false
	}
	return bytes.Equal(p.SerializeCompressed(), k.PublicKey[:])
}

// Zero 清除私钥
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	clear(k.PrivateKey[:])
}

// DeriveAddress 根据公钥字节计算地址
func DeriveAddress(pub []byte) (address.Address, error) {
	return address.FromPublicKey(pub)
}
