// Package address 实现账户地址: SHA-256(公钥字节) 的前 20 字节。
package address

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"mth-wallet/pkg/crypto_util"
	"mth-wallet/pkg/utils/hexstr"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Length 地址长度 (字节)
const Length = 20

var ErrInvalidPublicKey = errors.New("无效的公钥")

// Address 账户地址
type Address [Length]byte

// FromPublicKey 根据公钥计算地址。
// 公钥可以是压缩 (33 字节) 或非压缩 (65 字节) 格式，哈希的是传入的原始字节，
// 因此同一个点的两种编码会得到不同的地址。
func FromPublicKey(pub []byte) (Address, error) {
	if _, err := btcec.ParsePubKey(pub); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return derive(pub), nil
}

func derive(pub []byte) Address {
	var a Address
	sum := crypto_util.SHA256(pub)
	copy(a[:], sum[:Length])
	return a
}

// Parse 解析十六进制地址，0x 前缀可选
func Parse(s string) (Address, error) {
	var a Address
	b, err := hexstr.DecodeFixed(s, Length)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

// Hex 返回带 0x 前缀的小写十六进制地址
func (a Address) Hex() string {
	return hexstr.Encode(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// Matches 判断字符串形式的地址是否与 a 相同 (忽略 0x 前缀和大小写)
func (a Address) Matches(s string) bool {
	other, err := Parse(s)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(a[:], other[:]) == 1
}

// Verify 检查 stored 是否就是 pub 对应的地址
func Verify(stored string, pub []byte) bool {
	a, err := FromPublicKey(pub)
	if err != nil {
		return false
	}
	return a.Matches(stored)
}
