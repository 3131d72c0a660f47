package model

import (
	"time"

	"mth-wallet/pkg/address"
	"mth-wallet/pkg/keys"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// Version 当前钱包文件格式
	Version = "2.0.0"
	// LegacyVersion 旧格式: 异或加密，数字数组字段，没有派生方案和加密参数
	LegacyVersion = "1.0.0"
)

// EncryptionParams 记录私钥加密参数，默认值变化后旧文件仍能解密
type EncryptionParams struct {
	Cipher     string `json:"cipher"`
	KDF        string `json:"kdf"`
	Iterations int    `json:"iterations"`
}

// Account 钱包账户。私钥只以加密形式保存。
type Account struct {
	Address             string     `json:"address"`
	PublicKey           Bytes      `json:"public_key"`
	PrivateKeyEncrypted Bytes      `json:"private_key_encrypted"`
	Salt                Bytes      `json:"salt"`
	DerivationIndex     *uint32    `json:"derivation_index,omitempty"` // 导入的私钥没有索引
	IsSelected          bool       `json:"is_selected"`
	CreatedAt           time.Time  `json:"created_at"`
	LastUsed            *time.Time `json:"last_used,omitempty"`
}

// NewAccount 根据公钥和加密后的私钥创建账户，地址由公钥计算
func NewAccount(publicKey, encrypted, salt []byte, index *uint32) (*Account, error) {
	addr, err := keys.DeriveAddress(publicKey)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address:             addr.Hex(),
		PublicKey:           append(Bytes(nil), publicKey...),
		PrivateKeyEncrypted: append(Bytes(nil), encrypted...),
		Salt:                append(Bytes(nil), salt...),
		DerivationIndex:     index,
		CreatedAt:           Now(),
	}, nil
}

// Clone 深拷贝
func (a *Account) Clone() *Account {
	c := *a
	c.PublicKey = append(Bytes(nil), a.PublicKey...)
	c.PrivateKeyEncrypted = append(Bytes(nil), a.PrivateKeyEncrypted...)
	c.Salt = append(Bytes(nil), a.Salt...)
	if a.DerivationIndex != nil {
		idx := *a.DerivationIndex
		c.DerivationIndex = &idx
	}
	if a.LastUsed != nil {
		t := *a.LastUsed
		c.LastUsed = &t
	}
	return &c
}

// Check 校验单个账户: 公钥是合法曲线点，地址与公钥一致，密文和盐存在
func (a *Account) Check() error {
	if _, err := btcec.ParsePubKey(a.PublicKey); err != nil {
		return invariantf("account %s: invalid public key: %v", a.Address, err)
	}
	if !address.Verify(a.Address, a.PublicKey) {
		return invariantf("account %s: address does not match public key", a.Address)
	}
	if len(a.PrivateKeyEncrypted) == 0 {
		return invariantf("account %s: missing encrypted private key", a.Address)
	}
	if len(a.Salt) == 0 {
		return invariantf("account %s: missing salt", a.Address)
	}
	return nil
}

// Now 返回去掉单调时钟读数的 UTC 时间，序列化往返后仍然相等
func Now() time.Time {
	return time.Now().UTC().Round(0)
}
