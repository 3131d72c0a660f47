package keys

import (
	"errors"
	"fmt"

	"mth-wallet/pkg/bip32"
	"mth-wallet/pkg/bip39"
)

// Scheme 决定账户索引如何参与派生
type Scheme string

const (
	// SchemeBIP44 沿 m/44'/55555'/0'/0/index 做 BIP-32 派生
	SchemeBIP44 Scheme = "bip44"
	// SchemeLegacy 直接把种子的前 32 字节当作私钥，索引不参与派生，
	// 同一助记词下的所有账户相同。只用于读取旧钱包。
	SchemeLegacy Scheme = "legacy-seed"
)

// ParseScheme 解析配置或文件中的派生方案，空串视为默认的 bip44
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SchemeBIP44:
		return SchemeBIP44, nil
	case SchemeLegacy:
		return SchemeLegacy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Deriver 按指定方案从助记词派生密钥对
type Deriver struct {
	scheme   Scheme
	mnemonic *bip39.MnemonicService
}

func NewDeriver(scheme Scheme) (*Deriver, error) {
	s, err := ParseScheme(string(scheme))
	if err != nil {
		return nil, err
	}
	return &Deriver{scheme: s, mnemonic: bip39.NewMnemonicService()}, nil
}

func (d *Deriver) Scheme() Scheme {
	return d.scheme
}

// DerivationPath 返回 index 对应的路径，legacy 方案没有路径
func (d *Deriver) DerivationPath(index uint32) string {
	if d.scheme == SchemeLegacy {
		return ""
	}
	return bip32.AccountPath(CoinType, index)
}

// Derive 派生第 index 个账户的密钥对。种子使用空 passphrase。
func (d *Deriver) Derive(mnemonic string, index uint32) (*KeyPair, error) {
	seed, err := d.mnemonic.NewSeed(mnemonic, "")
	if err != nil {
		return nil, errors.Join(ErrInvalidMnemonic, err)
	}
	defer clear(seed)

	if d.scheme == SchemeLegacy {
		return FromPrivateKey(seed[:PrivateKeySize])
	}

	wallet, err := bip32.NewMasterKeyFromSeed(seed, nil)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	priv, err := wallet.DeriveAccount(CoinType, index)
	if err != nil {
		return nil, errors.Join(ErrInvalidScalar, err)
	}
	defer priv.Zero()

	b := priv.Serialize()
	defer clear(b)
	return FromPrivateKey(b)
}
