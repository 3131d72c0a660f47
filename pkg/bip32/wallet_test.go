package bip32

import (
	"encoding/hex"
	"errors"
	"testing"

	"mth-wallet/pkg/bip39"

	"github.com/btcsuite/btcd/chaincfg"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMasterKeyFromSeed(t *testing.T) {
	// 使用 BIP-39 生成种子
	mnemonicService := bip39.NewMnemonicService()
	mnemonic, err := mnemonicService.GenerateMnemonic(128)
	if err != nil {
		t.Fatalf("生成助记词失败: %v", err)
	}
	seed := mnemonicService.MnemonicToSeed(mnemonic, "")

	// 生成主密钥
	wallet, err := NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("生成主密钥失败: %v", err)
	}

	if wallet.MasterKey() == nil {
		t.Fatalf("主密钥为空")
	}
	if _, err := wallet.MasterKey().ECPrivKey(); err != nil {
		t.Errorf("主密钥应包含私钥: %v", err)
	}
}

func TestNewMasterKeyFromSeed_InvalidSeed(t *testing.T) {
	if _, err := NewMasterKeyFromSeed(make([]byte, 8), nil); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("短种子期望 ErrInvalidSeed, 得到 %v", err)
	}
	if _, err := NewMasterKeyFromSeed(make([]byte, 65), nil); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("长种子期望 ErrInvalidSeed, 得到 %v", err)
	}
}

func TestDerivePath(t *testing.T) {
	// Seed: "fffcf9f6da3247d8a846f4b6113e6173" (16 bytes)
	seed, _ := hex.DecodeString("fffcf9f6da3247d8a846f4b6113e6173")

	wallet, err := NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("生成主密钥失败: %v", err)
	}

	for _, path := range []string{"m", "m/0", "m/0'", "m/0h/1", "m/44'/55555'/0'/0/0"} {
		if _, err := wallet.DerivePath(path); err != nil {
			t.Errorf("派生路径 %s 失败: %v", path, err)
		}
	}

	// 两种强化写法必须得到同一个密钥
	a, _ := wallet.DerivePath("m/44'/0'")
	b, _ := wallet.DerivePath("m/44h/0h")
	if a.String() != b.String() {
		t.Errorf("' 与 h 写法派生结果不同")
	}

	// 私钥与公钥必须对应
	child, _ := wallet.DerivePath("m/44'/0'/0'/0/0")
	priv, err := child.ECPrivKey()
	if err != nil {
		t.Fatalf("获取私钥失败: %v", err)
	}
	pub, err := child.ECPubKey()
	if err != nil {
		t.Fatalf("获取公钥失败: %v", err)
	}
	if !priv.PubKey().IsEqual(pub) {
		t.Errorf("ECPrivKey 与 ECPubKey 不对应")
	}
}

func TestDerivePath_Invalid(t *testing.T) {
	seed, _ := hex.DecodeString("fffcf9f6da3247d8a846f4b6113e6173")
	wallet, _ := NewMasterKeyFromSeed(seed, nil)

	for _, path := range []string{"m/abc", "m/44'/", "m/-1", "m/2147483648"} {
		if _, err := wallet.DerivePath(path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("路径 %q 期望 ErrInvalidPath, 得到 %v", path, err)
		}
	}
}

func TestDeriveAccount_Vectors(t *testing.T) {
	seed := bip39.NewMnemonicService().MnemonicToSeed(testMnemonic, "")
	wallet, err := NewMasterKeyFromSeed(seed, nil)
	if err != nil {
		t.Fatalf("生成主密钥失败: %v", err)
	}

	if got := AccountPath(55555, 3); got != "m/44'/55555'/0'/0/3" {
		t.Errorf("AccountPath = %s", got)
	}

	vectors := []struct {
		index uint32
		priv  string
		pub   string
	}{
		{0, "fd65974662f9d9a0e22a0d5dd757c4799a1b93f9c4988d16078380d3ad42d90f", "0274d968fedc956c8fd3526025bcabea2f4390dac979209458b70da3aa756dcb43"},
		{1, "16d9e525e38f4064571900d72ff046e2c8cc7bb172874e6c75827b3807c4214a", "02cca8735354a63a38f2beb1cd988aa96cfe17bdba7437deed18f0c652b4977959"},
		{2, "a0d3446ec1c5d18da2cfdeca7b713cbbdc30239064c8500bbf354370ac2d3dc6", "026bdc8065a4dad1794a6e555129c1c7363baeb91b5f6bb936cb8c40ff8af4a9ae"},
	}
	for _, v := range vectors {
		priv, err := wallet.DeriveAccount(55555, v.index)
		if err != nil {
			t.Fatalf("DeriveAccount(%d) 失败: %v", v.index, err)
		}
		if got := hex.EncodeToString(priv.Serialize()); got != v.priv {
			t.Errorf("索引 %d 私钥不匹配\n预期: %s\n实际: %s", v.index, v.priv, got)
		}
		if got := hex.EncodeToString(priv.PubKey().SerializeCompressed()); got != v.pub {
			t.Errorf("索引 %d 公钥不匹配\n预期: %s\n实际: %s", v.index, v.pub, got)
		}
	}

	if _, err := wallet.DeriveAccount(55555, 1<<31); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("强化范围的索引期望 ErrInvalidPath, 得到 %v", err)
	}
}
