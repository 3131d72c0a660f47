package bip39

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// 已知的测试向量 (Test Vector), 密码为空
const testSeedHex = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

func TestGenerateMnemonic(t *testing.T) {
	service := NewMnemonicService()

	// 测试 12 个单词 (128 bits)
	mnemonic12, err := service.GenerateMnemonic(128)
	if err != nil {
		t.Fatalf("生成 12 词助记词失败: %v", err)
	}
	if n := len(strings.Fields(mnemonic12)); n != 12 {
		t.Errorf("单词数 = %d, 期望 12", n)
	}
	if !service.ValidateMnemonic(mnemonic12) {
		t.Errorf("生成的 12 词助记词无效")
	}

	// 默认 24 个单词 (256 bits)
	mnemonic24, err := service.GenerateMnemonic(DefaultEntropyBits)
	if err != nil {
		t.Fatalf("生成 24 词助记词失败: %v", err)
	}
	if n := len(strings.Fields(mnemonic24)); n != 24 {
		t.Errorf("单词数 = %d, 期望 24", n)
	}
	if !service.ValidateMnemonic(mnemonic24) {
		t.Errorf("生成的 24 词助记词无效")
	}

	if _, err := service.GenerateMnemonic(100); err == nil {
		t.Errorf("非法熵长度应当报错")
	}
}

func TestMnemonicToSeed(t *testing.T) {
	service := NewMnemonicService()

	if !service.ValidateMnemonic(testMnemonic) {
		t.Fatalf("测试向量助记词无效")
	}

	seedHex := hex.EncodeToString(service.MnemonicToSeed(testMnemonic, ""))
	if seedHex != testSeedHex {
		t.Errorf("Seed 生成不匹配。\n预期: %s\n实际: %s", testSeedHex, seedHex)
	}
}

func TestNewSeed_Normalizes(t *testing.T) {
	service := NewMnemonicService()

	messy := "  ABANDON abandon\tabandon abandon abandon abandon abandon abandon abandon abandon abandon   About\n"
	seed, err := service.NewSeed(messy, "")
	if err != nil {
		t.Fatalf("NewSeed 失败: %v", err)
	}
	if hex.EncodeToString(seed) != testSeedHex {
		t.Errorf("规范化后的种子不匹配")
	}
}

func TestNewSeed_Invalid(t *testing.T) {
	service := NewMnemonicService()

	cases := []string{
		"",
		"hello world invalid mnemonic phrase designed to fail validation check",
		// 校验和错误
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	}
	for _, m := range cases {
		if _, err := service.NewSeed(m, ""); !errors.Is(err, ErrInvalidMnemonic) {
			t.Errorf("NewSeed(%q) 期望 ErrInvalidMnemonic, 得到 %v", m, err)
		}
		if service.ValidateMnemonic(m) {
			t.Errorf("ValidateMnemonic(%q) 期望失败", m)
		}
	}
}
