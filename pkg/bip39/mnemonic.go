package bip39

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// DefaultEntropyBits 新生成的助记词使用 256 位熵 (24 个单词)
const DefaultEntropyBits = 256

var ErrInvalidMnemonic = errors.New("无效的助记词")

// MnemonicService 提供助记词相关的功能
type MnemonicService struct{}

// NewMnemonicService 创建一个新的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{}
}

// GenerateMnemonic 生成一个新的随机助记词 (BIP-39)。
// bitSize: 熵的位数，通常为 128 (12个单词) 或 256 (24个单词)。
func (s *MnemonicService) GenerateMnemonic(bitSize int) (string, error) {
	// 生成熵
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %w", err)
	}

	// 从熵生成助记词
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %w", err)
	}

	return mnemonic, nil
}

// Normalize 把助记词转为小写，并把任意空白折叠成单个空格。
// 种子是对原始字符串做 PBKDF2，所以派生之前必须先规范化。
func (s *MnemonicService) Normalize(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic 验证助记词是否有效 (单词表和校验和)。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(s.Normalize(mnemonic))
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的密码 (Passphrase),用于以此增强安全性 (这也是 "第25个单词" 的由来)。
// 如果不需要密码，传空字符串 ""。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(s.Normalize(mnemonic), password)
}

// NewSeed 校验助记词后再生成种子，无效的助记词返回 ErrInvalidMnemonic。
func (s *MnemonicService) NewSeed(mnemonic string, password string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(s.Normalize(mnemonic), password)
	if err != nil {
		return nil, errors.Join(ErrInvalidMnemonic, err)
	}
	return seed, nil
}
