// Package keystore 负责私钥的静态加密。
//
// 加密密钥由 PBKDF2-HMAC-SHA256(password, salt) 派生，迭代次数记录在钱包文件中。
// 默认使用 AES-256-GCM，输出为 nonce(12) || 密文 || tag(16)。
// 旧版 1.0.0 文件使用按位异或，只保留解密兼容。
package keystore

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"mth-wallet/pkg/crypto_util"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize 派生密钥长度 (AES-256)
	KeySize = 32
	// MinSaltSize 盐的最小长度，新生成的盐为 safe_random.SaltSize
	MinSaltSize = 16

	DefaultIterations = 210000
	LegacyIterations  = 10000

	CipherAESGCM = "aes-256-gcm"
	CipherXOR    = "xor"
	KDFPBKDF2    = "pbkdf2-hmac-sha256"
)

var (
	ErrDecrypt          = errors.New("decryption failed: wrong password or corrupted data")
	ErrInvalidSalt      = errors.New("invalid salt")
	// ErrPasswordRequired 调用方 (钱包管理器) 拒绝空口令时使用
	ErrPasswordRequired = errors.New("password required")
	ErrUnknownCipher    = errors.New("unknown cipher")
)

// Cipher 私钥加解密
type Cipher interface {
	Name() string
	Iterations() int
	Encrypt(plaintext []byte, password string, salt []byte) ([]byte, error)
	Decrypt(ciphertext []byte, password string, salt []byte) ([]byte, error)
}

// DeriveKey 使用 PBKDF2-HMAC-SHA256 派生 32 字节密钥。空口令同样合法，
// 是否要求口令由调用方决定。
func DeriveKey(password string, salt []byte, iterations int) ([]byte, error) {
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSalt, len(salt))
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid kdf iterations: %d", iterations)
	}
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New), nil
}

// AEAD 默认的 AES-256-GCM 加密
type AEAD struct {
	iterations int
}

func NewAEAD(iterations int) *AEAD {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &AEAD{iterations: iterations}
}

func (c *AEAD) Name() string    { return CipherAESGCM }
func (c *AEAD) Iterations() int { return c.iterations }

func (c *AEAD) Encrypt(plaintext []byte, password string, salt []byte) ([]byte, error) {
	key, err := DeriveKey(password, salt, c.iterations)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	return crypto_util.EncryptAESGCM(key, plaintext, nil)
}

func (c *AEAD) Decrypt(ciphertext []byte, password string, salt []byte) ([]byte, error) {
	key, err := DeriveKey(password, salt, c.iterations)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	plaintext, err := crypto_util.DecryptAESGCM(key, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecrypt, err)
	}
	return plaintext, nil
}

// Legacy 旧文件使用的异或流。它对任何密码都能"解密"成功，
// 调用方必须自行校验结果 (标量合法且公钥一致)。
type Legacy struct {
	iterations int
}

func NewLegacy(iterations int) *Legacy {
	if iterations <= 0 {
		iterations = LegacyIterations
	}
	return &Legacy{iterations: iterations}
}

func (c *Legacy) Name() string    { return CipherXOR }
func (c *Legacy) Iterations() int { return c.iterations }

func (c *Legacy) Encrypt(plaintext []byte, password string, salt []byte) ([]byte, error) {
	return c.xor(plaintext, password, salt)
}

func (c *Legacy) Decrypt(ciphertext []byte, password string, salt []byte) ([]byte, error) {
	return c.xor(ciphertext, password, salt)
}

func (c *Legacy) xor(in []byte, password string, salt []byte) ([]byte, error) {
	key, err := DeriveKey(password, salt, c.iterations)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ key[i%KeySize]
	}
	return out, nil
}

// ForParams 按钱包文件中记录的参数选择加密实现
func ForParams(cipher string, iterations int) (Cipher, error) {
	switch cipher {
	case CipherAESGCM:
		return NewAEAD(iterations), nil
	case CipherXOR:
		return NewLegacy(iterations), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, cipher)
}
