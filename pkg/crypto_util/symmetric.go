package crypto_util

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"io"

	"mth-wallet/pkg/safe_random"
)

// GCMNonceSize 是 AES-GCM 使用的 nonce 长度 (字节)
const GCMNonceSize = 12

// GCMTagSize 是 AES-GCM 认证标签长度 (字节)
const GCMTagSize = 16

var (
	ErrCiphertextTooShort = errors.New("密文太短")
	ErrAuthFailed         = errors.New("认证失败: 密钥错误或数据已损坏")
)

// EncryptAESGCM 使用给定的密钥对明文进行 AES-GCM 加密。
// 密钥必须是 16、24 或 32 字节长，分别对应 AES-128、AES-192 或 AES-256。
// additionalData 会参与认证但不会被加密，可以为 nil。
// 返回 nonce + 密文 + 认证标签。
func EncryptAESGCM(key, plaintext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(safe_random.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, additionalData), nil
}

// DecryptAESGCM 使用给定的密钥对 AES-GCM 密文（nonce + 加密数据）进行解密。
func DecryptAESGCM(key, ciphertext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
