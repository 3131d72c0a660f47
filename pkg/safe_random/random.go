package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"
)

// SaltSize 是每个账户私钥加密时使用的盐长度 (字节)
const SaltSize = 32

// Reader 是一个全局共享的加密安全随机数生成器实例。
// 默认为 crypto/rand.Reader，测试中可以替换。
var Reader io.Reader = rand.Reader

// GenerateRandomBytes 生成指定长度的安全随机字节切片。
// 如果系统的安全随机数生成器失败，将返回错误。
func GenerateRandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("随机字节长度必须为正数: %d", n)
	}
	b := make([]byte, n)
	// 注意：只有读取了 len(b) 个字节，err 才为 nil。
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// NewSalt 为新创建的密钥生成一个全新的盐。
func NewSalt() ([]byte, error) {
	return GenerateRandomBytes(SaltSize)
}
