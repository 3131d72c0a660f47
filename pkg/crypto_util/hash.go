package crypto_util

import (
	"crypto/sha256"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// SHA256 计算输入的 SHA-256 摘要。
// 地址派生和交易载荷签名都使用它。
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Blake3 计算输入的 Blake3-256 摘要。
// Blake3 是一种现代、高性能的加密哈希函数，这里用于钱包文件的完整性校验。
func Blake3(data []byte) [32]byte {
	return blake3.Sum256(data)
}

// Blake3Hex 返回 Blake3 摘要的十六进制形式
func Blake3Hex(data []byte) string {
	sum := Blake3(data)
	return hex.EncodeToString(sum[:])
}
