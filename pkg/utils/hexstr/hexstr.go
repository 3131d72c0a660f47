package hexstr

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrInvalidHex 表示输入不是合法的十六进制字符串
var ErrInvalidHex = errors.New("无效的十六进制字符串")

// Encode 将字节编码为带 0x 前缀的十六进制字符串。
// 所有对外输出 (地址、公钥、签名) 都统一使用此格式。
func Encode(b []byte) string {
	return hexutil.Encode(b)
}

// Decode 解析十六进制字符串，0x 前缀可选，首尾空白会被忽略。
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidHex, err)
	}
	return b, nil
}

// DecodeFixed 解析十六进制字符串并要求解码后的长度为 size 字节。
func DecodeFixed(s string, size int) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, ErrInvalidHex
	}
	return b, nil
}
