package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mth-wallet/pkg/utils/hexstr"
)

// Bytes 在 JSON 中编码为带 0x 的十六进制字符串。
// 解码时也接受旧文件里的数字数组 [12, 250, ...]。
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(hexstr.Encode(b))
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := hexstr.Decode(s)
		if err != nil {
			return err
		}
		*b = decoded
		return nil
	case len(data) > 0 && data[0] == '[':
		var nums []int
		if err := json.Unmarshal(data, &nums); err != nil {
			return err
		}
		out := make([]byte, len(nums))
		for i, n := range nums {
			if n < 0 || n > 255 {
				return fmt.Errorf("byte value out of range at %d: %d", i, n)
			}
			out[i] = byte(n)
		}
		*b = out
		return nil
	}
	return fmt.Errorf("bytes: unexpected JSON %q", data)
}

// Hex 返回带 0x 前缀的十六进制
func (b Bytes) Hex() string {
	return hexstr.Encode(b)
}
