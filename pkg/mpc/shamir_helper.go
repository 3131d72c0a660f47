// Package mpc 用 Shamir 秘密共享把导出的私钥切分成多份。
package mpc

import (
	"errors"
	"fmt"

	"mth-wallet/pkg/utils/hexstr"

	"github.com/hashicorp/vault/shamir"
)

var ErrInvalidShare = errors.New("invalid share")

// Split 将私钥切分为 N 个部分，至少需要 M 个才能恢复
// secretHex: 原始私钥 (Hex String, 0x 可选)
// parts: 切分总数 (N)
// threshold: 恢复阈值 (M)
// return: N 个 Share (0x Hex String)
func Split(secretHex string, parts, threshold int) ([]string, error) {
	secretBytes, err := hexstr.Decode(secretHex)
	if err != nil {
		return nil, fmt.Errorf("invalid secret hex: %w", err)
	}
	defer clear(secretBytes)

	sharesBytes, err := shamir.Split(secretBytes, parts, threshold)
	if err != nil {
		return nil, err
	}

	// Share 的最后一个字节是 X 坐标，前面是各字节的 Y 值
	shares := make([]string, 0, len(sharesBytes))
	for _, share := range sharesBytes {
		shares = append(shares, hexstr.Encode(share))
		clear(share)
	}

	return shares, nil
}

// Recover 从 M 个 Shares 中恢复私钥
// return: 原始私钥 (0x Hex String)
func Recover(sharesHex []string) (string, error) {
	sharesBytes := make([][]byte, 0, len(sharesHex))
	for _, s := range sharesHex {
		b, err := hexstr.Decode(s)
		if err != nil {
			return "", errors.Join(ErrInvalidShare, err)
		}
		sharesBytes = append(sharesBytes, b)
	}

	secretBytes, err := shamir.Combine(sharesBytes)
	if err != nil {
		return "", err // 比如 shares 数量不够，或者不匹配
	}
	defer clear(secretBytes)

	return hexstr.Encode(secretBytes), nil
}
