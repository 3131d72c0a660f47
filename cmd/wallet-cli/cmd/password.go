package cmd

import (
	"errors"
	"fmt"
	"os"

	"mth-wallet/pkg/errno"

	"golang.org/x/term"
)

const minPasswordLength = 6

// withPassword 执行 fn。需要口令而配置中没有时，在终端提示输入后重试一次。
// confirm 为 true 时要求输入两次 (创建新的加密数据时使用)。
func withPassword(confirm bool, fn func() error) error {
	err := fn()
	if !errors.Is(err, errno.ErrPasswordRequired) {
		return err
	}
	password, err := promptPassword(confirm)
	if err != nil {
		return err
	}
	manager.SetPassword(password)
	return fn()
}

func promptPassword(confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errno.ErrPasswordRequired.WithMessage("password required: set MTH_WALLET_PASSWORD")
	}

	fmt.Fprint(os.Stderr, "输入密码: ")
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	password := string(bytePassword)
	if password == "" {
		return "", errno.ErrPasswordRequired
	}
	if !confirm {
		return password, nil
	}

	if len(password) < minPasswordLength {
		return "", errno.ErrValidation.WithMessage(fmt.Sprintf("密码长度至少需要 %d 位", minPasswordLength))
	}
	fmt.Fprint(os.Stderr, "确认密码: ")
	bytePasswordConfirm, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	if password != string(bytePasswordConfirm) {
		return "", errno.ErrValidation.WithMessage("两次输入的密码不一致")
	}
	return password, nil
}
