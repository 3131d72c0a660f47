package model

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"mth-wallet/pkg/address"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/keystore"
)

var (
	ErrIndexOutOfBounds   = errors.New("account index out of bounds")
	ErrLastAccount        = errors.New("cannot remove the last account")
	ErrInvariantViolation = errors.New("account collection invariant violated")
)

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Collection 一个钱包的全部账户，也是钱包文件的内容。
//
// 非空时恰好有一个账户被选中，SelectedAccountIndex 指向它；
// 为空时没有选中项。账户只能追加到末尾。
type Collection struct {
	Version              string           `json:"version"`
	CreatedAt            time.Time        `json:"created_at"`
	LastModified         time.Time        `json:"last_modified"`
	Derivation           string           `json:"derivation,omitempty"`
	Encryption           EncryptionParams `json:"encryption"`
	SelectedAccountIndex *int             `json:"selected_account_index"`
	Accounts             []*Account       `json:"accounts"`
	Checksum             string           `json:"checksum,omitempty"`
}

// NewCollection 创建空集合
func NewCollection(derivation string, enc EncryptionParams) *Collection {
	now := Now()
	return &Collection{
		Version:      Version,
		CreatedAt:    now,
		LastModified: now,
		Derivation:   derivation,
		Encryption:   enc,
		Accounts:     []*Account{},
	}
}

func (c *Collection) Len() int {
	return len(c.Accounts)
}

// Append 追加账户。集合为空时新账户被选中，否则保持当前选择。
func (c *Collection) Append(a *Account) {
	a.IsSelected = false
	c.Accounts = append(c.Accounts, a)
	if len(c.Accounts) == 1 {
		c.setSelected(0)
	}
	c.touch()
}

// Select 选中第 i 个账户并更新其 last_used
func (c *Collection) Select(i int) error {
	if i < 0 || i >= len(c.Accounts) {
		return fmt.Errorf("%w: %d (accounts: %d)", ErrIndexOutOfBounds, i, len(c.Accounts))
	}
	c.setSelected(i)
	now := Now()
	c.Accounts[i].LastUsed = &now
	c.touch()
	return nil
}

// Remove 删除第 i 个账户，其余账户顺序不变。
// 删除的是选中账户时改为选中第 0 个，否则选中项跟随原账户。
func (c *Collection) Remove(i int) error {
	if i < 0 || i >= len(c.Accounts) {
		return fmt.Errorf("%w: %d (accounts: %d)", ErrIndexOutOfBounds, i, len(c.Accounts))
	}
	if len(c.Accounts) == 1 {
		return ErrLastAccount
	}

	sel := -1
	if c.SelectedAccountIndex != nil {
		sel = *c.SelectedAccountIndex
	}
	c.Accounts = append(c.Accounts[:i], c.Accounts[i+1:]...)

	switch {
	case sel == i || sel < 0:
		c.setSelected(0)
	case sel > i:
		c.setSelected(sel - 1)
	}
	c.touch()
	return nil
}

// Selected 返回选中的账户
func (c *Collection) Selected() (*Account, bool) {
	if c.SelectedAccountIndex == nil {
		return nil, false
	}
	i := *c.SelectedAccountIndex
	if i < 0 || i >= len(c.Accounts) {
		return nil, false
	}
	return c.Accounts[i], true
}

// SelectedIndex 返回选中账户的下标，没有选中项时为 -1
func (c *Collection) SelectedIndex() int {
	if c.SelectedAccountIndex == nil {
		return -1
	}
	return *c.SelectedAccountIndex
}

// All 按顺序遍历账户，可以多次调用
func (c *Collection) All() iter.Seq2[int, *Account] {
	return func(yield func(int, *Account) bool) {
		for i, a := range c.Accounts {
			if !yield(i, a) {
				return
			}
		}
	}
}

// IndexOfAddress 按地址查找账户，找不到返回 -1
func (c *Collection) IndexOfAddress(addr string) int {
	for i, a := range c.All() {
		if a.Address == addr {
			return i
		}
	}
	return -1
}

// NextDerivationIndex 返回下一个未使用的派生索引
func (c *Collection) NextDerivationIndex() uint32 {
	var next uint32
	for _, a := range c.All() {
		if a.DerivationIndex != nil && *a.DerivationIndex >= next {
			next = *a.DerivationIndex + 1
		}
	}
	return next
}

// Validate 检查选择不变量和每个账户的完整性
func (c *Collection) Validate() error {
	if len(c.Accounts) == 0 {
		if c.SelectedAccountIndex != nil {
			return invariantf("selected index %d in empty collection", *c.SelectedAccountIndex)
		}
		return nil
	}
	if c.SelectedAccountIndex == nil {
		return invariantf("no account selected")
	}
	sel := *c.SelectedAccountIndex
	if sel < 0 || sel >= len(c.Accounts) {
		return invariantf("selected index %d out of range (accounts: %d)", sel, len(c.Accounts))
	}

	seen := make(map[string]int, len(c.Accounts))
	for i, a := range c.All() {
		if a == nil {
			return invariantf("account %d is null", i)
		}
		if a.IsSelected != (i == sel) {
			return invariantf("account %d is_selected=%t but selected index is %d", i, a.IsSelected, sel)
		}
		if err := a.Check(); err != nil {
			return err
		}
		// legacy-seed 的旧文件里同一助记词的账户本来就相同
		if j, dup := seen[a.Address]; dup && c.Derivation != string(keys.SchemeLegacy) {
			return invariantf("accounts %d and %d share address %s", j, i, a.Address)
		}
		seen[a.Address] = i
	}
	return nil
}

// Normalize 补齐旧文件缺失的字段，并把地址统一成 0x 小写形式。
// 在 Validate 之前调用。
func (c *Collection) Normalize() {
	if c.Version == "" {
		c.Version = LegacyVersion
	}
	if c.Derivation == "" {
		if c.Version == LegacyVersion {
			c.Derivation = string(keys.SchemeLegacy)
		} else {
			c.Derivation = string(keys.SchemeBIP44)
		}
	}
	if c.Encryption.Cipher == "" {
		if c.Version == LegacyVersion {
			c.Encryption = EncryptionParams{Cipher: keystore.CipherXOR, KDF: keystore.KDFPBKDF2, Iterations: keystore.LegacyIterations}
		} else {
			c.Encryption = EncryptionParams{Cipher: keystore.CipherAESGCM, KDF: keystore.KDFPBKDF2, Iterations: keystore.DefaultIterations}
		}
	}
	if c.Accounts == nil {
		c.Accounts = []*Account{}
	}
	if c.SelectedAccountIndex == nil {
		for i, a := range c.Accounts {
			if a != nil && a.IsSelected {
				c.SelectedAccountIndex = &i
				break
			}
		}
	}
	for _, a := range c.Accounts {
		if a == nil {
			continue
		}
		if addr, err := address.Parse(a.Address); err == nil {
			a.Address = addr.Hex()
		}
	}
}

// Clone 深拷贝，修改副本不会影响原集合
func (c *Collection) Clone() *Collection {
	out := *c
	if c.SelectedAccountIndex != nil {
		sel := *c.SelectedAccountIndex
		out.SelectedAccountIndex = &sel
	}
	out.Accounts = make([]*Account, len(c.Accounts))
	for i, a := range c.Accounts {
		out.Accounts[i] = a.Clone()
	}
	return &out
}

func (c *Collection) setSelected(i int) {
	for j, a := range c.Accounts {
		a.IsSelected = j == i
	}
	c.SelectedAccountIndex = &i
}

func (c *Collection) touch() {
	c.LastModified = Now()
}
