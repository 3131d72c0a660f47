package wallet

import (
	"time"

	"mth-wallet/internal/model"
	"mth-wallet/pkg/keys"
)

// CreateWalletResult 助记词只在创建时返回一次，不会被保存
type CreateWalletResult struct {
	Mnemonic  string `json:"mnemonic"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
}

type ImportWalletResult struct {
	Address       string `json:"address"`
	PublicKey     string `json:"public_key"`
	TotalAccounts int    `json:"total_accounts"`
}

type AccountInfo struct {
	Index           int        `json:"index"`
	Address         string     `json:"address"`
	PublicKey       string     `json:"public_key"`
	IsSelected      bool       `json:"is_selected"`
	DerivationIndex *uint32    `json:"derivation_index,omitempty"`
	DerivationPath  string     `json:"derivation_path,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastUsed        *time.Time `json:"last_used,omitempty"`
}

type SignResult struct {
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Address   string `json:"address"`
	Hash      string `json:"hash"`
}

type WalletInfo struct {
	Name            string    `json:"name"`
	TotalAccounts   int       `json:"total_accounts"`
	SelectedAddress string    `json:"selected_address"`
	CreatedAt       time.Time `json:"created_at"`
	LastModified    time.Time `json:"last_modified"`
	Version         string    `json:"version"`
	Derivation      string    `json:"derivation"`
}

// accountInfo 转换为对外的账户信息。派生账户附带 scheme 下的派生路径。
func accountInfo(i int, a *model.Account, scheme string) AccountInfo {
	info := AccountInfo{
		Index:      i,
		Address:    a.Address,
		PublicKey:  a.PublicKey.Hex(),
		IsSelected: a.IsSelected,
		CreatedAt:  a.CreatedAt,
	}
	if a.DerivationIndex != nil {
		idx := *a.DerivationIndex
		info.DerivationIndex = &idx
		if d, err := keys.NewDeriver(keys.Scheme(scheme)); err == nil {
			info.DerivationPath = d.DerivationPath(idx)
		}
	}
	if a.LastUsed != nil {
		t := *a.LastUsed
		info.LastUsed = &t
	}
	return info
}
