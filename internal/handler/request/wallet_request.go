package request

// CreateWalletRequest 创建钱包
type CreateWalletRequest struct {
	Name string `json:"name" binding:"required,walletname"`
}

// ImportWalletRequest 用助记词导入钱包
type ImportWalletRequest struct {
	Name     string `json:"name" binding:"required,walletname"`
	Mnemonic string `json:"mnemonic" binding:"required"`
}

// AddAccountRequest 派生下一个账户
type AddAccountRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
}

// ImportPrivateKeyRequest 导入外部私钥
type ImportPrivateKeyRequest struct {
	PrivateKey string `json:"private_key" binding:"required,hexdata"`
}

// SelectAccountRequest 选中账户
type SelectAccountRequest struct {
	Index *int `json:"index" binding:"required,gte=0"`
}

// SignRequest 签名交易载荷 (十六进制)
type SignRequest struct {
	Data string `json:"data" binding:"hexdata"`
}

// VerifyRequest 校验签名，public_key 为空时使用选中账户
type VerifyRequest struct {
	Data      string `json:"data" binding:"hexdata"`
	Signature string `json:"signature" binding:"required"`
	PublicKey string `json:"public_key"`
}

// BackupRequest 备份当前钱包到服务器上的路径
type BackupRequest struct {
	Dest string `json:"dest" binding:"required"`
}

// RestoreRequest 从服务器上的备份文件恢复
type RestoreRequest struct {
	Src  string `json:"src" binding:"required"`
	Name string `json:"name" binding:"required,walletname"`
}
