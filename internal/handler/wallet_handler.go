package handler

import (
	"context"
	"strconv"

	"mth-wallet/internal/handler/request"
	"mth-wallet/internal/handler/response"
	"mth-wallet/internal/service/wallet"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
)

// WalletService 钱包命令，由 wallet.Manager 实现
type WalletService interface {
	CreateWallet(ctx context.Context, name string) (*wallet.CreateWalletResult, error)
	ImportWallet(ctx context.Context, name, mnemonic string) (*wallet.ImportWalletResult, error)
	LoadWallet(ctx context.Context, name string) (bool, error)
	ListWallets(ctx context.Context) ([]string, error)
	ListAccounts(ctx context.Context) ([]wallet.AccountInfo, error)
	SelectAccount(ctx context.Context, index int) error
	GetSelectedAccount(ctx context.Context) (*wallet.AccountInfo, error)
	AddAccount(ctx context.Context, mnemonic string) (*wallet.AccountInfo, error)
	ImportPrivateKey(ctx context.Context, privateKeyHex string) (*wallet.AccountInfo, error)
	RemoveAccount(ctx context.Context, index int) error
	SignTransaction(ctx context.Context, hexData string) (*wallet.SignResult, error)
	VerifySignature(ctx context.Context, hexData, signatureHex, publicKeyHex string) (bool, error)
	GetWalletInfo(ctx context.Context) (*wallet.WalletInfo, error)
	DeleteWallet(ctx context.Context, name string) error
	BackupWallet(ctx context.Context, dest string) error
	RestoreWallet(ctx context.Context, src, name string) error
}

type WalletHandler struct {
	svc WalletService
}

func NewWalletHandler(svc WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, errno.ErrValidation.WithMessage(validator.GetErrorMsg(err)))
		return false
	}
	return true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, errno.ErrValidation.WithMessage("index 必须是非负整数"))
		return 0, false
	}
	return index, true
}

// CreateWallet 创建钱包
// @Summary 创建钱包
// @Description 生成 24 词助记词并创建钱包，助记词只返回这一次
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.CreateWalletRequest true "钱包名"
// @Success 200 {object} response.Response{data=wallet.CreateWalletResult}
// @Router /api/v1/wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req request.CreateWalletRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.CreateWallet(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ImportWallet 导入钱包
// @Summary 用助记词导入钱包
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.ImportWalletRequest true "钱包名和助记词"
// @Success 200 {object} response.Response{data=wallet.ImportWalletResult}
// @Router /api/v1/wallets/import [post]
func (h *WalletHandler) ImportWallet(c *gin.Context) {
	var req request.ImportWalletRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.ImportWallet(c.Request.Context(), req.Name, req.Mnemonic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListWallets 钱包列表
// @Summary 列出数据目录中的钱包
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/wallets [get]
func (h *WalletHandler) ListWallets(c *gin.Context) {
	names, err := h.svc.ListWallets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, names)
}

// LoadWallet 加载钱包
// @Summary 加载钱包并设为当前钱包
// @Tags Wallet
// @Produce json
// @Param name path string true "钱包名"
// @Success 200 {object} response.Response
// @Router /api/v1/wallets/{name}/load [post]
func (h *WalletHandler) LoadWallet(c *gin.Context) {
	ok, err := h.svc.LoadWallet(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"loaded": ok})
}

// DeleteWallet 删除钱包
// @Summary 删除钱包文件
// @Tags Wallet
// @Produce json
// @Param name path string true "钱包名"
// @Success 200 {object} response.Response
// @Router /api/v1/wallets/{name} [delete]
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	if err := h.svc.DeleteWallet(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// BackupWallet 备份当前钱包
// @Summary 备份当前钱包
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.BackupRequest true "目标路径"
// @Success 200 {object} response.Response
// @Router /api/v1/wallet/backup [post]
func (h *WalletHandler) BackupWallet(c *gin.Context) {
	var req request.BackupRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.BackupWallet(c.Request.Context(), req.Dest); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RestoreWallet 从备份恢复
// @Summary 从备份文件恢复钱包
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.RestoreRequest true "备份路径和钱包名"
// @Success 200 {object} response.Response
// @Router /api/v1/wallets/restore [post]
func (h *WalletHandler) RestoreWallet(c *gin.Context) {
	var req request.RestoreRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.RestoreWallet(c.Request.Context(), req.Src, req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetWalletInfo 当前钱包信息
// @Summary 当前钱包信息
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response{data=wallet.WalletInfo}
// @Router /api/v1/wallet [get]
func (h *WalletHandler) GetWalletInfo(c *gin.Context) {
	info, err := h.svc.GetWalletInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// ListAccounts 账户列表
// @Summary 列出当前钱包的账户
// @Tags Account
// @Produce json
// @Success 200 {object} response.Response{data=[]wallet.AccountInfo}
// @Router /api/v1/accounts [get]
func (h *WalletHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, accounts)
}

// AddAccount 派生新账户
// @Summary 在下一个派生索引上添加账户 (不改变选中账户)
// @Tags Account
// @Accept json
// @Produce json
// @Param request body request.AddAccountRequest true "助记词"
// @Success 200 {object} response.Response{data=wallet.AccountInfo}
// @Router /api/v1/accounts [post]
func (h *WalletHandler) AddAccount(c *gin.Context) {
	var req request.AddAccountRequest
	if !bind(c, &req) {
		return
	}
	info, err := h.svc.AddAccount(c.Request.Context(), req.Mnemonic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// ImportPrivateKey 导入私钥
// @Summary 导入外部私钥为新账户
// @Tags Account
// @Accept json
// @Produce json
// @Param request body request.ImportPrivateKeyRequest true "32 字节十六进制私钥"
// @Success 200 {object} response.Response{data=wallet.AccountInfo}
// @Router /api/v1/accounts/import [post]
func (h *WalletHandler) ImportPrivateKey(c *gin.Context) {
	var req request.ImportPrivateKeyRequest
	if !bind(c, &req) {
		return
	}
	info, err := h.svc.ImportPrivateKey(c.Request.Context(), req.PrivateKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// GetSelectedAccount 选中的账户
// @Summary 当前选中的账户
// @Tags Account
// @Produce json
// @Success 200 {object} response.Response{data=wallet.AccountInfo}
// @Router /api/v1/accounts/selected [get]
func (h *WalletHandler) GetSelectedAccount(c *gin.Context) {
	info, err := h.svc.GetSelectedAccount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if info == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, info)
}

// SelectAccount 选中账户
// @Summary 选中账户
// @Tags Account
// @Accept json
// @Produce json
// @Param request body request.SelectAccountRequest true "账户下标"
// @Success 200 {object} response.Response
// @Router /api/v1/accounts/selected [put]
func (h *WalletHandler) SelectAccount(c *gin.Context) {
	var req request.SelectAccountRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.SelectAccount(c.Request.Context(), *req.Index); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveAccount 删除账户
// @Summary 删除账户 (不能删除最后一个)
// @Tags Account
// @Produce json
// @Param index path int true "账户下标"
// @Success 200 {object} response.Response
// @Router /api/v1/accounts/{index} [delete]
func (h *WalletHandler) RemoveAccount(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveAccount(c.Request.Context(), index); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SignTransaction 签名
// @Summary 用选中账户对 SHA-256(data) 签名
// @Tags Signing
// @Accept json
// @Produce json
// @Param request body request.SignRequest true "十六进制交易载荷"
// @Success 200 {object} response.Response{data=wallet.SignResult}
// @Router /api/v1/sign [post]
func (h *WalletHandler) SignTransaction(c *gin.Context) {
	var req request.SignRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.SignTransaction(c.Request.Context(), req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// VerifySignature 验签
// @Summary 校验签名
// @Tags Signing
// @Accept json
// @Produce json
// @Param request body request.VerifyRequest true "载荷、签名和可选的公钥"
// @Success 200 {object} response.Response
// @Router /api/v1/verify [post]
func (h *WalletHandler) VerifySignature(c *gin.Context) {
	var req request.VerifyRequest
	if !bind(c, &req) {
		return
	}
	ok, err := h.svc.VerifySignature(c.Request.Context(), req.Data, req.Signature, req.PublicKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"valid": ok})
}
