package routes

import (
	"mth-wallet/internal/handler"

	"github.com/gin-gonic/gin"
)

func RegisterWalletRoutes(rg *gin.RouterGroup, h *handler.WalletHandler) {
	wallets := rg.Group("/wallets")
	{
		wallets.GET("", h.ListWallets)
		wallets.POST("", h.CreateWallet)
		wallets.POST("/import", h.ImportWallet)
		wallets.POST("/restore", h.RestoreWallet)
		wallets.POST("/:name/load", h.LoadWallet)
		wallets.DELETE("/:name", h.DeleteWallet)
	}

	current := rg.Group("/wallet")
	{
		current.GET("", h.GetWalletInfo)
		current.POST("/backup", h.BackupWallet)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.POST("", h.AddAccount)
		accounts.POST("/import", h.ImportPrivateKey)
		accounts.GET("/selected", h.GetSelectedAccount)
		accounts.PUT("/selected", h.SelectAccount)
		accounts.DELETE("/:index", h.RemoveAccount)
	}

	rg.POST("/sign", h.SignTransaction)
	rg.POST("/verify", h.VerifySignature)
}
