package main

import (
	"context"
	"flag"
	"os"

	"mth-wallet/internal/handler"
	"mth-wallet/internal/server"
	"mth-wallet/internal/service/wallet"
	"mth-wallet/internal/storage"
	"mth-wallet/pkg/config"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/logger"

	"go.uber.org/zap"
)

// @title MTH Wallet API
// @version 1.0
// @description Local BIP39 wallet: mnemonic accounts, encrypted keys and secp256k1 signing.

// @host localhost:8080
// @BasePath /
func main() {
	cfgFile := flag.String("config", "", "config file (default ./config.yaml)")
	flag.Parse()

	// 0. 初始化 Config
	if err := config.Init(*cfgFile); err != nil {
		logger.Fatal("加载配置失败", zap.Error(err))
	}

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env, config.Global.Log.Level)
	defer logger.Sync()

	if config.Global.Wallet.Password == "" {
		logger.Warn("未设置 MTH_WALLET_PASSWORD，涉及私钥的命令将失败")
	}

	// 2. 钱包存储
	store := storage.NewFileStore(config.Global.Wallet.DataDir,
		storage.WithAtomicWrite(config.Global.Storage.AtomicWrite),
		storage.WithLogger(logger.Named("storage")),
	)

	// 3. 钱包管理器 (整个进程共享一个实例)
	manager, err := wallet.NewManager(store, wallet.Options{
		Password:      config.Global.Wallet.Password,
		Scheme:        keys.Scheme(config.Global.Wallet.Derivation),
		KDFIterations: config.Global.Wallet.KDFIterations,
		Logger:        logger.Named("wallet"),
	})
	if err != nil {
		logger.Fatal("初始化钱包管理器失败", zap.Error(err))
	}

	// 4. 预加载默认钱包，不存在时等待客户端创建
	if name := config.Global.Wallet.Name; name != "" {
		ok, err := manager.LoadWallet(context.Background(), name)
		switch {
		case err != nil:
			logger.Fatal("加载钱包失败", zap.String("wallet", name), zap.Error(err))
		case ok:
			logger.Info("钱包已加载", zap.String("wallet", name))
		default:
			logger.Info("钱包不存在，跳过预加载", zap.String("wallet", name))
		}
	}

	// 5. HTTP Router
	r, err := server.NewHTTPRouter(handler.NewWalletHandler(manager))
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 6. 启动应用 (阻塞)
	app := server.New(server.Config{
		HttpHost: config.Global.App.HttpHost,
		HttpPort: config.Global.App.HttpPort,
	}, r)
	if err := app.Run(); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("系统已退出")
}
