package cmd

import (
	"context"
	"fmt"
	"os"

	"mth-wallet/internal/service/wallet"
	"mth-wallet/internal/storage"
	"mth-wallet/pkg/config"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	manager *wallet.Manager
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "mth",
	Short: "MTH 钱包命令行工具",
	Long: `一个本地 BIP-39 助记词钱包。
私钥以口令加密保存在数据目录下的 <钱包名>.json 中，支持多账户、secp256k1 签名和验签。
口令从 MTH_WALLET_PASSWORD 读取，未设置时在终端提示输入。`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		code, msg := errno.Decode(err)
		fmt.Fprintf(os.Stderr, "错误 [%d]: %s\n", code, msg)
		os.Exit(1)
	}
}

func init() {
	// 全局标志 (Global Flags)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认 ./config.yaml)")
	rootCmd.PersistentFlags().StringP("wallet", "w", "", "钱包名 (默认 wallet.name)")
	rootCmd.PersistentFlags().String("data-dir", "", "钱包数据目录 (默认 wallet.data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出运行日志")

	_ = viper.BindPFlag("wallet.name", rootCmd.PersistentFlags().Lookup("wallet"))
	_ = viper.BindPFlag("wallet.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// setup 加载配置并构造钱包管理器
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}

	level := "error"
	if verbose {
		level = config.Global.Log.Level
	}
	logger.Init(config.Global.App.Env, level)

	store := storage.NewFileStore(config.Global.Wallet.DataDir,
		storage.WithAtomicWrite(config.Global.Storage.AtomicWrite),
		storage.WithLogger(logger.Named("storage")),
	)
	m, err := wallet.NewManager(store, wallet.Options{
		Password:      config.Global.Wallet.Password,
		Scheme:        keys.Scheme(config.Global.Wallet.Derivation),
		KDFIterations: config.Global.Wallet.KDFIterations,
		Logger:        logger.Named("wallet"),
	})
	if err != nil {
		return err
	}
	manager = m
	return nil
}

// walletName 当前命令操作的钱包
func walletName() string {
	return config.Global.Wallet.Name
}

// loadWallet 加载 --wallet 指定的钱包，不存在时报错
func loadWallet(ctx context.Context) error {
	name := walletName()
	ok, err := manager.LoadWallet(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return errno.ErrWalletNotFound.WithMessage(fmt.Sprintf("wallet %q not found in %s, run `mth new` first", name, config.Global.Wallet.DataDir))
	}
	return nil
}

// withWallet 包装需要已加载钱包的命令
func withWallet(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := loadWallet(cmd.Context()); err != nil {
			return err
		}
		return run(cmd, args)
	}
}
