package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	AppName   = "mth-wallet"
	EnvPrefix = "MTH"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Storage StorageConfig `mapstructure:"storage"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpHost string `mapstructure:"http_host"` // 默认只监听本机
	HttpPort string `mapstructure:"http_port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type WalletConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	Name          string `mapstructure:"name"`       // 默认加载的钱包
	Derivation    string `mapstructure:"derivation"` // bip44 或 legacy-seed
	KDFIterations int    `mapstructure:"kdf_iterations"`
	Password      string `mapstructure:"password"` // 通常通过环境变量 MTH_WALLET_PASSWORD 传入
}

type StorageConfig struct {
	AtomicWrite bool `mapstructure:"atomic_write"`
}

var Global Config

// DefaultDataDir 返回当前用户的钱包目录，例如 ~/.mth-wallet
func DefaultDataDir() string {
	return btcutil.AppDataDir(AppName, false)
}

// Init 读取配置文件 (可选) 、环境变量和默认值，结果写入 Global。
// cfgFile 为空时在 . 和 ./config 下查找 config.yaml。
func Init(cfgFile string) error {
	cfg, err := Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	Global = *cfg
	return nil
}

// Load 使用给定的 viper 实例加载配置
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config") // name of config file (without extension)
		v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
		v.AddConfigPath(".")      // optionally look for config in the working directory
		v.AddConfigPath("./config")
	}

	// 环境变量设置: wallet.password -> MTH_WALLET_PASSWORD
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 显式指定的文件必须存在
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_host", "127.0.0.1")
	v.SetDefault("app.http_port", "8080")

	v.SetDefault("log.level", "info")

	v.SetDefault("wallet.data_dir", DefaultDataDir())
	v.SetDefault("wallet.name", "default")
	v.SetDefault("wallet.derivation", "bip44")
	v.SetDefault("wallet.kdf_iterations", 210000)
	v.SetDefault("wallet.password", "")

	v.SetDefault("storage.atomic_write", true)
}
