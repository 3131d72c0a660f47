package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"mth-wallet/internal/service/wallet"
	"mth-wallet/pkg/errno"

	"github.com/spf13/cobra"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `生成一个新的随机 24 词 BIP-39 助记词，派生第 0 个账户并加密保存。助记词只显示这一次，不会写入文件。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var res *wallet.CreateWalletResult
		err := withPassword(true, func() (err error) {
			res, err = manager.CreateWallet(cmd.Context(), walletName())
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("钱包 %q 已创建\n", walletName())
		fmt.Println("---------------------------------------------------")
		fmt.Printf("助记词 (Mnemonic): \n%s\n", res.Mnemonic)
		fmt.Println("---------------------------------------------------")
		fmt.Printf("地址 (Address):    %s\n", res.Address)
		fmt.Printf("公钥 (Public Key): %s\n", res.PublicKey)
		fmt.Println("---------------------------------------------------")
		fmt.Println("请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		return nil
	},
}

var importMnemonic string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "用已有助记词导入钱包",
	Long:  `用 BIP-39 助记词重建钱包的第 0 个账户。未指定 --mnemonic 时从标准输入读取一行。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, err := mnemonicInput(importMnemonic)
		if err != nil {
			return err
		}
		var res *wallet.ImportWalletResult
		err = withPassword(true, func() (err error) {
			res, err = manager.ImportWallet(cmd.Context(), walletName(), mnemonic)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Printf("钱包 %q 已导入 (账户数: %d)\n", walletName(), res.TotalAccounts)
		fmt.Printf("地址 (Address):    %s\n", res.Address)
		fmt.Printf("公钥 (Public Key): %s\n", res.PublicKey)
		return nil
	},
}

// mnemonicInput 优先使用 flag，否则从标准输入读取
func mnemonicInput(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "输入助记词: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errno.ErrValidation.WithMessage("mnemonic required")
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.AddCommand(newCmd)

	importCmd.Flags().StringVarP(&importMnemonic, "mnemonic", "m", "", "助记词 (会进入 shell 历史，建议通过标准输入传入)")
	rootCmd.AddCommand(importCmd)
}
