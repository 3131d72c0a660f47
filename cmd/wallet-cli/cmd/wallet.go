package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "列出数据目录中的钱包",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := manager.ListWallets(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("没有钱包")
			return nil
		}
		for _, name := range names {
			marker := " "
			if name == walletName() {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "显示当前钱包信息",
	Args:  cobra.NoArgs,
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		info, err := manager.GetWalletInfo(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("钱包:       %s\n", info.Name)
		fmt.Printf("版本:       %s\n", info.Version)
		fmt.Printf("派生方案:   %s\n", info.Derivation)
		fmt.Printf("账户数:     %d\n", info.TotalAccounts)
		fmt.Printf("选中地址:   %s\n", info.SelectedAddress)
		fmt.Printf("创建时间:   %s\n", info.CreatedAt.Local().Format(time.DateTime))
		fmt.Printf("最后修改:   %s\n", info.LastModified.Local().Format(time.DateTime))
		return nil
	}),
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "删除钱包文件",
	Long:  `删除 --wallet 指定的钱包文件。此操作不可恢复，没有备份或助记词时私钥将永久丢失。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("refusing to delete wallet %q without --yes", walletName())
		}
		if err := manager.DeleteWallet(cmd.Context(), walletName()); err != nil {
			return err
		}
		fmt.Printf("钱包 %q 已删除\n", walletName())
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <dest>",
	Short: "把当前钱包文件备份到指定路径",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		if err := manager.BackupWallet(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("钱包 %q 已备份到 %s\n", walletName(), args[0])
		return nil
	}),
}

var restoreCmd = &cobra.Command{
	Use:   "restore <src>",
	Short: "从备份文件恢复钱包",
	Long:  `校验备份文件后写入为 --wallet 指定的钱包，同名钱包会被覆盖。`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manager.RestoreWallet(cmd.Context(), args[0], walletName()); err != nil {
			return err
		}
		fmt.Printf("钱包 %q 已从 %s 恢复\n", walletName(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walletsCmd)
	rootCmd.AddCommand(infoCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "确认删除")
	rootCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
