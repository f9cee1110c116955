package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobscout-engine/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the IMAP password in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the IMAP password for the configured inbox account",
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		account := secrets.IMAPKeyringAccount(cfg)
		fmt.Fprintf(os.Stderr, "Password for %s: ", account)

		reader := bufio.NewReader(os.Stdin)
		pw, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		pw = strings.TrimRight(pw, "\r\n")

		if err := secrets.SetIMAPPassword(account, pw); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "stored")
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored IMAP password",
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return secrets.DeleteIMAPPassword(secrets.IMAPKeyringAccount(cfg))
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
