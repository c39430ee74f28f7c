package main

import (
	"fmt"
	"os"

	"ai-tablechat-be/internal/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	fixturePath string
	timeoutFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tablechat",
	Short: "Chat with the data in a table",
	Long: `tablechat lists the tables of the configured host, answers questions
about a table's records and runs data recovery on tables whose records
come back empty.

Host and inference settings are read from the environment (.env).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if fixturePath != "" {
			cfg.Host.Provider = "fixture"
			cfg.Host.FixturePath = fixturePath
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "read tables from a YAML fixture instead of HOST_PROVIDER")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "2m", "overall command timeout")

	rootCmd.AddCommand(tablesCmd, askCmd, recoverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
