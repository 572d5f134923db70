package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "mailarchive",
	Short:         "Mail archive server",
	Long:          "Ingests mail from local stores and SMTP relay, and serves reconstructed bodies over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("MAILARCHIVE_CONFIG"),
		"optional config file; environment variables override it")

	rootCmd.AddCommand(serveCmd, ingestCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
