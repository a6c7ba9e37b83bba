package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-workspace/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "workspace",
	Short: "workspace serves the workspace task API and its analytics",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.InitDefaultLogger()
		app.MustReadEnv()
		app.MustInitApplicationLogger()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
