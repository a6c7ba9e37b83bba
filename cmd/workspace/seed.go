package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-workspace/internal/app"
)

var seedFlags struct {
	file string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo workspace from a YAML fixture",
	Long:  "Create the fixture's user, a workspace owned by it and the listed projects and tasks, with creation times backdated by created_days_ago.",
	Run: func(cmd *cobra.Command, args []string) {
		app.MustConnectPostgres()
		defer app.DisconnectPostgres()

		app.MustEnsureSchema()
		app.MustSeed(seedFlags.file)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFlags.file, "file", "configs/seed.yaml", "Path to the seed fixture")
}
