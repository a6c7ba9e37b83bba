package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-workspace/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	Run: func(cmd *cobra.Command, args []string) {
		app.MustConnectPostgres()
		defer app.DisconnectPostgres()

		app.MustEnsureSchema()
	},
}
