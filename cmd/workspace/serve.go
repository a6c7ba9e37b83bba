package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-workspace/internal/app"
)

var serveFlags struct {
	migrate bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		app.MustConnectPostgres()
		defer app.DisconnectPostgres()

		if serveFlags.migrate {
			app.MustEnsureSchema()
		}
		app.MustListenAndServeHTTP()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.migrate, "migrate", false, "Ensure the database schema before serving")
}
