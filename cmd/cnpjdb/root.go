package main

import (
	"github.com/spf13/cobra"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
)

const rootHelper = `Builds a queryable SQLite database from the Receita Federal
CNPJ open-data files: locates the latest monthly snapshot, downloads its zip
archives and loads everything into a single indexed database file.`

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "cnpjdb",
		Short:         "CNPJ open data to SQLite",
		Long:          rootHelper,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newURLsCmd(cfg))
	root.AddCommand(newDownloadCmd(cfg))
	root.AddCommand(newBuildCmd(cfg))
	return root
}
