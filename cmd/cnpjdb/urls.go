package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
)

func newURLsCmd(cfg config.Config) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Print the archive URLs of the latest snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := resolveEntries(cmd.Context(), baseURL, "")
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Println(e.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", cfg.BaseURL, "open-data listing base URL")
	return cmd
}
