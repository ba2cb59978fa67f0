package main

import (
	"itassets/internal/core/reporter"
	"itassets/internal/pkg/database"
	assetrepo "itassets/internal/repo/sqlite/asset"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "打印关系库 it_assets 表内容",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := signalContext()
			defer cancel()

			repo := assetrepo.NewITAssetRepository(db)
			if err := repo.CreateTable(ctx); err != nil {
				return err
			}
			assets, err := repo.ListAll(ctx)
			if err != nil {
				return err
			}
			return reporter.NewConsoleReporter().PrintAssets(assets)
		},
	}
}

func init() {
	rootCmd.AddCommand(newShowCmd())
}
