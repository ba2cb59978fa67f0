package main

import (
	"itassets/internal/core/reporter"
	"itassets/internal/pkg/search"
	"itassets/internal/service/asset/indexer"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "核对索引: 是否存在、文档数、样本文档、相关索引列表",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("index") {
				appConfig.Search.Index = index
			}

			client, err := search.NewClient(&appConfig.Search)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			report, err := indexer.NewVerifier(client, appConfig.Search.IndexFilter).Verify(ctx, appConfig.Search.Index)
			if err != nil {
				return err
			}
			return reporter.NewConsoleReporter().PrintVerifyReport(report)
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "索引名称 (默认: search.index)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}
