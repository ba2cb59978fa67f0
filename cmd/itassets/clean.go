package main

import (
	"itassets/internal/core/reporter"
	"itassets/internal/service/asset/etl"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "只清洗原始 CSV，输出 *_cleaned.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("input") {
				appConfig.Pipeline.InputPath = input
			}

			ctx, cancel := signalContext()
			defer cancel()

			report, err := etl.NewCleaner().Clean(ctx, appConfig.Pipeline.InputPath)
			if err != nil {
				return err
			}
			reporter.NewConsoleReporter().PrintCleanReport(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "原始 CSV 路径 (默认: pipeline.input_path)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCleanCmd())
}
