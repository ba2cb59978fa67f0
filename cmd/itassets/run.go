/*
 * @description: run 子命令，执行完整流水线
 */

package main

import (
	"itassets/internal/app/pipeline"
	"itassets/internal/core/reporter"
	"itassets/internal/pkg/database"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		input     string
		skipClean bool
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "执行完整流水线 (清洗 -> 入库 -> 富化 -> 索引)",
		Long: `清洗原始 CSV 后写入关系库 it_assets 表，富化后批量索引到 Elasticsearch。
未设置 ES_ENDPOINT / ES_API_KEY 或搜索服务不可达时，只完成关系库部分。

示例:
  itassets run --input ./it_asset_inventory.csv --show-table
  itassets run --input ./already_cleaned.csv --skip-clean
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("input") {
				appConfig.Pipeline.InputPath = input
			}
			if cmd.Flags().Changed("skip-clean") {
				appConfig.Pipeline.SkipClean = skipClean
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := signalContext()
			defer cancel()

			pterm.Info.Printf("Running pipeline on %s\n", appConfig.Pipeline.InputPath)
			result, err := pipeline.New(appConfig, db, nil).Run(ctx)
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if showTable {
				if err := console.PrintAssets(result.Assets); err != nil {
					return err
				}
			}
			console.PrintResult(result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "原始 CSV 路径 (默认: pipeline.input_path)")
	flags.BoolVar(&skipClean, "skip-clean", false, "输入已清洗，跳过清洗阶段")
	flags.BoolVar(&showTable, "show-table", false, "运行结束后打印 it_assets 表内容")

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
