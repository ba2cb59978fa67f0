package main

import (
	"fmt"

	"itassets/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "打印生效配置 (YAML，敏感字段脱敏)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Dump(appConfig)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
