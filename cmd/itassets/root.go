/*
 * @description: Cobra Root Command 定义
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"itassets/internal/config"
	"itassets/internal/pkg/database"
	"itassets/internal/pkg/logger"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfgFile   string
	logLevel  string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "itassets",
	Short: "IT 资产清单 ETL 流水线",
	Long: `itassets 读取 IT 资产清单 CSV，清洗、规范化后写入关系库，
富化风险等级和系统年龄后批量索引到 Elasticsearch。

示例:
  1.完整运行(未配置 ES_ENDPOINT/ES_API_KEY 时只写入关系库)
	itassets run --input ./it_asset_inventory.csv
  2.只清洗
	itassets clean --input ./it_asset_inventory.csv
  3.核对索引
	itassets verify
`,
	SilenceUsage: true,
	// PersistentPreRunE: 全局初始化逻辑，加载配置并初始化日志
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initConfig()
	},
}

func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n[FATAL] itassets crashed unexpectedly: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	// 全局 Flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认: ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")
}

// initConfig 加载 .env、配置文件和环境变量，并初始化日志
func initConfig() error {
	if err := config.NewEnvLoader().Load(); err != nil {
		return err
	}

	loader := config.NewConfigLoader(cfgFile, "ITASSETS")
	cfg, err := loader.LoadConfig()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	if path := loader.GetConfigPath(); path != "" {
		logger.Debugf("Using config file: %s", path)
	}

	appConfig = cfg
	return nil
}

// openDatabase 打开关系库连接
func openDatabase() (*gorm.DB, error) {
	db, err := database.NewConnection(&appConfig.Database)
	if err != nil {
		return nil, err
	}
	logger.LogSystemEvent("DATABASE", "connected", "", logrus.InfoLevel, map[string]interface{}{
		"driver": appConfig.Database.Driver,
		"path":   appConfig.Database.Path,
	})
	return db, nil
}

// signalContext Ctrl+C 时取消
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
