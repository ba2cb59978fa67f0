/**
 * 资产流水线配置
 * @description: 流水线配置结构体，所有组件通过显式传入配置构造，不依赖全局状态
 */
package config

import (
	"fmt"
	"strings"
)

// Config 流水线配置 [这里的字段和配置文件中一级字段保持一致，否则会没有值]
type Config struct {
	App      AppConfig      `yaml:"app" mapstructure:"app"`           // 应用配置
	Log      LogConfig      `yaml:"log" mapstructure:"log"`           // 日志配置
	Database DatabaseConfig `yaml:"database" mapstructure:"database"` // 关系库配置
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`     // 搜索引擎配置
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"` // 流水线配置
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`               // 应用名称
	Environment string `yaml:"environment" mapstructure:"environment"` // 运行环境
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式: json, text
	Output     string `yaml:"output" mapstructure:"output"`           // 输出方式: stdout, stderr, file
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 保留的日志文件数量
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩日志文件
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
}

// DatabaseConfig 关系库配置
type DatabaseConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`       // 驱动: sqlite, mysql
	Path     string `yaml:"path" mapstructure:"path"`           // SQLite 文件路径
	DSN      string `yaml:"dsn" mapstructure:"dsn"`             // MySQL DSN (driver=mysql 时使用)
	LogLevel string `yaml:"log_level" mapstructure:"log_level"` // GORM 日志级别: silent, error, warn, info
}

// SearchConfig 搜索引擎(Elasticsearch)配置
type SearchConfig struct {
	Endpoint           string `yaml:"endpoint" mapstructure:"endpoint"`                         // 服务地址
	APIKey             string `yaml:"api_key" mapstructure:"api_key"`                           // API Key
	Index              string `yaml:"index" mapstructure:"index"`                               // 索引名称
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"` // 跳过证书校验(演示环境)
	FlushBytes         int    `yaml:"flush_bytes" mapstructure:"flush_bytes"`                   // 批量提交阈值(字节)
	ErrorSampleSize    int    `yaml:"error_sample_size" mapstructure:"error_sample_size"`       // 输出的失败文档样本数
	IndexFilter        string `yaml:"index_filter" mapstructure:"index_filter"`                 // verify 列出索引时的名称子串
}

// PipelineConfig 流水线配置
type PipelineConfig struct {
	InputPath string `yaml:"input_path" mapstructure:"input_path"` // 原始 CSV 路径
	SkipClean bool   `yaml:"skip_clean" mapstructure:"skip_clean"` // 输入已清洗时跳过 Cleaner
}

// Enabled 搜索引擎配置是否完整
// 缺少 endpoint 或 api_key 时流水线降级为仅关系库
func (s *SearchConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != "" && strings.TrimSpace(s.APIKey) != ""
}

// Validate 校验搜索配置，返回缺失项
func (s *SearchConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Endpoint) == "" {
		missing = append(missing, "ES_ENDPOINT")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		missing = append(missing, "ES_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("please set %s", strings.Join(missing, " and "))
	}
	return nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "itassets",
			Environment: "development",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stdout",
			FilePath:   "./logs/itassets.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "./data/itassets.db",
			LogLevel: "silent",
		},
		Search: SearchConfig{
			Index:              "itassets_demo",
			InsecureSkipVerify: true,
			FlushBytes:         5 * 1024 * 1024,
			ErrorSampleSize:    3,
			IndexFilter:        "itassets",
		},
		Pipeline: PipelineConfig{
			InputPath: "./it_asset_inventory.csv",
		},
	}
}
