package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigLoader 配置加载器
// 优先级: 环境变量 > 配置文件 > 默认值
type ConfigLoader struct {
	configFile string
	envPrefix  string
	viper      *viper.Viper
}

// NewConfigLoader 创建配置加载器
// configFile 为空时在 ./configs 和 . 下查找 config.yaml，找不到则只使用默认值和环境变量
func NewConfigLoader(configFile, envPrefix string) *ConfigLoader {
	if envPrefix == "" {
		envPrefix = "ITASSETS"
	}

	return &ConfigLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
		viper:      viper.New(),
	}
}

// LoadConfig 加载配置
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	cl.viper.SetConfigType("yaml")

	cl.viper.SetEnvPrefix(cl.envPrefix)
	cl.viper.AutomaticEnv()
	cl.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cl.bindEnvVars()
	cl.setDefaults()

	if err := cl.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	var config Config
	if err := cl.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadConfigFile 加载配置文件
// 显式指定的文件必须存在；自动查找时文件缺失不算错误
func (cl *ConfigLoader) loadConfigFile() error {
	if cl.configFile == "" {
		cl.configFile = os.Getenv("ITASSETS_CONFIG_FILE")
	}

	if cl.configFile != "" {
		cl.viper.SetConfigFile(cl.configFile)
		return cl.viper.ReadInConfig()
	}

	cl.viper.AddConfigPath("./configs")
	cl.viper.AddConfigPath(".")
	cl.viper.SetConfigName("config")

	if err := cl.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// bindEnvVars 绑定环境变量
// 兼容旧版 .env 中的变量名 (SQLITE_PATH / ES_*)
func (cl *ConfigLoader) bindEnvVars() {
	// 日志配置
	cl.viper.BindEnv("log.level", "ITASSETS_LOG_LEVEL")
	cl.viper.BindEnv("log.file_path", "ITASSETS_LOG_FILE_PATH")

	// 关系库配置
	cl.viper.BindEnv("database.driver", "ITASSETS_DB_DRIVER")
	cl.viper.BindEnv("database.path", "SQLITE_PATH", "ITASSETS_DATABASE_PATH")
	cl.viper.BindEnv("database.dsn", "ITASSETS_DATABASE_DSN")

	// 搜索引擎配置
	cl.viper.BindEnv("search.endpoint", "ES_ENDPOINT", "ITASSETS_SEARCH_ENDPOINT")
	cl.viper.BindEnv("search.api_key", "ES_API_KEY", "ITASSETS_SEARCH_API_KEY")
	cl.viper.BindEnv("search.index", "ES_INDEX", "ITASSETS_SEARCH_INDEX")
	cl.viper.BindEnv("search.insecure_skip_verify", "ES_INSECURE_SKIP_VERIFY")
}

// setDefaults 设置默认值
func (cl *ConfigLoader) setDefaults() {
	def := Default()

	cl.viper.SetDefault("app.name", def.App.Name)
	cl.viper.SetDefault("app.environment", def.App.Environment)

	cl.viper.SetDefault("log.level", def.Log.Level)
	cl.viper.SetDefault("log.format", def.Log.Format)
	cl.viper.SetDefault("log.output", def.Log.Output)
	cl.viper.SetDefault("log.file_path", def.Log.FilePath)
	cl.viper.SetDefault("log.max_size", def.Log.MaxSize)
	cl.viper.SetDefault("log.max_backups", def.Log.MaxBackups)
	cl.viper.SetDefault("log.max_age", def.Log.MaxAge)
	cl.viper.SetDefault("log.compress", def.Log.Compress)
	cl.viper.SetDefault("log.caller", def.Log.Caller)

	cl.viper.SetDefault("database.driver", def.Database.Driver)
	cl.viper.SetDefault("database.path", def.Database.Path)
	cl.viper.SetDefault("database.dsn", def.Database.DSN)
	cl.viper.SetDefault("database.log_level", def.Database.LogLevel)

	cl.viper.SetDefault("search.endpoint", "")
	cl.viper.SetDefault("search.api_key", "")
	cl.viper.SetDefault("search.index", def.Search.Index)
	cl.viper.SetDefault("search.insecure_skip_verify", def.Search.InsecureSkipVerify)
	cl.viper.SetDefault("search.flush_bytes", def.Search.FlushBytes)
	cl.viper.SetDefault("search.error_sample_size", def.Search.ErrorSampleSize)
	cl.viper.SetDefault("search.index_filter", def.Search.IndexFilter)

	cl.viper.SetDefault("pipeline.input_path", def.Pipeline.InputPath)
	cl.viper.SetDefault("pipeline.skip_clean", def.Pipeline.SkipClean)
}

// GetConfigPath 获取实际使用的配置文件路径
func (cl *ConfigLoader) GetConfigPath() string {
	return cl.viper.ConfigFileUsed()
}

// validateConfig 验证配置
// 搜索配置缺失不在此处报错，由流水线降级处理
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(config.Database.Path) == "" {
			return fmt.Errorf("database path is required for sqlite driver")
		}
	case "mysql":
		if strings.TrimSpace(config.Database.DSN) == "" {
			return fmt.Errorf("database dsn is required for mysql driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, config.Log.Level) {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if strings.TrimSpace(config.Search.Index) == "" {
		return fmt.Errorf("search index name is required")
	}
	return nil
}

// contains 检查切片是否包含指定元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
