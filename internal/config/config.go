package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Redis    RedisConfig    `mapstructure:"redis"`    // Redis响应缓存配置
	Harvest  HarvestConfig  `mapstructure:"harvest"`  // 采集任务配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// RedisConfig Redis响应缓存配置（addr为空则不启用缓存）
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`     // Redis地址
	Password string        `mapstructure:"password"` // Redis密码
	DB       int           `mapstructure:"db"`       // Redis库编号
	TTL      time.Duration `mapstructure:"ttl"`      // 缓存过期时间
}

// HarvestConfig 套餐采集任务配置
type HarvestConfig struct {
	InitialURL string        `mapstructure:"initial_url"` // 上游分页接口起始地址
	BatchSize  int           `mapstructure:"batch_size"`  // 批量提交阈值（默认100条）
	PageDelay  time.Duration `mapstructure:"page_delay"`  // 翻页间隔（默认2秒，尊重上游限流）
	Timeout    int           `mapstructure:"timeout"`     // 单次请求超时（秒）
	Proxy      string        `mapstructure:"proxy"`       // 代理地址
	Cron       string        `mapstructure:"cron"`        // 定时采集Cron表达式（为空则不启用定时）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("HARVEST_INITIAL_URL"); v != "" {
		cfg.Harvest.InitialURL = v
	}
	if v := os.Getenv("HARVEST_PROXY"); v != "" {
		cfg.Harvest.Proxy = v
	}
}
