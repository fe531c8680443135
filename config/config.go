package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

//go:embed config.default.yaml
var embeddedConfig []byte

var config *Config

type LogConfig struct {
	Mode     string `yaml:"mode"`     // console, file, volume
	Level    string `yaml:"level"`    // debug, info, error, severe
	Encoding string `yaml:"encoding"` // json, plain
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // 为空时不记录调用日志
	DB  string `yaml:"db"`
}

// AdminConfig 管理接口，令牌从环境变量读取，未设置时不开放管理接口
type AdminConfig struct {
	TokenEnv string `yaml:"token_env"`
}

// CallLogConfig 调用日志异步写入
type CallLogConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // 为空时限流计数使用进程内存储
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// UpstreamConfig DeepSeek 接口配置
type UpstreamConfig struct {
	BaseURL   string  `yaml:"base_url"`
	Model     string  `yaml:"model"`
	APIKeyEnv string  `yaml:"api_key_env"` // 存放 API Key 的环境变量名
	Timeout   int     `yaml:"timeout"`     // 单次调用超时（毫秒），0 表示不限制
	MaxRPS    float64 `yaml:"max_rps"`     // 出站调用速率，0 表示不限制
	Burst     int     `yaml:"burst"`
}

type GenerationConfig struct {
	DefaultNameCount          int `yaml:"default_name_count"`
	MaxNameCount              int `yaml:"max_name_count"`
	SplitMinCount             int `yaml:"split_min_count"` // 男女都要且数量达到该值时拆成两次调用
	MaxExplanationRunes       int `yaml:"max_explanation_runes"`
	CustomExpectationMaxRunes int `yaml:"custom_expectation_max_runes"`
}

// RateLimitConfig 限流配置，policy 只能二选一：sliding 或 daily
type RateLimitConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Policy           string `yaml:"policy"`
	WindowSeconds    int    `yaml:"window_seconds"`
	MaxRequests      int    `yaml:"max_requests"`
	DailyMaxRequests int    `yaml:"daily_max_requests"`
	KeyPrefix        string `yaml:"key_prefix"`
}

type Config struct {
	Port       int              `yaml:"port"`
	BasePath   string           `yaml:"base_path"`
	Log        LogConfig        `yaml:"log"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Generation GenerationConfig `yaml:"generation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Redis      RedisConfig      `yaml:"redis"`
	Database   DatabaseConfig   `yaml:"database"`
	CallLog    CallLogConfig    `yaml:"call_log"`
	Admin      AdminConfig      `yaml:"admin"`
}

const (
	PolicySliding = "sliding"
	PolicyDaily   = "daily"
)

func NewConfig() (*Config, error) {
	configData := embeddedConfig

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		configData = data
	}

	c, err := Parse(configData)
	if err != nil {
		return nil, err
	}

	config = c
	return c, nil
}

// Parse 解析配置内容并补全默认值
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Port: 8080,
		Log: LogConfig{
			Mode:     "console",
			Level:    "info",
			Encoding: "json",
		},
		Upstream: UpstreamConfig{
			BaseURL:   "https://api.deepseek.com/v1",
			Model:     "deepseek-chat",
			APIKeyEnv: "DEEPSEEK_API_KEY",
			Timeout:   120000,
		},
		Generation: GenerationConfig{
			DefaultNameCount:          5,
			MaxNameCount:              10,
			SplitMinCount:             5,
			MaxExplanationRunes:       120,
			CustomExpectationMaxRunes: 100,
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			Policy:           PolicySliding,
			WindowSeconds:    60,
			MaxRequests:      5,
			DailyMaxRequests: 20,
			KeyPrefix:        "rate_limit",
		},
		Database: DatabaseConfig{
			DB: "baby_names",
		},
		CallLog: CallLogConfig{
			Workers:   2,
			QueueSize: 1000,
		},
		Admin: AdminConfig{
			TokenEnv: "ADMIN_TOKEN",
		},
	}
}

func (c *Config) Validate() error {
	switch c.RateLimit.Policy {
	case PolicySliding:
		if c.RateLimit.WindowSeconds <= 0 || c.RateLimit.MaxRequests <= 0 {
			return fmt.Errorf("sliding rate limit needs positive window_seconds and max_requests")
		}
	case PolicyDaily:
		if c.RateLimit.DailyMaxRequests <= 0 {
			return fmt.Errorf("daily rate limit needs positive daily_max_requests")
		}
	default:
		return fmt.Errorf("unknown rate limit policy %q", c.RateLimit.Policy)
	}

	if c.Generation.MaxNameCount <= 0 {
		return fmt.Errorf("generation.max_name_count must be positive")
	}
	if c.Generation.DefaultNameCount <= 0 || c.Generation.DefaultNameCount > c.Generation.MaxNameCount {
		return fmt.Errorf("generation.default_name_count must be within 1..%d", c.Generation.MaxNameCount)
	}
	if c.Upstream.APIKeyEnv == "" {
		return fmt.Errorf("upstream.api_key_env is required")
	}
	return nil
}

// RequestTimeout 单次上游调用超时，0 表示不限制
func (u UpstreamConfig) RequestTimeout() time.Duration {
	return time.Duration(u.Timeout) * time.Millisecond
}

// Window 滑动窗口长度
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

func GetConfig() *Config {
	return config
}
