package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/kelseyhightower/envconfig"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Auth   AuthConfig
	Chat   ChatConfig
	AI     AIConfig
	Call   CallConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	cfg := Config{Server: server}
	sections := []struct {
		name   string
		target any
	}{
		{"log", &cfg.Log},
		{"auth", &cfg.Auth},
		{"chat", &cfg.Chat},
		{"call", &cfg.Call},
	}
	for _, section := range sections {
		if err := envconfig.Process("", section.target); err != nil {
			return nil, fmt.Errorf("load %s config: %w", section.name, err)
		}
	}

	if err := cfg.Chat.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Log.validate(); err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}
	cfg.AI = ai

	return &cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig 控制 zap 日志级别与格式。
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

func (c LogConfig) validate() error {
	switch c.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("invalid LOG_FORMAT value %q: want json or console", c.Format)
	}
}

// AuthConfig 描述登录 token 配置。
type AuthConfig struct {
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET" default:"telemed-dev-secret"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
}

// Responder names the chat reply backend.
const (
	ResponderRules = "rules"
	ResponderArk   = "ark"
)

// ChatConfig 描述聊天会话行为。
type ChatConfig struct {
	ReplyDelay  time.Duration `envconfig:"CHAT_REPLY_DELAY" default:"1500ms"`
	RuleSet     string        `envconfig:"CHAT_RULESET" default:"clinic"`
	Responder   string        `envconfig:"CHAT_RESPONDER" default:"rules"`
	EventBuffer int           `envconfig:"CHAT_EVENT_BUFFER" default:"16"`
}

func (c ChatConfig) validate() error {
	if c.ReplyDelay < 0 {
		return fmt.Errorf("invalid CHAT_REPLY_DELAY value %s: must not be negative", c.ReplyDelay)
	}
	if c.Responder != ResponderRules && c.Responder != ResponderArk {
		return fmt.Errorf("invalid CHAT_RESPONDER value %q: want rules or ark", c.Responder)
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("invalid CHAT_EVENT_BUFFER value %d: must be positive", c.EventBuffer)
	}
	return nil
}

// CallConfig 描述视频问诊模拟参数。
type CallConfig struct {
	ConnectDelay time.Duration `envconfig:"CALL_CONNECT_DELAY" default:"2s"`
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	MaxRetries  int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	retries := 2
	if override, err := parseOptionalIntEnv("ARK_MAX_RETRIES"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		retries = max(*override, 0)
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
		MaxRetries:  retries,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
