// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Retry         RetryConfig         `mapstructure:"retry"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	News          NewsConfig          `mapstructure:"news"`
	Alerts        AlertsConfig        `mapstructure:"alerts"`
	Progress      ProgressConfig      `mapstructure:"progress"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MockMode    bool   `mapstructure:"mock_mode"`
	DemoMode    bool   `mapstructure:"demo_mode"`
}

// IsDevelopment reports whether error envelopes may carry internal detail.
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "" || a.Environment == "development"
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LLMConfig selects and configures the structured-output provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | anthropic
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// RetryConfig is the provider retry contract.
type RetryConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
	BaseWait    int `mapstructure:"base_wait"` // milliseconds
	MaxWait     int `mapstructure:"max_wait"`  // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Schema         string `mapstructure:"schema"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Enabled reports whether a database has been configured at all.
func (p PostgresConfig) Enabled() bool {
	return p.URL != "" || p.Host != ""
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// Enabled reports whether the news search index is configured.
func (e ElasticsearchConfig) Enabled() bool {
	return len(e.Addresses) > 0
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig configures the demo response cache backend.
type CacheConfig struct {
	Backend   string `mapstructure:"backend"` // memory | redis
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NewsConfig holds settings for the news search collaborator.
type NewsConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Days        int    `mapstructure:"days"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	StoreLimit  int    `mapstructure:"store_limit"`
	DefaultSize int    `mapstructure:"default_limit"`
}

// AlertsConfig enables high-priority news notifications.
type AlertsConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Region      string   `mapstructure:"region"`
	SNSTopicARN string   `mapstructure:"sns_topic_arn"`
	SESFrom     string   `mapstructure:"ses_from"`
	SESTo       []string `mapstructure:"ses_to"`
}

// ProgressConfig holds the inter-step delays of the progress channel.
type ProgressConfig struct {
	DemoDelay    int `mapstructure:"demo_delay"`    // milliseconds
	AnalyzeDelay int `mapstructure:"analyze_delay"` // milliseconds
	PlanDelay    int `mapstructure:"plan_delay"`    // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ObservabilityConfig struct {
	ServiceName string `mapstructure:"service_name"`
}

// RetryWaits returns the base and max waits as durations.
func (r RetryConfig) RetryWaits() (time.Duration, time.Duration) {
	return GetDuration(r.BaseWait), GetDuration(r.MaxWait)
}
