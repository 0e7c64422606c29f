package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"order-extractor/internal/llm"
	"order-extractor/internal/pipeline"
	"order-extractor/internal/retailers"
)

// Config is the full extraction pipeline configuration
type Config struct {
	DebugMode  bool             `mapstructure:"debug_mode"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Weights    WeightsConfig    `mapstructure:"weights"`
	LLM        LLMConfig        `mapstructure:"llm"`
}

// ThresholdsConfig tunes the hybrid routing constants
type ThresholdsConfig struct {
	High float64 `mapstructure:"high"`
	Low  float64 `mapstructure:"low"`
}

// WeightsConfig tunes the per-field confidence weights; they must sum to 1.0
type WeightsConfig struct {
	OrderNumber float64 `mapstructure:"order_number"`
	Amount      float64 `mapstructure:"amount"`
	Delivery    float64 `mapstructure:"delivery"`
	Tracking    float64 `mapstructure:"tracking"`
	Status      float64 `mapstructure:"status"`
}

// LLMConfig selects and tunes the backend
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ChunkSize   int           `mapstructure:"chunk_size"`
	Concurrency int           `mapstructure:"concurrency"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Enabled     bool          `mapstructure:"enabled"`
}

// LLM provider names
const (
	LLMProviderOpenAI   = "openai"
	LLMProviderOllama   = "ollama"
	LLMProviderDisabled = "disabled"
)

// LoadWithViper loads configuration using Viper: defaults, then an optional
// config file, then ORDER_EXTRACTOR_* environment variables
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	setupEnvBinding(v)

	if err := loadConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setProviderDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load loads configuration with a fresh Viper instance
func Load() (*Config, error) {
	return LoadWithViper(viper.New())
}

// setDefaults sets default values for all configuration keys
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug_mode", false)

	// Routing thresholds
	v.SetDefault("thresholds.high", 0.8)
	v.SetDefault("thresholds.low", 0.7)

	// Field confidence weights
	v.SetDefault("weights.order_number", 0.4)
	v.SetDefault("weights.amount", 0.3)
	v.SetDefault("weights.delivery", 0.1)
	v.SetDefault("weights.tracking", 0.1)
	v.SetDefault("weights.status", 0.1)

	// LLM defaults
	v.SetDefault("llm.provider", LLMProviderDisabled)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.chunk_size", 0) // 0 = backend default
	v.SetDefault("llm.concurrency", 0)
	v.SetDefault("llm.base_delay", "1s")
	v.SetDefault("llm.max_delay", "30s")
	v.SetDefault("llm.enabled", false)
}

// setupEnvBinding sets up environment variable binding
func setupEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix("ORDER_EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfigFile reads the optional config file. A missing file is fine;
// a malformed one is not.
func loadConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() != "" {
		return v.ReadInConfig()
	}

	v.SetConfigName("order-extractor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.order-extractor")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

// setProviderDefaults fills in model names based on the selected provider
func (c *Config) setProviderDefaults() {
	if c.LLM.Model != "" {
		return
	}
	switch strings.ToLower(c.LLM.Provider) {
	case LLMProviderOpenAI:
		c.LLM.Model = "gpt-4o-mini"
	case LLMProviderOllama:
		c.LLM.Model = "llama3.2"
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	if c.Thresholds.High <= 0 || c.Thresholds.High > 1 {
		return fmt.Errorf("thresholds.high must be in (0,1], got %v", c.Thresholds.High)
	}
	if c.Thresholds.Low <= 0 || c.Thresholds.Low > 1 {
		return fmt.Errorf("thresholds.low must be in (0,1], got %v", c.Thresholds.Low)
	}
	if c.Thresholds.Low > c.Thresholds.High {
		return fmt.Errorf("thresholds.low (%v) must not exceed thresholds.high (%v)", c.Thresholds.Low, c.Thresholds.High)
	}

	sum := c.Weights.OrderNumber + c.Weights.Amount + c.Weights.Delivery + c.Weights.Tracking + c.Weights.Status
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("field weights must sum to 1.0, got %v", sum)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case LLMProviderOpenAI, LLMProviderOllama, LLMProviderDisabled:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Enabled {
		if strings.ToLower(c.LLM.Provider) == LLMProviderDisabled {
			return fmt.Errorf("llm.enabled is true but llm.provider is disabled")
		}
		if strings.ToLower(c.LLM.Provider) == LLMProviderOpenAI && c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for the openai provider")
		}
		if strings.ToLower(c.LLM.Provider) == LLMProviderOllama && c.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required for the ollama provider")
		}
	}

	return nil
}

// ToThresholds converts to the pipeline's routing constants
func (c *Config) ToThresholds() pipeline.Thresholds {
	return pipeline.Thresholds{High: c.Thresholds.High, Low: c.Thresholds.Low}
}

// ToWeights converts to the extractor weight table
func (c *Config) ToWeights() retailers.Weights {
	return retailers.Weights{
		OrderNumber: c.Weights.OrderNumber,
		Amount:      c.Weights.Amount,
		Delivery:    c.Weights.Delivery,
		Tracking:    c.Weights.Tracking,
		Status:      c.Weights.Status,
	}
}

// ToLLMConfig converts to the backend adapter configuration
func (c *Config) ToLLMConfig() *llm.Config {
	return &llm.Config{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		APIKey:      c.LLM.APIKey,
		Endpoint:    c.LLM.Endpoint,
		MaxTokens:   c.LLM.MaxTokens,
		Temperature: c.LLM.Temperature,
		Timeout:     c.LLM.Timeout,
		ChunkSize:   c.LLM.ChunkSize,
		Concurrency: c.LLM.Concurrency,
		BaseDelay:   c.LLM.BaseDelay,
		MaxDelay:    c.LLM.MaxDelay,
		Enabled:     c.LLM.Enabled,
	}
}
