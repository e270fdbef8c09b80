package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration. Environment
// variables are consulted here, once, at startup; everything downstream
// receives explicit structs.
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Selection     SelectionConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ProvidersConfig holds LLM provider configurations
type ProvidersConfig struct {
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Ollama    OllamaConfig
	ClaudeCLI ClaudeCLIConfig
}

// OpenAIConfig holds OpenAI provider configuration
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic provider configuration
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OllamaConfig holds local ollama provider configuration
type OllamaConfig struct {
	BaseURL      string
	Model        string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// ClaudeCLIConfig holds the subprocess provider configuration
type ClaudeCLIConfig struct {
	Binary      string
	ProjectPath string
	Timeout     time.Duration
}

// SelectionConfig holds provider selection configuration
type SelectionConfig struct {
	// DefaultPolicy is used when a request names no policy
	DefaultPolicy string

	// RequestTimeout is the bounded wait around one completion call
	RequestTimeout time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present; real env always wins
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 330*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   getEnv("OPENAI_MODEL", "gpt-4"),
				Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
			},
			Anthropic: AnthropicConfig{
				APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
				BaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
				Model:   getEnv("ANTHROPIC_MODEL", "claude-3-sonnet-20240229"),
				Timeout: getEnvAsDuration("ANTHROPIC_TIMEOUT", 60*time.Second),
			},
			Ollama: OllamaConfig{
				BaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:        getEnv("OLLAMA_MODEL", "llama2"),
				Timeout:      getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
				ProbeTimeout: getEnvAsDuration("OLLAMA_PROBE_TIMEOUT", 3*time.Second),
			},
			ClaudeCLI: ClaudeCLIConfig{
				Binary:      getEnv("CLAUDE_CLI_BINARY", "claude"),
				ProjectPath: getEnv("CLAUDE_CLI_PROJECT_PATH", ""),
				Timeout:     getEnvAsDuration("CLAUDE_CLI_TIMEOUT", 300*time.Second),
			},
		},
		Selection: SelectionConfig{
			DefaultPolicy:  getEnv("SELECTION_POLICY", "best_available"),
			RequestTimeout: getEnvAsDuration("SELECTION_REQUEST_TIMEOUT", 120*time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Selection.DefaultPolicy {
	case "best_available", "fastest", "free":
	default:
		return fmt.Errorf("unknown selection policy: %s", c.Selection.DefaultPolicy)
	}

	if c.Selection.RequestTimeout <= 0 {
		return fmt.Errorf("selection request timeout must be positive")
	}

	if c.Providers.ClaudeCLI.Binary == "" {
		return fmt.Errorf("claude CLI binary name is required")
	}
	if c.Providers.ClaudeCLI.Timeout <= 0 {
		return fmt.Errorf("claude CLI timeout must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// getEnv reads an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration reads an environment variable as a duration
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
