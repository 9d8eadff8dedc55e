package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		Host            string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"150s"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"gemini"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"base_url"`
		MaxTokens   int           `yaml:"max_tokens" default:"8192"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
		// CheckOnStart sends a probe request when the server boots
		CheckOnStart bool `yaml:"check_on_start" default:"false"`
	} `yaml:"llm"`

	Extraction struct {
		MaxFileSize int64 `yaml:"max_file_size" default:"10485760"` // bytes
		MaxTextSize int   `yaml:"max_text_size" default:"200000"`   // characters of pasted text
	} `yaml:"extraction"`

	RateLimit struct {
		Enabled           bool          `yaml:"enabled" default:"true"`
		RequestsPerMinute int           `yaml:"requests_per_minute" default:"20"`
		Burst             int           `yaml:"burst" default:"5"`
		Backend           string        `yaml:"backend" default:"memory"` // memory or redis
		CleanupInterval   time.Duration `yaml:"cleanup_interval" default:"5m"`
		MaxIdle           time.Duration `yaml:"max_idle" default:"15m"`
	} `yaml:"rate_limit"`

	Redis struct {
		URL       string        `yaml:"url" default:"redis://localhost:6379"`
		Password  string        `yaml:"password"`
		DB        int           `yaml:"db" default:"0"`
		Timeout   time.Duration `yaml:"timeout" default:"5s"`
		KeyPrefix string        `yaml:"key_prefix" default:"resume-parser:ratelimit:"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Web struct {
		Enabled      bool `yaml:"enabled" default:"true"`
		PreviewChars int  `yaml:"preview_chars" default:"1000"`
	} `yaml:"web"`
}

// Default models per provider when none is configured
var defaultModels = map[string]string{
	"gemini": "gemini-2.5-flash",
	"claude": "claude-3-7-sonnet-latest",
}

// DefaultModel returns the model used for a provider when llm.model is empty
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 150 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.ShutdownTimeout = 30 * time.Second
	config.Server.AllowedOrigins = []string{"*"}

	config.LLM.Provider = "gemini"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 120 * time.Second

	config.Extraction.MaxFileSize = 10 << 20
	config.Extraction.MaxTextSize = 200000

	config.RateLimit.Enabled = true
	config.RateLimit.RequestsPerMinute = 20
	config.RateLimit.Burst = 5
	config.RateLimit.Backend = "memory"
	config.RateLimit.CleanupInterval = 5 * time.Minute
	config.RateLimit.MaxIdle = 15 * time.Minute

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.KeyPrefix = "resume-parser:ratelimit:"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Web.Enabled = true
	config.Web.PreviewChars = 1000

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()
	config.dropUnexpanded()

	if config.LLM.Model == "" {
		config.LLM.Model = DefaultModel(config.LLM.Provider)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "claude", "gemini":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.Extraction.MaxFileSize <= 0 {
		return fmt.Errorf("extraction max_file_size must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit requests_per_minute must be positive")
		}
		switch c.RateLimit.Backend {
		case "memory", "redis":
		default:
			return fmt.Errorf("unsupported rate limit backend: %s", c.RateLimit.Backend)
		}
	}
	return nil
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))

	// Provider specific keys first, LLM_API_KEY wins when both are set
	switch c.LLM.Provider {
	case "gemini":
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			c.LLM.APIKey = apiKey
		}
	case "claude":
		if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
			c.LLM.APIKey = apiKey
		}
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		c.LLM.BaseURL = baseURL
	}

	if timeout := os.Getenv("LLM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.LLM.Timeout = d
		}
	}

	if maxTokens := os.Getenv("LLM_MAX_TOKENS"); maxTokens != "" {
		if n, err := strconv.Atoi(maxTokens); err == nil {
			c.LLM.MaxTokens = n
		}
	}

	if maxFileSize := os.Getenv("MAX_FILE_SIZE"); maxFileSize != "" {
		if n, err := strconv.ParseInt(maxFileSize, 10, 64); err == nil {
			c.Extraction.MaxFileSize = n
		}
	}

	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			c.RateLimit.Burst = n
		}
	}

	if backend := os.Getenv("RATE_LIMIT_BACKEND"); backend != "" {
		c.RateLimit.Backend = strings.ToLower(backend)
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if webEnabled := os.Getenv("WEB_ENABLED"); webEnabled != "" {
		c.Web.Enabled = webEnabled == "true" || webEnabled == "1"
	}
}

// dropUnexpanded clears values whose ${VAR} placeholder had no matching
// environment variable
func (c *Config) dropUnexpanded() {
	if isPlaceholder(c.LLM.APIKey) {
		c.LLM.APIKey = ""
	}
	if isPlaceholder(c.LLM.BaseURL) {
		c.LLM.BaseURL = ""
	}
	if isPlaceholder(c.Redis.URL) {
		c.Redis.URL = "redis://localhost:6379"
	}
	if isPlaceholder(c.Redis.Password) {
		c.Redis.Password = ""
	}
}

func isPlaceholder(s string) bool {
	return strings.HasPrefix(s, "$")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
