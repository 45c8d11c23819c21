package application

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// LLM provider settings
	LLMProvider  string `json:"llm_provider"`
	GeminiAPIKey string `json:"-"` // Don't expose in JSON
	GeminiModel  string `json:"gemini_model"`
	GrokAPIKey   string `json:"-"` // Don't expose in JSON
	GrokModel    string `json:"grok_model"`

	// Crawl settings
	CrawlMaxPages  int `json:"crawl_max_pages"`
	CrawlMaxTokens int `json:"crawl_max_tokens"`

	// Report settings
	ReportDir      string `json:"report_dir"`
	ReportBucket   string `json:"report_bucket"`
	ReportTTLHours int    `json:"report_ttl_hours"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		LLMProvider:    getEnvOrDefault("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GrokAPIKey:     getEnvOrDefault("GROK_API_KEY", ""),
		GrokModel:      getEnvOrDefault("GROK_MODEL", "grok-2-latest"),
		CrawlMaxPages:  getEnvOrDefaultInt("CRAWL_MAX_PAGES", 8),
		CrawlMaxTokens: getEnvOrDefaultInt("CRAWL_MAX_TOKENS", 6000),
		ReportDir:      getEnvOrDefault("REPORT_DIR", "reports"),
		ReportBucket:   getEnvOrDefault("REPORT_BUCKET", ""),
		ReportTTLHours: getEnvOrDefaultInt("REPORT_TTL_HOURS", 24),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present. The
// provider credential is deliberately not required here: a missing key
// surfaces per-request as a fallback summary with setup guidance.
func (c *Config) validate() error {
	if c.LLMProvider != "gemini" && c.LLMProvider != "grok" {
		return &ConfigError{Field: "LLM_PROVIDER", Message: "must be gemini or grok"}
	}
	if c.ReportDir == "" {
		return &ConfigError{Field: "REPORT_DIR", Message: "report directory is required"}
	}
	if c.CrawlMaxPages <= 0 {
		return &ConfigError{Field: "CRAWL_MAX_PAGES", Message: "must be positive"}
	}
	if c.CrawlMaxTokens <= 0 {
		return &ConfigError{Field: "CRAWL_MAX_TOKENS", Message: "must be positive"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
