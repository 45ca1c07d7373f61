package common

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig  `toml:"logging"`
	Search      SearchConfig   `toml:"search"`
	Crawler     CrawlerConfig  `toml:"crawler"`
	Browser     BrowserConfig  `toml:"browser"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Fallback    FallbackConfig `toml:"fallback"`
	Storage     StorageConfig  `toml:"storage"`
	Email       EmailConfig    `toml:"email"`
	Sources     SourcesConfig  `toml:"sources"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// SearchConfig controls the concurrent dispatcher
type SearchConfig struct {
	MaxWorkers        int    `toml:"max_workers"`         // Worker ceiling for source fan-out
	BrowserMaxWorkers int    `toml:"browser_max_workers"` // Reduced ceiling when browser sources are selected
	ResultLimit       int    `toml:"result_limit"`        // Max records returned from one search
	ExpandTitles      bool   `toml:"expand_titles"`       // Expand base role into related titles via LLM
	Schedule          string `toml:"schedule"`            // Cron schedule for watch mode (empty = disabled)
}

// CrawlerConfig contains settings shared by the HTTP-backed extractors
type CrawlerConfig struct {
	UserAgent       string   `toml:"user_agent"`        // Desktop user agent for scrape requests
	MobileUserAgent string   `toml:"mobile_user_agent"` // Mobile user agent (apna mobile site)
	RequestTimeout  Duration `toml:"request_timeout"`   // HTTP request timeout
	RatePerSecond   float64  `toml:"rate_per_second"`   // Per-host request rate
	RateBurst       int      `toml:"rate_burst"`        // Per-host burst allowance
}

// BrowserConfig contains chromedp settings for rendered-page extractors
type BrowserConfig struct {
	Headless     bool     `toml:"headless"`
	NoSandbox    bool     `toml:"no_sandbox"`
	NavigateWait Duration `toml:"navigate_wait"` // Overall navigation timeout
	SettleDelay  Duration `toml:"settle_delay"`  // Fixed delay after load for JS rendering
	WindowWidth  int      `toml:"window_width"`
	WindowHeight int      `toml:"window_height"`
}

// GeminiConfig contains Google Gemini API settings
type GeminiConfig struct {
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`       // Default model for unconstrained calls
	Models      []string `toml:"models"`      // Ordered fallback list rotated on quota exhaustion
	Temperature float32  `toml:"temperature"`
}

// ClaudeConfig contains Anthropic Claude API settings
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "gemini" or "claude"
}

// FallbackConfig controls synthetic listing generation
type FallbackConfig struct {
	Enabled bool `toml:"enabled"`
	Count   int  `toml:"count"` // Synthetic listings requested when all sources are empty
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// EmailConfig contains IMAP settings for the job-alert email extractor
type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Server   string `toml:"server"` // host:port, implicit TLS
	Username string `toml:"username"`
	Password string `toml:"password"`
	Folder   string `toml:"folder"`
	Sender   string `toml:"sender"` // Alert sender filter, e.g. jobalerts-noreply@linkedin.com
	MaxAge   int    `toml:"max_age_days"`
}

// SourcesConfig points at the YAML source catalog (career-site companies etc.)
type SourcesConfig struct {
	CatalogPath string `toml:"catalog_path"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Search: SearchConfig{
			MaxWorkers:        4,
			BrowserMaxWorkers: 2,
			ResultLimit:       40,
			ExpandTitles:      false,
		},
		Crawler: CrawlerConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			MobileUserAgent: "Mozilla/5.0 (Linux; Android 13; SM-S901B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
			RequestTimeout:  Duration(12 * time.Second),
			RatePerSecond:   2,
			RateBurst:       4,
		},
		Browser: BrowserConfig{
			Headless:     true,
			NoSandbox:    true,
			NavigateWait: Duration(15 * time.Second),
			SettleDelay:  Duration(2 * time.Second),
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
			Models: []string{
				"gemini-2.0-flash-lite",
				"gemini-2.5-flash-lite",
				"gemini-2.0-flash",
			},
			Temperature: 0,
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4096,
			Temperature: 0,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
		},
		Fallback: FallbackConfig{
			Enabled: true,
			Count:   8,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/reperio",
			},
		},
		Email: EmailConfig{
			Folder: "INBOX",
			Sender: "jobalerts-noreply@linkedin.com",
			MaxAge: 7,
		},
		Sources: SourcesConfig{
			CatalogPath: "./sources.yaml",
		},
	}
}

// LoadFromFile loads configuration from a TOML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple TOML files.
// Later files override earlier ones; missing files are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies REPERIO_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("REPERIO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("REPERIO_GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Gemini.APIKey == "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("REPERIO_ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("REPERIO_EMAIL_PASSWORD"); v != "" {
		config.Email.Password = v
	}
	if v := os.Getenv("REPERIO_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Search.MaxWorkers < 1 {
		return fmt.Errorf("search.max_workers must be at least 1, got %d", c.Search.MaxWorkers)
	}
	if c.Search.BrowserMaxWorkers < 1 {
		return fmt.Errorf("search.browser_max_workers must be at least 1, got %d", c.Search.BrowserMaxWorkers)
	}
	if c.Search.BrowserMaxWorkers > c.Search.MaxWorkers {
		c.Search.BrowserMaxWorkers = c.Search.MaxWorkers
	}
	if c.Search.Schedule != "" {
		if err := ValidateSchedule(c.Search.Schedule); err != nil {
			return fmt.Errorf("invalid search.schedule: %w", err)
		}
	}
	if c.LLM.DefaultProvider != "gemini" && c.LLM.DefaultProvider != "claude" {
		return fmt.Errorf("llm.default_provider must be 'gemini' or 'claude', got %q", c.LLM.DefaultProvider)
	}
	if len(c.Gemini.Models) == 0 {
		c.Gemini.Models = []string{c.Gemini.Model}
	}
	return nil
}

// ValidateSchedule validates a cron schedule expression (standard 5-field format)
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
