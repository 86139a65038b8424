package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"RegulatoryDigest/internal/dates"
)

const (
	defaultTimezone    = "UTC"
	defaultWindowDays  = 90
	defaultTemperature = 0.2
	configPathEnv      = "REGDIGEST_CONFIG"
	windowDaysEnv      = "REGDIGEST_WINDOW_DAYS"
	logLevelEnv        = "LOG_LEVEL"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv     = "OPENAI_MODEL"
	openAIBaseURLEnv   = "OPENAI_BASE_URL"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Window        WindowConfig       `yaml:"window"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	HTTP          HTTPConfig         `yaml:"http"`
	Browser       BrowserConfig      `yaml:"browser"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	Report        ReportConfig       `yaml:"report"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// WindowConfig defines how far back documents are considered current.
type WindowConfig struct {
	Days int `yaml:"days"`
}

// SchedulerConfig defines when the serve command runs the pipeline.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// HTTPConfig is shared by listing and PDF downloads.
type HTTPConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// BrowserConfig drives the headless session used for rendered listings.
type BrowserConfig struct {
	ExecPath       string        `yaml:"execPath"`
	Headful        bool          `yaml:"headful"`
	ScrollAttempts int           `yaml:"scrollAttempts"`
	ScrollWait     time.Duration `yaml:"scrollWait"`
	RenderTimeout  time.Duration `yaml:"renderTimeout"`
}

// FetcherConfig controls where downloaded PDFs are staged.
type FetcherConfig struct {
	TempDir string `yaml:"tempDir"`
}

// OpenAIConfig defines how to contact the text-generation service.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	// Temperature is nil when unset so an explicit 0 survives merging.
	Temperature *float64 `yaml:"temperature"`
}

// ReportConfig selects the output format and destination ("" or "-" is stdout).
type ReportConfig struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// SourceConfig binds a display name to a listing adapter.
type SourceConfig struct {
	Name       string `yaml:"name"`
	Adapter    string `yaml:"adapter"`
	ListingURL string `yaml:"listingUrl"`
	BaseURL    string `yaml:"baseUrl"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to REGDIGEST_CONFIG.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Cutoff is the earliest publication date kept by a run started at now.
func (c Config) Cutoff(now time.Time) time.Time {
	days := c.Window.Days
	if days <= 0 {
		days = defaultWindowDays
	}
	return dates.Day(now.In(c.Scheduler.Location()).AddDate(0, 0, -days))
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(windowDaysEnv); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			c.Window.Days = days
		} else {
			log.Printf("config: ignoring invalid %s=%q", windowDaysEnv, v)
		}
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(openAIBaseURLEnv); v != "" {
		c.OpenAI.BaseURL = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Window.Days > 0 {
		base.Window.Days = override.Window.Days
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}

	if override.Browser.ExecPath != "" {
		base.Browser.ExecPath = override.Browser.ExecPath
	}
	if override.Browser.Headful {
		base.Browser.Headful = true
	}
	if override.Browser.ScrollAttempts > 0 {
		base.Browser.ScrollAttempts = override.Browser.ScrollAttempts
	}
	if override.Browser.ScrollWait > 0 {
		base.Browser.ScrollWait = override.Browser.ScrollWait
	}
	if override.Browser.RenderTimeout > 0 {
		base.Browser.RenderTimeout = override.Browser.RenderTimeout
	}

	if override.Fetcher.TempDir != "" {
		base.Fetcher.TempDir = override.Fetcher.TempDir
	}

	if override.OpenAI.BaseURL != "" {
		base.OpenAI.BaseURL = override.OpenAI.BaseURL
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.Temperature != nil {
		t := *override.OpenAI.Temperature
		base.OpenAI.Temperature = &t
	}

	if override.Report.Format != "" {
		base.Report.Format = override.Report.Format
	}
	if override.Report.Output != "" {
		base.Report.Output = override.Report.Output
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Window:    WindowConfig{Days: defaultWindowDays},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		HTTP:      HTTPConfig{Timeout: 30 * time.Second},
		Browser: BrowserConfig{
			ScrollAttempts: 5,
			ScrollWait:     2 * time.Second,
			RenderTimeout:  2 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4.1-nano",
			Temperature: float64Ptr(defaultTemperature),
		},
		Report: ReportConfig{Format: "markdown"},
		Sources: []SourceConfig{
			{
				Name:       "DPIIT",
				Adapter:    "dpiit",
				ListingURL: "https://dpiit.gov.in/policies-rules-and-acts/notifications",
				BaseURL:    "https://dpiit.gov.in",
			},
			{
				Name:       "Power Ministry",
				Adapter:    "powermin",
				ListingURL: "https://powermin.gov.in/en/circular?field_division_value=Act+%26+Notifications&field_date_value%5Bvalue%5D%5Bdate%5D=&title=",
				BaseURL:    "https://powermin.gov.in",
			},
			{
				Name:       "RBI",
				Adapter:    "rbi",
				ListingURL: "https://website.rbi.org.in/web/rbi/notifications?delta=100",
				BaseURL:    "https://website.rbi.org.in",
			},
			{
				Name:       "Commerce",
				Adapter:    "commerce",
				ListingURL: "https://commerce.gov.in/acts-and-schemes/",
				BaseURL:    "https://commerce.gov.in",
			},
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
