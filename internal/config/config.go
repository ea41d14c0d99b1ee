// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all pipeline configuration knobs loaded via Viper.
type Config struct {
	Search   SearchConfig   `mapstructure:"search"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Outreach OutreachConfig `mapstructure:"outreach"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Places   PlacesConfig   `mapstructure:"places"`
	Mail     MailConfig     `mapstructure:"mail"`
	Output   OutputConfig   `mapstructure:"output"`
	DB       DBConfig       `mapstructure:"db"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SearchConfig defines the geographic search window.
type SearchConfig struct {
	Lat          float64 `mapstructure:"lat"`
	Lng          float64 `mapstructure:"lng"`
	RadiusMeters int     `mapstructure:"radius_meters"`
	Keyword      string  `mapstructure:"keyword"`
	PlaceType    string  `mapstructure:"place_type"`
}

// FilterConfig holds the low-presence thresholds.
type FilterConfig struct {
	MaxReviews     int  `mapstructure:"max_reviews"`
	MaxPhotos      int  `mapstructure:"max_photos"`
	RequireWebsite bool `mapstructure:"require_website"`
}

// OutreachConfig governs the send loop.
type OutreachConfig struct {
	DailyCap  int           `mapstructure:"daily_cap"`
	SendDelay time.Duration `mapstructure:"send_delay"`
	FromEmail string        `mapstructure:"from_email"`
	FromName  string        `mapstructure:"from_name"`
}

// HTTPConfig bounds outbound page fetches.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// PlacesConfig holds places API credentials.
type PlacesConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// MailConfig selects and configures the email provider.
type MailConfig struct {
	Provider     string `mapstructure:"provider"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
}

// OutputConfig sets where exports and the state file live.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// DBConfig controls the optional Postgres lead store. Empty DSN disables it.
type DBConfig struct {
	DSN        string `mapstructure:"dsn"`
	LeadsTable string `mapstructure:"leads_table"`
}

// ServerConfig controls the read-only HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key without a default must be bound by hand or its env var is ignored.
	for _, key := range []string{
		"places.api_key",
		"outreach.from_email",
		"mail.resend_api_key",
		"mail.smtp_host",
		"mail.smtp_user",
		"mail.smtp_password",
		"db.dsn",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.lat", 34.0522)
	v.SetDefault("search.lng", -118.2437)
	v.SetDefault("search.radius_meters", 10000)
	v.SetDefault("search.keyword", "restaurant")
	v.SetDefault("search.place_type", "restaurant")
	v.SetDefault("filter.max_reviews", 15)
	v.SetDefault("filter.max_photos", 6)
	v.SetDefault("filter.require_website", true)
	v.SetDefault("outreach.daily_cap", 10)
	v.SetDefault("outreach.send_delay", "12s")
	v.SetDefault("outreach.from_name", "Sydney - MagicPlate")
	v.SetDefault("http.timeout", "8s")
	v.SetDefault("http.user_agent", "Mozilla/5.0 (MagicPlate Outreach; +https://magicplate.info)")
	v.SetDefault("mail.provider", "resend")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("output.dir", "data")
	v.SetDefault("db.leads_table", "leads")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces reasonable limits. Credentials are checked separately by
// RequireScrapeCredentials/RequireSendCredentials so a dry run never demands
// a mail key.
func (c Config) Validate() error {
	if c.Search.RadiusMeters <= 0 {
		return fmt.Errorf("search.radius_meters must be > 0")
	}
	if c.Filter.MaxReviews < 0 {
		return fmt.Errorf("filter.max_reviews must be >= 0")
	}
	if c.Filter.MaxPhotos < 0 {
		return fmt.Errorf("filter.max_photos must be >= 0")
	}
	if c.Outreach.DailyCap <= 0 {
		return fmt.Errorf("outreach.daily_cap must be > 0")
	}
	if c.Outreach.SendDelay < 0 {
		return fmt.Errorf("outreach.send_delay must be >= 0")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// RequireScrapeCredentials checks the credentials a scrape run needs.
func (c Config) RequireScrapeCredentials() error {
	if c.Places.APIKey == "" {
		return fmt.Errorf("places.api_key is required (OUTREACH_PLACES_API_KEY)")
	}
	return nil
}

// RequireSendCredentials checks the credentials a send run needs, on top of
// the scrape ones.
func (c Config) RequireSendCredentials() error {
	if c.Outreach.FromEmail == "" {
		return fmt.Errorf("outreach.from_email is required (OUTREACH_OUTREACH_FROM_EMAIL)")
	}
	switch c.Mail.Provider {
	case "resend":
		if c.Mail.ResendAPIKey == "" {
			return fmt.Errorf("mail.resend_api_key is required (OUTREACH_MAIL_RESEND_API_KEY)")
		}
	case "smtp":
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("mail.smtp_host is required when mail.provider is smtp")
		}
	default:
		return fmt.Errorf("unknown mail.provider %q", c.Mail.Provider)
	}
	return nil
}
