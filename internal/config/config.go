package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingAccessKey = errors.New("UNSPLASH_ACCESS_KEY is not set")

// Config stores process-wide settings. It is loaded once at startup and
// passed explicitly to the components that need it.
type Config struct {
	AccessKey         string        `mapstructure:"UNSPLASH_ACCESS_KEY"`
	APIBaseURL        string        `mapstructure:"UNSPLASH_API_URL"`
	FontDir           string        `mapstructure:"FONT_DIR"`
	OutputDir         string        `mapstructure:"OUTPUT_DIR"`
	HTTPTimeout       time.Duration `mapstructure:"HTTP_TIMEOUT"`
	DialTimeout       time.Duration `mapstructure:"DIAL_TIMEOUT"`
	MaxConcurrency    int           `mapstructure:"MAX_CONCURRENCY"`
	RequestsPerSecond float64       `mapstructure:"REQUESTS_PER_SECOND"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	ServerPort        string        `mapstructure:"SERVER_PORT"`
	QRURL             string        `mapstructure:"QR_URL"`
	LinkedInIconURL   string        `mapstructure:"LINKEDIN_ICON_URL"`
	FacebookIconURL   string        `mapstructure:"FACEBOOK_ICON_URL"`
	WatermarkText     string        `mapstructure:"WATERMARK_TEXT"`
}

// Load reads configuration from an optional .env file and the environment.
// envFile may be empty to skip the file entirely.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	v.SetDefault("UNSPLASH_ACCESS_KEY", "")
	v.SetDefault("UNSPLASH_API_URL", "https://api.unsplash.com")
	v.SetDefault("FONT_DIR", "font/Ubuntu")
	v.SetDefault("OUTPUT_DIR", "exported_files")
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("DIAL_TIMEOUT", 10*time.Second)
	v.SetDefault("MAX_CONCURRENCY", 0)
	v.SetDefault("REQUESTS_PER_SECOND", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("QR_URL", "https://www.linkedin.com/company/artificialintelligenceimmersion")
	v.SetDefault("LINKEDIN_ICON_URL", "https://cdn-icons-png.flaticon.com/512/174/174857.png")
	v.SetDefault("FACEBOOK_ICON_URL", "https://cdn-icons-png.flaticon.com/512/124/124010.png")
	v.SetDefault("WATERMARK_TEXT", "by berg-AI")

	if envFile != "" {
		// An absent file is fine; the environment alone may carry everything.
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.AccessKey = strings.TrimSpace(cfg.AccessKey)
	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}

// Validate checks the settings whose absence makes a run impossible.
func (c *Config) Validate() error {
	if c.AccessKey == "" {
		return ErrMissingAccessKey
	}
	if c.APIBaseURL == "" {
		return errors.New("UNSPLASH_API_URL must not be empty")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("MAX_CONCURRENCY must be >= 0, got %d", c.MaxConcurrency)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be >= 0, got %g", c.RequestsPerSecond)
	}
	return nil
}
