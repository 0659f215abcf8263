package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youruser/newscard/internal/card"
	"github.com/youruser/newscard/internal/fonts"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Fonts     FontsConfig       `yaml:"fonts"`
	Fetch     FetchConfig       `yaml:"fetch"`
	Defaults  DefaultsConfig    `yaml:"defaults"`
	Logo      LogoConfig        `yaml:"logo"`
	TagColors map[string]string `yaml:"tag_colors"`
	Log       LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type FontsConfig struct {
	Dir     string `yaml:"dir"`
	Bold    string `yaml:"bold"`
	Regular string `yaml:"regular"`
	Watch   bool   `yaml:"watch"`
}

type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

type DefaultsConfig struct {
	Tag          string `yaml:"tag"`
	Title        string `yaml:"title"`
	Site         string `yaml:"site"`
	TagColor     string `yaml:"tag_color"`
	TitleOpacity int    `yaml:"title_opacity"`
}

type LogoConfig struct {
	QRFallback bool `yaml:"qr_fallback"`
	QRSize     int  `yaml:"qr_size"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Fonts:  FontsConfig{Dir: "fonts", Bold: "arialbd.ttf", Regular: "arial.ttf"},
		Fetch:  FetchConfig{Timeout: 10 * time.Second, MaxBytes: 20 << 20},
		Defaults: DefaultsConfig{
			Tag:          card.DefaultTag,
			Title:        card.DefaultTitle,
			Site:         card.DefaultSite,
			TagColor:     card.DefaultTagColor,
			TitleOpacity: card.DefaultTitleOpacity,
		},
		Logo: LogoConfig{QRSize: 256},
	}
}

// Load reads and parses the configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Defaults.TitleOpacity < 0 || c.Defaults.TitleOpacity > 255 {
		return fmt.Errorf("defaults.title_opacity must be 0-255")
	}
	if _, err := card.ParseHexColor(c.Defaults.TagColor); err != nil {
		return fmt.Errorf("defaults.tag_color: %w", err)
	}
	for tag, col := range c.TagColors {
		if _, err := card.ParseHexColor(col); err != nil {
			return fmt.Errorf("tag_colors[%s]: %w", tag, err)
		}
	}
	if c.Logo.QRFallback && c.Logo.QRSize <= 0 {
		return fmt.Errorf("logo.qr_size is required when logo.qr_fallback is set")
	}
	return nil
}

// FontConfig returns the font locations for the fonts package.
func (c *Config) FontConfig() fonts.Config {
	return fonts.Config{Dir: c.Fonts.Dir, Bold: c.Fonts.Bold, Regular: c.Fonts.Regular}
}

// TagColor returns the preset color for tag, if one is configured. Lookup
// ignores case and surrounding space.
func (c *Config) TagColor(tag string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(tag))
	for t, col := range c.TagColors {
		if strings.ToUpper(strings.TrimSpace(t)) == key {
			return col, true
		}
	}
	return "", false
}

// Addr is the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
