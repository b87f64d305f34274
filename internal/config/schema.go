package config

import (
	"strings"
	"time"
)

// Config is the top-level cardctl configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Serve    ServeConfig    `mapstructure:"serve" yaml:"serve"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ProviderConfig holds the remote catalog endpoints.
type ProviderConfig struct {
	APIBase     string        `mapstructure:"api_base" yaml:"api_base"`
	CardInfoURL string        `mapstructure:"cardinfo_url" yaml:"cardinfo_url,omitempty"`
	CardSetsURL string        `mapstructure:"cardsets_url" yaml:"cardsets_url,omitempty"`
	VersionURL  string        `mapstructure:"version_url" yaml:"version_url,omitempty"`
	BanlistURL  string        `mapstructure:"banlist_url" yaml:"banlist_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// DataConfig controls where the offline catalog lives.
type DataConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DatabaseConfig enables the relational store when URL is set.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url,omitempty"`
}

// ServeConfig holds settings for the catalog HTTP API.
type ServeConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// LogConfig selects the slog level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CardInfoEndpoint returns the card-info URL, derived from APIBase unless overridden.
func (p ProviderConfig) CardInfoEndpoint() string {
	if p.CardInfoURL != "" {
		return p.CardInfoURL
	}
	return p.join("cardinfo.php")
}

// CardSetsEndpoint returns the card-set list URL.
func (p ProviderConfig) CardSetsEndpoint() string {
	if p.CardSetsURL != "" {
		return p.CardSetsURL
	}
	return p.join("cardsets.php")
}

// VersionEndpoint returns the database-version URL.
func (p ProviderConfig) VersionEndpoint() string {
	if p.VersionURL != "" {
		return p.VersionURL
	}
	return p.join("checkDBVer.php")
}

func (p ProviderConfig) join(name string) string {
	return strings.TrimRight(p.APIBase, "/") + "/" + name
}

// RelationalEnabled reports whether a database URL is configured.
func (c *Config) RelationalEnabled() bool {
	return c.Database.URL != ""
}
