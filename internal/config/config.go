package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultBanlistURL is the lflist-style ban list used when none is configured.
const DefaultBanlistURL = "https://raw.githubusercontent.com/ProjectIgnis/LFLists/master/TCG.lflist.conf"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cardctl", "config.yml")
}

// Path returns the config path in effect: CARDCTL_CONFIG or the default.
func Path() string {
	if p := os.Getenv("CARDCTL_CONFIG"); p != "" {
		return p
	}
	return DefaultPath()
}

// Load reads the config from disk (or env). A missing file yields the
// defaults; the init command writes one.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("provider.api_base", "https://db.ygoprodeck.com/api/v7")
	v.SetDefault("provider.banlist_url", DefaultBanlistURL)
	v.SetDefault("provider.timeout", "0s")
	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("database.url", "")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.host", "127.0.0.1")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("CARDCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path())

	if err := v.ReadInConfig(); err != nil {
		// Not finding the config file is fine.
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Dir = ExpandHome(cfg.Data.Dir)

	return &cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cardctl")
}
