// Package config loads and validates application configuration from the
// config file, environment variables, and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TLDSWEEP"

// Load reads configuration into a Config. When cfgFile is empty the
// default search paths are used; a missing config file is not an error
// because every setting has a default. Environment variables override
// file values (TLDSWEEP_ prefix, dots become underscores), and a .env
// file in the working directory is folded into the environment first.
func Load(cfgFile string) (*Config, error) {
	// Ignore a missing .env; it only exists where credentials live.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("tldsweep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/tldsweep")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides honors the bare environment keys historically used
// alongside the .env file, without requiring the TLDSWEEP_ prefix.
func applyEnvOverrides(cfg *Config) {
	if cfg.Methods.Domainr.APIKey == "" {
		cfg.Methods.Domainr.APIKey = os.Getenv("DOMAINR_API_KEY")
	}
	if raw := os.Getenv("MAX_TLD_LENGTH"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Data.MaxTLDLength = n
		}
	}
}

// Validate checks invariants that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	if c.Methods.Domainr.Quota < 0 {
		return fmt.Errorf("methods.domainr.quota must not be negative, got %d", c.Methods.Domainr.Quota)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", 8)

	v.SetDefault("data.tld_table", "data/tlds.json")
	v.SetDefault("data.all_tlds", "data/all-tlds.txt")
	v.SetDefault("data.max_tld_length", 0)

	v.SetDefault("store.path", "data/tldsweep.db")

	v.SetDefault("methods.dns.enabled", true)
	v.SetDefault("methods.dns.server", "1.1.1.1:53")
	v.SetDefault("methods.dns.conclusive_on_records", true)
	v.SetDefault("methods.dns.max_concurrent", 16)
	v.SetDefault("methods.dns.rate_per_second", 0)
	v.SetDefault("methods.dns.timeout", 5*time.Second)

	v.SetDefault("methods.include", []string{})
	v.SetDefault("methods.exclude", []string{})

	v.SetDefault("methods.whois.enabled", true)
	v.SetDefault("methods.whois.max_concurrent", 4)
	v.SetDefault("methods.whois.rate_per_second", 2)
	v.SetDefault("methods.whois.timeout", 10*time.Second)
	v.SetDefault("methods.whois.available_patterns", []string{})
	v.SetDefault("methods.whois.prohibited_patterns", []string{})
	v.SetDefault("methods.whois.registered_patterns", []string{})

	v.SetDefault("methods.rdap.enabled", false)
	v.SetDefault("methods.rdap.max_concurrent", 4)
	v.SetDefault("methods.rdap.rate_per_second", 2)
	v.SetDefault("methods.rdap.timeout", 10*time.Second)

	v.SetDefault("methods.ncapi.enabled", true)
	v.SetDefault("methods.ncapi.base_url", "https://production.ncapi.io")
	v.SetDefault("methods.ncapi.max_concurrent", 2)
	v.SetDefault("methods.ncapi.rate_per_second", 1)
	v.SetDefault("methods.ncapi.timeout", 15*time.Second)

	v.SetDefault("methods.gandi.enabled", true)
	v.SetDefault("methods.gandi.base_url", "https://shop.gandi.net")
	v.SetDefault("methods.gandi.max_concurrent", 2)
	v.SetDefault("methods.gandi.rate_per_second", 1)
	v.SetDefault("methods.gandi.timeout", 15*time.Second)

	v.SetDefault("methods.domainr.enabled", true)
	v.SetDefault("methods.domainr.base_url", "https://domainr.p.rapidapi.com")
	v.SetDefault("methods.domainr.max_concurrent", 2)
	v.SetDefault("methods.domainr.rate_per_second", 1)
	v.SetDefault("methods.domainr.timeout", 15*time.Second)
	// An explicit empty default keeps the key known to viper, so the
	// TLDSWEEP_METHODS_DOMAINR_API_KEY override resolves.
	v.SetDefault("methods.domainr.api_key", "")
	v.SetDefault("methods.domainr.quota", 10000)
	v.SetDefault("methods.domainr.quota_window", 30*24*time.Hour)

	v.SetDefault("output.format", "table")
	v.SetDefault("output.file", "")
	v.SetDefault("output.available_only", false)

	v.SetDefault("logging.level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}
