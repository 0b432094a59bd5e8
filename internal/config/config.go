package config

import "time"

// Config is the complete application configuration, loaded from the
// config file, environment variables, and the optional .env file.
type Config struct {
	Workers int           `mapstructure:"workers"`
	Data    DataConfig    `mapstructure:"data"`
	Store   StoreConfig   `mapstructure:"store"`
	Methods MethodsConfig `mapstructure:"methods"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// DataConfig points at the TLD data files.
type DataConfig struct {
	TLDTable     string `mapstructure:"tld_table"`
	AllTLDs      string `mapstructure:"all_tlds"`
	MaxTLDLength int    `mapstructure:"max_tld_length"`
}

// StoreConfig configures the quota usage database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// MethodsConfig holds the per-method settings and the run-level filters.
type MethodsConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`

	DNS     DNSMethodConfig     `mapstructure:"dns"`
	WHOIS   WHOISMethodConfig   `mapstructure:"whois"`
	RDAP    MethodConfig        `mapstructure:"rdap"`
	NCAPI   HTTPMethodConfig    `mapstructure:"ncapi"`
	Gandi   HTTPMethodConfig    `mapstructure:"gandi"`
	Domainr DomainrMethodConfig `mapstructure:"domainr"`
}

// MethodConfig is the common tuning surface for one method.
type MethodConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// DNSMethodConfig tunes the dns method.
type DNSMethodConfig struct {
	MethodConfig        `mapstructure:",squash"`
	Server              string `mapstructure:"server"`
	ConclusiveOnRecords bool   `mapstructure:"conclusive_on_records"`
}

// WHOISMethodConfig tunes the whois method and its interpretation policy.
type WHOISMethodConfig struct {
	MethodConfig       `mapstructure:",squash"`
	AvailablePatterns  []string `mapstructure:"available_patterns"`
	ProhibitedPatterns []string `mapstructure:"prohibited_patterns"`
	RegisteredPatterns []string `mapstructure:"registered_patterns"`
}

// HTTPMethodConfig tunes an HTTP-backed method.
type HTTPMethodConfig struct {
	MethodConfig `mapstructure:",squash"`
	BaseURL      string `mapstructure:"base_url"`
}

// DomainrMethodConfig tunes the quota-capped paid method.
type DomainrMethodConfig struct {
	HTTPMethodConfig `mapstructure:",squash"`
	APIKey           string        `mapstructure:"api_key"`
	Quota            int           `mapstructure:"quota"`
	QuotaWindow      time.Duration `mapstructure:"quota_window"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format        string `mapstructure:"format"`
	File          string `mapstructure:"file"`
	AvailableOnly bool   `mapstructure:"available_only"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig contains HTTP server configuration for serve mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
