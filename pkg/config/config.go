package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	applogger "CardScout/pkg/logger"
	"CardScout/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development"`
	Log         applogger.Config `yaml:"log"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		AllowOrigins    []string      `yaml:"allow_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"30"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
	} `yaml:"rate_limit"`
	Cache struct {
		SearchTTL  time.Duration `yaml:"search_ttl" default:"2m"`
		MaxEntries int           `yaml:"max_entries" default:"10000"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"cardscout:"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Database struct {
		Driver          string        `yaml:"driver" default:"sqlite3"`
		DSN             string        `yaml:"dsn" default:"file:cardscout.db?_foreign_keys=on"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	} `yaml:"database"`
	Kafka struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		Compression string   `yaml:"compression" default:"gzip"`
		Topics      struct {
			Scored string `yaml:"scored" default:"cardscout.listing.scored"`
			Alerts string `yaml:"alerts" default:"cardscout.alert.triggered"`
		} `yaml:"topics"`
		Producer struct {
			RequiredAcks int           `yaml:"required_acks" default:"-1"`
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"500ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Marketplaces struct {
		Ebay     EbayConfig        `yaml:"ebay"`
		PWCC     MarketplaceConfig `yaml:"pwcc"`
		Goldin   MarketplaceConfig `yaml:"goldin"`
		Fanatics MarketplaceConfig `yaml:"fanatics"`
	} `yaml:"marketplaces"`
	// Grading reaches PSA directly; BGS, CGC and population reports go through
	// a JSON proxy since those companies publish no public API.
	Grading struct {
		PSA   MarketplaceConfig `yaml:"psa"`
		Proxy MarketplaceConfig `yaml:"proxy"`
	} `yaml:"grading"`
	Scoring struct {
		PhysicalCondition float64 `yaml:"physical_condition" default:"0.4"`
		PlayerProfile     float64 `yaml:"player_profile" default:"0.3"`
		MarketSignals     float64 `yaml:"market_signals" default:"0.2"`
		TimingTrends      float64 `yaml:"timing_trends" default:"0.1"`
	} `yaml:"scoring"`
	Market struct {
		// RecordObservations stores every searched listing for market summaries.
		RecordObservations bool `yaml:"record_observations"`
		SoldLookbackDays   int  `yaml:"sold_lookback_days" default:"90"`
	} `yaml:"market"`
}

// MarketplaceConfig is the common outbound client setup of one marketplace.
type MarketplaceConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout" default:"10s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"5"`
	Burst             int           `yaml:"burst" default:"5"`
}

type EbayConfig struct {
	MarketplaceConfig `yaml:",inline"`
	AuthURL           string `yaml:"auth_url"`
	ClientID          string `yaml:"client_id"`
	ClientSecret      string `yaml:"client_secret"`
	MarketplaceID     string `yaml:"marketplace_id" default:"EBAY_US"`
	Scope             string `yaml:"scope" default:"https://api.ebay.com/oauth/api_scope"`
}

// Load reads a YAML file, applies defaults and validates.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse is Load without the file read.
func Parse(b []byte) (*Config, error) {
	c, err := parse(b)
	if err != nil {
		return nil, err
	}
	c.fillMarketplaceURLs()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, then a .env file if present, and lets
// environment variables override secrets and endpoints before validation.
// A missing YAML file is not an error.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := parse(b)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	c.fillMarketplaceURLs()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("EBAY_CLIENT_ID"); v != "" {
		c.Marketplaces.Ebay.ClientID = v
	}
	if v := os.Getenv("EBAY_CLIENT_SECRET"); v != "" {
		c.Marketplaces.Ebay.ClientSecret = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Enabled = true
		c.ClickHouse.Host = v
	}
}

func (c *Config) fillMarketplaceURLs() {
	m := &c.Marketplaces
	if m.Ebay.BaseURL == "" {
		m.Ebay.BaseURL = "https://api.ebay.com"
	}
	if m.Ebay.AuthURL == "" {
		m.Ebay.AuthURL = m.Ebay.BaseURL
	}
	if m.PWCC.BaseURL == "" {
		m.PWCC.BaseURL = "https://www.pwccmarketplace.com/api"
	}
	if m.Goldin.BaseURL == "" {
		m.Goldin.BaseURL = "https://goldin.co/api"
	}
	if c.Grading.PSA.BaseURL == "" {
		c.Grading.PSA.BaseURL = "https://www.psacard.com"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be 'sqlite3' or 'postgres', got '%s'", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if e := c.Marketplaces.Ebay; e.Enabled && (e.ClientID == "" || e.ClientSecret == "") {
		return fmt.Errorf("marketplaces.ebay.client_id and client_secret are required when ebay is enabled")
	}
	if p := c.Grading.Proxy; p.Enabled && p.BaseURL == "" {
		return fmt.Errorf("grading.proxy.base_url is required when the grading proxy is enabled")
	}
	for name, w := range map[string]float64{
		"physical_condition": c.Scoring.PhysicalCondition,
		"player_profile":     c.Scoring.PlayerProfile,
		"market_signals":     c.Scoring.MarketSignals,
		"timing_trends":      c.Scoring.TimingTrends,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("scoring.%s must be within [0,1], got %v", name, w)
		}
	}
	if lvl := strings.ToLower(c.Log.Level); lvl != "debug" && lvl != "info" && lvl != "warn" && lvl != "error" {
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}
