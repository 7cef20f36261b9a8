package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Symbol is a watchlist entry: a Taiwan stock code and its display name.
type Symbol struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		Provider         string        `yaml:"provider"` // "yahoo" or "mock"
		MarketSuffix     string        `yaml:"market_suffix"`
		OTCSuffix        string        `yaml:"otc_suffix"`
		Lookback         string        `yaml:"lookback"`
		DividendLookback string        `yaml:"dividend_lookback"`
		BaseURL          string        `yaml:"base_url"`
		RatePerSecond    float64       `yaml:"rate_per_second"`
		Timeout          time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl"`
		MaxEntries    int           `yaml:"max_entries"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	News struct {
		FeedURL  string `yaml:"feed_url"`
		MaxItems int    `yaml:"max_items"`
	} `yaml:"news"`
	Analysis struct {
		MAPeriod         int `yaml:"ma_period"`
		RSIPeriod        int `yaml:"rsi_period"`
		FitWindow        int `yaml:"fit_window"`
		Horizon          int `yaml:"horizon"`
		DividendPayments int `yaml:"dividend_payments"`
	} `yaml:"analysis"`
	Watchlist []Symbol `yaml:"watchlist"`
	Telegram  struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
		Timezone   string `yaml:"timezone"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// DefaultWatchlist is the built-in list of favourite symbols.
var DefaultWatchlist = []Symbol{
	{"2330", "台積電"}, {"0050", "元大台灣50"}, {"2603", "長榮海運"},
	{"2317", "鴻海"}, {"00878", "國泰永續高股息"}, {"0056", "元大高股息"},
	{"2454", "聯發科"}, {"2303", "聯電"}, {"2881", "富邦金"}, {"2882", "國泰金"},
	{"3231", "緯創"}, {"2609", "陽明"}, {"2615", "萬海"}, {"2498", "宏達電"},
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults fill every unset field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("LISTEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NEWS_FEED_URL"); v != "" {
		c.News.FeedURL = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		c.Schedule.DigestCron = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8501
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.MarketSuffix == "" {
		c.DataSource.MarketSuffix = ".TW"
	}
	if c.DataSource.OTCSuffix == "" {
		c.DataSource.OTCSuffix = ".TWO"
	}
	if c.DataSource.Lookback == "" {
		c.DataSource.Lookback = "6mo"
	}
	if c.DataSource.DividendLookback == "" {
		c.DataSource.DividendLookback = "5y"
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.DataSource.RatePerSecond == 0 {
		c.DataSource.RatePerSecond = 2
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://tw.stock.yahoo.com/rss?category=tw-market"
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 3
	}
	if c.Analysis.MAPeriod == 0 {
		c.Analysis.MAPeriod = 20
	}
	if c.Analysis.RSIPeriod == 0 {
		c.Analysis.RSIPeriod = 14
	}
	if c.Analysis.FitWindow == 0 {
		c.Analysis.FitWindow = 20
	}
	if c.Analysis.Horizon == 0 {
		c.Analysis.Horizon = 5
	}
	if c.Analysis.DividendPayments == 0 {
		c.Analysis.DividendPayments = 4
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = append([]Symbol(nil), DefaultWatchlist...)
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 14 * * 1-5"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Asia/Taipei"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks field ranges and pairings.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Analysis.MAPeriod <= 0 || c.Analysis.RSIPeriod <= 0 {
		return fmt.Errorf("analysis periods must be positive")
	}
	if c.Analysis.FitWindow < 2 {
		return fmt.Errorf("analysis.fit_window must be at least 2")
	}
	if c.Analysis.Horizon <= 0 {
		return fmt.Errorf("analysis.horizon must be positive")
	}
	if c.Analysis.DividendPayments <= 0 {
		return fmt.Errorf("analysis.dividend_payments must be positive")
	}
	if c.DataSource.Provider != "yahoo" && c.DataSource.Provider != "mock" {
		return fmt.Errorf("data_source.provider %q must be yahoo or mock", c.DataSource.Provider)
	}
	if c.News.MaxItems < 0 {
		return fmt.Errorf("news.max_items must not be negative")
	}
	if c.DataSource.RatePerSecond < 0 {
		return fmt.Errorf("data_source.rate_per_second must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for i, s := range c.Watchlist {
		if s.Code == "" {
			return fmt.Errorf("watchlist[%d].code is required", i)
		}
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location returns the schedule timezone, falling back to a fixed UTC+8.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Schedule.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}
