package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	News            NewsConfig           `mapstructure:"news"`
	Calendar        CalendarConfig       `mapstructure:"calendar"`
	AWS             AWSConfig            `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type           ServiceType `mapstructure:"type"`
	Port           string      `mapstructure:"port"`
	LogLevel       string      `mapstructure:"logLevel"`
	LogFile        string      `mapstructure:"logFile"`
	AllowedOrigins []string    `mapstructure:"allowedOrigins"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
}

// DSN returns the connection string, building one from the discrete fields when it is not set.
func (c SQLConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host,
		c.Username,
		c.Password,
		c.Database,
		c.Port)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

type ExternalClientConfig struct {
	Yahoo YahooConfig `mapstructure:"yahoo"`
	BCB   BCBConfig   `mapstructure:"bcb"`
	FRED  FREDConfig  `mapstructure:"fred"`
}

type YahooConfig struct {
	// Provider selects the quote source: "quote" or "summary".
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

type BCBConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FREDConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedSource struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type NewsConfig struct {
	Feeds            []FeedSource        `mapstructure:"feeds"`
	RequestTimeout   time.Duration       `mapstructure:"requestTimeout"`
	OverallTimeout   time.Duration       `mapstructure:"overallTimeout"`
	Workers          int                 `mapstructure:"workers"`
	CacheTTL         time.Duration       `mapstructure:"cacheTTL"`
	MinTitleLength   int                 `mapstructure:"minTitleLength"`
	DescriptionLimit int                 `mapstructure:"descriptionLimit"`
	RefreshCron      string              `mapstructure:"refreshCron"`
	CategoryKeywords map[string][]string `mapstructure:"categoryKeywords"`
}

type CalendarConfig struct {
	CacheTTL    time.Duration `mapstructure:"cacheTTL"`
	RefreshCron string        `mapstructure:"refreshCron"`
}

type AWSConfig struct {
	Region     string `mapstructure:"region"`
	DBSecretID string `mapstructure:"dbSecretId"`
}

var DefaultFeeds = []FeedSource{
	{Name: "yahoo_finance", URL: "https://feeds.finance.yahoo.com/rss/2.0/headline"},
	{Name: "investing_com", URL: "https://www.investing.com/rss/news.rss"},
	{Name: "marketwatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/"},
	{Name: "reuters_business", URL: "https://feeds.reuters.com/reuters/businessNews"},
	{Name: "cnbc", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.logLevel", "info")
	v.SetDefault("service.allowedOrigins", []string{"*"})
	v.SetDefault("databases.sql.maxConns", 10)
	v.SetDefault("externalClients.yahoo.provider", "quote")
	v.SetDefault("externalClients.yahoo.timeout", "10s")
	v.SetDefault("externalClients.yahoo.cacheTTL", "30s")
	v.SetDefault("externalClients.bcb.baseUrl", "https://api.bcb.gov.br/dados/serie")
	v.SetDefault("externalClients.bcb.timeout", "10s")
	v.SetDefault("externalClients.fred.baseUrl", "https://api.stlouisfed.org")
	v.SetDefault("externalClients.fred.timeout", "10s")
	v.SetDefault("news.requestTimeout", "5s")
	v.SetDefault("news.overallTimeout", "8s")
	v.SetDefault("news.workers", 4)
	v.SetDefault("news.cacheTTL", "5m")
	v.SetDefault("news.minTitleLength", 10)
	v.SetDefault("news.descriptionLimit", 300)
	v.SetDefault("news.refreshCron", "*/5 * * * *")
	v.SetDefault("calendar.cacheTTL", "1h")
	v.SetDefault("calendar.refreshCron", "0 * * * *")
}

// LoadConfig reads appsettings.yaml from path, merges appsettings.<env>.yaml on top
// when env is not empty and lets FINBOARD_* environment variables override both.
func LoadConfig(path string, env string) (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FINBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge %s settings: %w", env, err)
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.News.Feeds) == 0 {
		cfg.News.Feeds = DefaultFeeds
	}
	return &cfg, nil
}
