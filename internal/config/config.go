package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Affiliate AffiliateConfig
	Geo       GeoConfig
	Gemini    GeminiConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type CatalogConfig struct {
	Path            string
	DefaultPageSize int
	MaxPageSize     int
}

type AffiliateConfig struct {
	Tag string
}

type GeoConfig struct {
	Endpoint       string
	DefaultCountry string
	TimeoutSeconds int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	IdeaRequestsPerWindow int
	IdeaWindowSeconds     int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CATALOG_PATH", "catalog.json")
	viper.SetDefault("CATALOG_PAGE_SIZE", 8)
	viper.SetDefault("CATALOG_MAX_PAGE_SIZE", 100)
	viper.SetDefault("GEO_ENDPOINT", "https://ipapi.co/%s/country_code/")
	viper.SetDefault("GEO_DEFAULT_COUNTRY", "US")
	viper.SetDefault("GEO_TIMEOUT_SECONDS", 5)
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("IDEA_RATE_LIMIT", 10)
	viper.SetDefault("IDEA_RATE_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Catalog: CatalogConfig{
			Path:            viper.GetString("CATALOG_PATH"),
			DefaultPageSize: viper.GetInt("CATALOG_PAGE_SIZE"),
			MaxPageSize:     viper.GetInt("CATALOG_MAX_PAGE_SIZE"),
		},
		Affiliate: AffiliateConfig{
			Tag: viper.GetString("AFFILIATE_TAG"),
		},
		Geo: GeoConfig{
			Endpoint:       viper.GetString("GEO_ENDPOINT"),
			DefaultCountry: viper.GetString("GEO_DEFAULT_COUNTRY"),
			TimeoutSeconds: viper.GetInt("GEO_TIMEOUT_SECONDS"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
			Model:  viper.GetString("GEMINI_MODEL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			IdeaRequestsPerWindow: viper.GetInt("IDEA_RATE_LIMIT"),
			IdeaWindowSeconds:     viper.GetInt("IDEA_RATE_WINDOW_SECONDS"),
		},
	}
}

// GeoTimeout returns the geolocation lookup timeout as a duration.
func (c *Config) GeoTimeout() time.Duration {
	return time.Duration(c.Geo.TimeoutSeconds) * time.Second
}

// IdeaRateWindow returns the idea-endpoint rate-limit window as a duration.
func (c *Config) IdeaRateWindow() time.Duration {
	return time.Duration(c.RateLimit.IdeaWindowSeconds) * time.Second
}
