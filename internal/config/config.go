package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payphone PayphoneConfig
	Shopify  ShopifyConfig
	Pages    PagesConfig
	Sweep    SweepConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type PayphoneConfig struct {
	Token   string // bearer token for the button Confirm API
	StoreID string // used by the client-side widget only
}

type ShopifyConfig struct {
	Shop       string // e.g. "escere-arte.myshopify.com"
	AdminToken string // shpat_... Admin API token
	APIVersion string
}

type PagesConfig struct {
	PayPageURL string // hosted widget page on the storefront
	ResultURL  string // thank-you / result page
}

type SweepConfig struct {
	Enabled    bool
	PendingTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("PORT", 3000)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	viper.SetDefault("SWEEP_ENABLED", true)
	viper.SetDefault("SWEEP_PENDING_TTL", "24h")

	pendingTTL, err := time.ParseDuration(viper.GetString("SWEEP_PENDING_TTL"))
	if err != nil {
		pendingTTL = 24 * time.Hour
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Payphone: PayphoneConfig{
			Token:   viper.GetString("PAYPHONE_TOKEN"),
			StoreID: viper.GetString("PAYPHONE_STORE_ID"),
		},
		Shopify: ShopifyConfig{
			Shop:       viper.GetString("SHOPIFY_SHOP"),
			AdminToken: viper.GetString("SHOPIFY_ADMIN_TOKEN"),
			APIVersion: viper.GetString("SHOPIFY_API_VERSION"),
		},
		Pages: PagesConfig{
			PayPageURL: viper.GetString("FRONT_PAY_PAGE_URL"),
			ResultURL:  viper.GetString("SUCCESS_URL"),
		},
		Sweep: SweepConfig{
			Enabled:    viper.GetBool("SWEEP_ENABLED"),
			PendingTTL: pendingTTL,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(viper.GetString("ALLOWED_ORIGINS")),
		},
	}

	if cfg.Shopify.Shop == "" {
		log.Println("WARNING: SHOPIFY_SHOP is not set")
	}
	if cfg.Payphone.Token == "" {
		log.Println("WARNING: PAYPHONE_TOKEN is not set")
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
