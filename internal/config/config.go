package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Mail     MailConfig
	Telegram TelegramConfig
	API      APIConfig
}

type APIConfig struct {
	Key string
}

type ServerConfig struct {
	Port    int
	Env     string // "development", "production"
	BaseURL string // public base URL used for checkout return links
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

type GatewayConfig struct {
	MerchantID  string
	IPNSecret   string
	CheckoutURL string
	Debug       bool
	// IPNLogRetentionDays controls how long ipn_log rows are kept.
	IPNLogRetentionDays int
}

type MailConfig struct {
	Endpoint string
	APIKey   string
	From     string
}

type TelegramConfig struct {
	BotToken      string
	ReportChannel string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BITDRIVE_CHECKOUT_URL", "https://www.bitdrive.io/pay")
	viper.SetDefault("BITDRIVE_DEBUG", false)
	viper.SetDefault("IPN_LOG_RETENTION_DAYS", 30)

	cfg := &Config{
		Server: ServerConfig{
			Port:    viper.GetInt("APP_PORT"),
			Env:     viper.GetString("APP_ENV"),
			BaseURL: viper.GetString("APP_BASE_URL"),
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
		Gateway: GatewayConfig{
			MerchantID:          viper.GetString("BITDRIVE_MERCHANT_ID"),
			IPNSecret:           viper.GetString("BITDRIVE_IPN_SECRET"),
			CheckoutURL:         viper.GetString("BITDRIVE_CHECKOUT_URL"),
			Debug:               viper.GetBool("BITDRIVE_DEBUG"),
			IPNLogRetentionDays: viper.GetInt("IPN_LOG_RETENTION_DAYS"),
		},
		Mail: MailConfig{
			Endpoint: viper.GetString("MAIL_API_ENDPOINT"),
			APIKey:   viper.GetString("MAIL_API_KEY"),
			From:     viper.GetString("MAIL_FROM"),
		},
		Telegram: TelegramConfig{
			BotToken:      viper.GetString("TELEGRAM_BOT_TOKEN"),
			ReportChannel: viper.GetString("TELEGRAM_REPORT_CHANNEL"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Gateway.MerchantID == "" {
		log.Println("WARNING: BITDRIVE_MERCHANT_ID is not set")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
