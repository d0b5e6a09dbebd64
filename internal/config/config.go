package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the config as a GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds the cache connection settings.
type RedisConfig struct {
	Addr string
}

// KafkaConfig holds the event broker settings.
type KafkaConfig struct {
	Brokers []string
}

// MapsConfig holds the distance-matrix provider settings. An empty APIKey
// disables the provider; estimates then always take the geometric fallback.
type MapsConfig struct {
	APIKey string
}

// AdminConfig holds the fixed back-office credential pair and token secret.
type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
}

// PricingConfig holds booking-domain settings.
type PricingConfig struct {
	ServiceArea    string
	WhatsAppNumber string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      DatabaseConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Maps    MapsConfig
	Admin   AdminConfig
	Pricing PricingConfig
}

// Load reads configuration from TAXI_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "taxi_booking")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("maps.api_key", "")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", "")

	v.SetDefault("pricing.service_area", "Mumbai Local")
	v.SetDefault("pricing.whatsapp_number", "")

	cfg := &ServiceConfig{
		Port:   v.GetString("service_port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{Addr: v.GetString("redis.addr")},
		Kafka: KafkaConfig{Brokers: strings.Split(v.GetString("kafka.brokers"), ",")},
		Maps:  MapsConfig{APIKey: v.GetString("maps.api_key")},
		Admin: AdminConfig{
			Username:     v.GetString("admin.username"),
			PasswordHash: v.GetString("admin.password_hash"),
			JWTSecret:    v.GetString("admin.jwt_secret"),
		},
		Pricing: PricingConfig{
			ServiceArea:    v.GetString("pricing.service_area"),
			WhatsAppNumber: v.GetString("pricing.whatsapp_number"),
		},
	}

	if cfg.Admin.JWTSecret == "" {
		return nil, fmt.Errorf("TAXI_ADMIN_JWT_SECRET is required")
	}
	if cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("TAXI_ADMIN_PASSWORD_HASH is required")
	}

	return cfg, nil
}
