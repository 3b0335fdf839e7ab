package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Storage      StorageConfig
	Notification NotificationConfig
	Audit        AuditConfig
}

type AppConfig struct {
	Name               string
	Port               string
	Debug              bool
	LogPath            string
	PageSize           int
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CountriesSeedPath  string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	ApplySchema bool
}

type StorageConfig struct {
	Driver    string
	LocalRoot string
	PublicURL string
	S3        S3Config
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type NotificationConfig struct {
	Driver      string
	RabbitMQURL string
	Exchange    string
	QueueSize   int
}

type AuditConfig struct {
	Enabled bool
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "backoffice")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_APPLY_SCHEMA", false)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_ROOT", "storage/public")
	v.SetDefault("STORAGE_PUBLIC_URL", "/storage")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", true)
	v.SetDefault("NOTIFY_DRIVER", "log")
	v.SetDefault("RABBITMQ_EXCHANGE", "backoffice.notifications")
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("AUDIT_ENABLED", true)

	// .env is optional, the environment always wins
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:               v.GetString("APP_NAME"),
			Port:               v.GetString("PORT"),
			Debug:              v.GetBool("DEBUG"),
			LogPath:            v.GetString("LOG_PATH"),
			PageSize:           v.GetInt("PAGE_SIZE"),
			BcryptCost:         v.GetInt("BCRYPT_COST"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			CountriesSeedPath:  v.GetString("COUNTRIES_SEED_PATH"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			ApplySchema: v.GetBool("DB_APPLY_SCHEMA"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
			LocalRoot: v.GetString("STORAGE_LOCAL_ROOT"),
			PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
			S3: S3Config{
				Endpoint:        v.GetString("S3_ENDPOINT"),
				Region:          v.GetString("S3_REGION"),
				Bucket:          v.GetString("S3_BUCKET"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			},
		},
		Notification: NotificationConfig{
			Driver:      strings.ToLower(v.GetString("NOTIFY_DRIVER")),
			RabbitMQURL: v.GetString("RABBITMQ_URL"),
			Exchange:    v.GetString("RABBITMQ_EXCHANGE"),
			QueueSize:   v.GetInt("NOTIFY_QUEUE_SIZE"),
		},
		Audit: AuditConfig{
			Enabled: v.GetBool("AUDIT_ENABLED"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
