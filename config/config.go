package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Lifecycle LifecycleConfig
}

type AppConfig struct {
	Port       string
	Env        string
	LogLevel   string
	// BaseURL prefixes the verification links embedded in lookup codes
	BaseURL    string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type LifecycleConfig struct {
	IdentifierMaxAttempts       int
	ConsultationOpenMaxAttempts int
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads an optional dotenv file and overlays environment variables.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("APP_BASE_URL", "http://localhost:8000")
	v.SetDefault("APP_CORS_ORIGIN", "*")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDENTIFIER_MAX_ATTEMPTS", 5)
	v.SetDefault("CONSULTATION_OPEN_MAX_ATTEMPTS", 3)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			LogLevel:   v.GetString("APP_LOG_LEVEL"),
			BaseURL:    v.GetString("APP_BASE_URL"),
			CORSOrigin: v.GetString("APP_CORS_ORIGIN"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Lifecycle: LifecycleConfig{
			IdentifierMaxAttempts:       v.GetInt("IDENTIFIER_MAX_ATTEMPTS"),
			ConsultationOpenMaxAttempts: v.GetInt("CONSULTATION_OPEN_MAX_ATTEMPTS"),
		},
	}

	return config, nil
}
