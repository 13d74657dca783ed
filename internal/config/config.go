package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/aprayoga/storefront/internal/log"
)

type Application struct {
	Env        string `mapstructure:"env"         json:"env"`
	Host       string `mapstructure:"host"        json:"host"`
	SecretKey  string `mapstructure:"secret_key"  json:"-"`
	TaxPercent string `mapstructure:"tax_percent" json:"tax_percent"`
	Port       int    `mapstructure:"port"        json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"password"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int    `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int    `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"password"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Shipping struct {
	BaseUrl        string   `mapstructure:"base_url"        json:"base_url"`
	ApiKey         string   `mapstructure:"api_key"         json:"api_key"`
	Origin         string   `mapstructure:"origin"          json:"origin"`
	Couriers       []string `mapstructure:"couriers"        json:"couriers"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

type Payment struct {
	BaseUrl        string `mapstructure:"base_url"        json:"base_url"`
	ServerKey      string `mapstructure:"server_key"      json:"-"`
	ExpiryUnit     string `mapstructure:"expiry_unit"     json:"expiry_unit"`
	ExpiryDuration int    `mapstructure:"expiry_duration" json:"expiry_duration"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

type Email struct {
	Host     string `mapstructure:"host"     json:"host"`
	Port     int    `mapstructure:"port"     json:"port"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"-"`
	Sender   string `mapstructure:"sender"   json:"sender"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Shipping    `mapstructure:"shipping"    json:"shipping"`
	Payment     `mapstructure:"payment"     json:"payment"`
	Email       `mapstructure:"email"       json:"email"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
