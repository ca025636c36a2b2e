// Package config loads application settings from an optional config.yaml
// with environment-variable overrides (prefix FINBOOK, e.g.
// FINBOOK_JWT_SECRET).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Load reads the config file at path (empty means ./config.yaml). A missing
// file is fine as long as the environment provides the required values; a
// missing JWT secret or database DSN is a startup error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("jwt.expire_minutes", 30)
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetEnvPrefix("FINBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without defaults must be bound explicitly or Unmarshal will not
	// see their environment values.
	_ = v.BindEnv("jwt.secret")
	_ = v.BindEnv("database.dsn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt secret is not set (jwt.secret or FINBOOK_JWT_SECRET)")
	}
	if c.Database.DSN == "" {
		return nil, errors.New("database dsn is not set (database.dsn or FINBOOK_DATABASE_DSN)")
	}
	return &c, nil
}
