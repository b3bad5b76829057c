package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            int            `mapstructure:"port"`
	Env             string         `mapstructure:"env"`
	Pepper          string         `mapstructure:"pepper"`
	HMACKey         string         `mapstructure:"hmac_key"`
	CSRFKey         string         `mapstructure:"csrf_key"`
	PageSize        int            `mapstructure:"page_size"`
	CacheTTLSeconds int            `mapstructure:"cache_ttl_seconds"`
	MediaRoot       string         `mapstructure:"media_root"`
	Database        DatabaseConfig `mapstructure:"database"`
	Redis           RedisConfig    `mapstructure:"redis"`
	Github          GithubConfig   `mapstructure:"github"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type DatabaseConfig struct {
	// Dialect is either "postgres" or "sqlite".
	Dialect  string `mapstructure:"dialect"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	// Path is the database file for the sqlite dialect.
	Path string `mapstructure:"path"`
}

func (dc DatabaseConfig) ConnectionInfo() string {
	if dc.Dialect == "sqlite" {
		return dc.Path
	}
	if dc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Password, dc.Name)
}

// RedisConfig configures the page cache. The in-memory cache is used when Addr is empty.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GithubConfig holds the oauth app credentials. GitHub login is off when ID is empty.
type GithubConfig struct {
	ID          string `mapstructure:"id"`
	Secret      string `mapstructure:"secret"`
	RedirectURL string `mapstructure:"redirect_url"`
}

func DefaultConfig() Config {
	return Config{
		Port:            8000,
		Env:             "dev",
		Pepper:          "secret-random-string",
		HMACKey:         "secret-hmac-key",
		PageSize:        10,
		CacheTTLSeconds: 20,
		MediaRoot:       "media",
		Database:        DefaultDatabaseConfig(),
	}
}

func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Dialect: "postgres",
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		Name:    "yatube",
		Path:    "yatube.db",
	}
}

// LoadConfig loads the configuration from a .config.json file, with YATUBE_ prefixed
// environment variables taking precedence, e.g. YATUBE_DATABASE_HOST. Without a file
// the defaults are used, unless configRequired is set, which panics instead.
func LoadConfig(configRequired bool) Config {
	v := viper.New()
	v.SetConfigName(".config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.SetEnvPrefix("yatube")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
		if configRequired {
			panic("a .config.json file must be provided in production")
		}
		log.Println("No .config.json found, using the default config")
	} else {
		log.Println("Successfully loaded .config.json")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return c
}

// setDefaults registers every key with a default value. Viper only looks up environment
// variables of keys it knows about, so this also makes every key overridable through the environment.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("port", c.Port)
	v.SetDefault("env", c.Env)
	v.SetDefault("pepper", c.Pepper)
	v.SetDefault("hmac_key", c.HMACKey)
	v.SetDefault("csrf_key", c.CSRFKey)
	v.SetDefault("page_size", c.PageSize)
	v.SetDefault("cache_ttl_seconds", c.CacheTTLSeconds)
	v.SetDefault("media_root", c.MediaRoot)
	v.SetDefault("database.dialect", c.Database.Dialect)
	v.SetDefault("database.host", c.Database.Host)
	v.SetDefault("database.port", c.Database.Port)
	v.SetDefault("database.user", c.Database.User)
	v.SetDefault("database.password", c.Database.Password)
	v.SetDefault("database.name", c.Database.Name)
	v.SetDefault("database.path", c.Database.Path)
	v.SetDefault("redis.addr", c.Redis.Addr)
	v.SetDefault("redis.password", c.Redis.Password)
	v.SetDefault("redis.db", c.Redis.DB)
	v.SetDefault("github.id", c.Github.ID)
	v.SetDefault("github.secret", c.Github.Secret)
	v.SetDefault("github.redirect_url", c.Github.RedirectURL)
}
