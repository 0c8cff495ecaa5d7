package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration, loaded from config.yaml with
// CRYPTA_-prefixed environment overrides.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Projection ProjectionConfig
	Export     ExportConfig
}

type ServerConfig struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AuthConfig controls where query grants come from. The header source is
// for trusted internal callers; the remote source asks the identity
// service listed here; the bearer token is always tried first.
type AuthConfig struct {
	GrantsHeader   string
	PermissionsURL string
}

type ProjectionConfig struct {
	TitleCase bool
}

type ExportConfig struct {
	Directory        string
	JobTimeout       time.Duration
	DownloadSecret   string
	DownloadTokenTTL time.Duration
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL renders the database URL used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads config.yaml from configPath, falling back to defaults plus
// environment variables when the file is absent.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("CRYPTA")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.dbname", "crypta")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("auth.grants_header", "X-Query-Permissions")
	v.SetDefault("auth.permissions_url", "")

	v.SetDefault("projection.title_case", true)

	v.SetDefault("export.directory", "")
	v.SetDefault("export.job_timeout", "30m")
	v.SetDefault("export.download_secret", "")
	v.SetDefault("export.download_token_ttl", "5m")

	keys := []string{
		"server.addr", "server.shutdown_timeout",
		"database.host", "database.port", "database.user",
		"database.password", "database.dbname", "database.sslmode",
		"auth.grants_header", "auth.permissions_url",
		"projection.title_case",
		"export.directory", "export.job_timeout",
		"export.download_secret", "export.download_token_ttl",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			AllowedOrigins:  v.GetStringSlice("server.allowed_origins"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Auth: AuthConfig{
			GrantsHeader:   v.GetString("auth.grants_header"),
			PermissionsURL: v.GetString("auth.permissions_url"),
		},
		Projection: ProjectionConfig{
			TitleCase: v.GetBool("projection.title_case"),
		},
		Export: ExportConfig{
			Directory:        v.GetString("export.directory"),
			JobTimeout:       v.GetDuration("export.job_timeout"),
			DownloadSecret:   v.GetString("export.download_secret"),
			DownloadTokenTTL: v.GetDuration("export.download_token_ttl"),
		},
	}, nil
}
