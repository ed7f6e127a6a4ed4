package config

import (
	"github.com/spf13/viper"
)

// Config is the web app's environment-driven configuration. The
// STORAGE_* names mirror the app settings declared by the deployment
// template.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	ADO     ADOConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Port         int
	StaticDir    string
	TemplatesDir string
}

type StorageConfig struct {
	// Account and Container are provisioned by the deployment template
	// and injected as STORAGE_ACCOUNT / STORAGE_CONTAINER.
	Account   string
	Container string
}

type ADOConfig struct {
	// Organization is the Azure DevOps organization URL the hooks are
	// subscribed under.
	Organization string
	// SecureFetch re-fetches every event from the organization before
	// trusting it.
	SecureFetch bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults match the runtime-image layout: the binary runs with
	// /app as its working directory, assets alongside it.
	v.SetDefault("PORT", 8000)
	v.SetDefault("STATIC_DIR", "./static")
	v.SetDefault("TEMPLATES_DIR", "./templates")
	v.SetDefault("STORAGE_ACCOUNT", "")
	v.SetDefault("STORAGE_CONTAINER", "")
	v.SetDefault("ADO_ORGANIZATION", "https://dev.azure.com/jusmoore")
	v.SetDefault("ADO_SECURE_FETCH", true)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("PORT"),
			StaticDir:    v.GetString("STATIC_DIR"),
			TemplatesDir: v.GetString("TEMPLATES_DIR"),
		},
		Storage: StorageConfig{
			Account:   v.GetString("STORAGE_ACCOUNT"),
			Container: v.GetString("STORAGE_CONTAINER"),
		},
		ADO: ADOConfig{
			Organization: v.GetString("ADO_ORGANIZATION"),
			SecureFetch:  v.GetBool("ADO_SECURE_FETCH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
