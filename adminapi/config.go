package adminapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Configuration holds the settings of an API client.
type Configuration struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
	Timeout   int64  `mapstructure:"timeout"`
	LogLevel  string `mapstructure:"log_level"`
}

// TimeoutDuration returns the request timeout.
func (c Configuration) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks that the client can talk to a server.
func (c Configuration) Validate() error {
	if c.BaseURL == "" {
		return errors.New("Serveradmin base URL is required")
	}
	if c.AuthToken == "" {
		return errors.New("Serveradmin auth token is required")
	}
	return nil
}

// LoadConfig reads the client configuration from cfgFile, or from
// $HOME/.adminapi.yaml when cfgFile is empty. Environment variables
// SERVERADMIN_BASE_URL, SERVERADMIN_TOKEN, SERVERADMIN_TIMEOUT and
// SERVERADMIN_LOG_LEVEL take precedence over the file.
func LoadConfig(cfgFile string) (Configuration, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".adminapi")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	v.SetDefault("base_url", "http://localhost:8000/api")
	v.SetDefault("timeout", 60)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("serveradmin")
	_ = v.BindEnv("base_url")
	_ = v.BindEnv("auth_token", "SERVERADMIN_TOKEN")
	_ = v.BindEnv("timeout")
	_ = v.BindEnv("log_level")
	v.AutomaticEnv()

	var configuration Configuration
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return configuration, fmt.Errorf("Error reading config: %v", err)
		}
	}
	if err := v.Unmarshal(&configuration); err != nil {
		return configuration, fmt.Errorf("Error reading config: %v", err)
	}
	return configuration, nil
}
