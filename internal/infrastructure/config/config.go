package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the client
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Speech       SpeechConfig       `mapstructure:"speech"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Log          LogConfig          `mapstructure:"log"`
}

// APIConfig holds backend connection configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds credential storage configuration
type AuthConfig struct {
	TokenFile string `mapstructure:"token_file"`
}

// SpeechConfig holds playback and recording configuration. Playback and
// recording shell out to the configured commands; an empty command disables
// the feature.
type SpeechConfig struct {
	PlayCommand   string `mapstructure:"play_command"`
	RecordCommand string `mapstructure:"record_command"`
}

// ConversationConfig holds session defaults
type ConversationConfig struct {
	Level string `mapstructure:"level"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("fluentcli")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "fluentcli"))
	}

	setDefaults()

	viper.SetEnvPrefix("fluentcli")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8000/api")
	viper.SetDefault("api.timeout", "90s")

	viper.SetDefault("auth.token_file", defaultTokenFile())

	viper.SetDefault("speech.play_command", "")
	viper.SetDefault("speech.record_command", "")

	viper.SetDefault("conversation.level", "Beginner")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.file", "")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fluentcli-token"
	}
	return filepath.Join(home, ".config", "fluentcli", "token")
}
