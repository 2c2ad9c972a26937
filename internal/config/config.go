package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Project ProjectConfig
	LLM     LLMConfig
	Log     LogConfig
}

// ProjectConfig holds snapshot file settings.
type ProjectConfig struct {
	// Path is the default .avproj.json file used when no --project flag
	// is given.
	Path string
}

// LLMConfig holds invoice parser settings.
type LLMConfig struct {
	Provider   string
	APIKeyEnv  string `mapstructure:"api_key_env"`
	APIKey     string `mapstructure:"api_key"`
	Model      string
	TimeoutSec int `mapstructure:"timeout_sec"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix KOSTENTRACKER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("project.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "kostentracker", "projekt.avproj.json"))
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout_sec", 60)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("KOSTENTRACKER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "kostentracker"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("KOSTENTRACKER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API key is stored in plain text in the config file; encourage users to prefer env vars.
func Save(cfg Config) error {
	path := os.Getenv("KOSTENTRACKER_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "kostentracker", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("project.path", cfg.Project.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.timeout_sec", cfg.LLM.TimeoutSec)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
