package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the design chat service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Flow     FlowConfig     `mapstructure:"flow"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// AuthConfig holds API authentication configuration
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
	// AgentToken is the bearer token attached to design agent calls.
	AgentToken string `mapstructure:"agent_token"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AgentConfig holds design agent backend configuration
type AgentConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	BackupURL string        `mapstructure:"backup_url"`
	UseBackup bool          `mapstructure:"use_backup"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FlowConfig holds intake flow configuration
type FlowConfig struct {
	MinBudget int `mapstructure:"min_budget"`
	MaxBudget int `mapstructure:"max_budget"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("DESIGNCHAT")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.agent_token", "")

	v.SetDefault("database.path", "./data/designchat.db")

	v.SetDefault("agent.base_url", "http://localhost:8000")
	v.SetDefault("agent.backup_url", "")
	v.SetDefault("agent.use_backup", false)
	v.SetDefault("agent.timeout", 120*time.Second)

	v.SetDefault("flow.min_budget", 300)
	v.SetDefault("flow.max_budget", 10000)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
