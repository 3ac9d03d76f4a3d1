package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig defines the HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// OpenAIConfig defines the OpenAI API configuration.
// The API key is never stored in config.yaml; it is bound to the
// OPENAI_API_KEY environment variable.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// OllamaConfig defines the local Ollama configuration (alternative provider).
type OllamaConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

// LLMConfig selects the active provider: "openai" or "ollama".
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
}

// DataConfig defines the dataset parameters.
type DataConfig struct {
	Dir             string `mapstructure:"dir"`
	SampleRows      int    `mapstructure:"sample_rows"`
	MaxPromptLength int    `mapstructure:"max_prompt_length"`
}

// HistoryConfig defines where the chat history database lives.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// FallbackConfig points at the canned-responses file used when the API
// quota is exhausted.
type FallbackConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	Data     DataConfig     `mapstructure:"data"`
	History  HistoryConfig  `mapstructure:"history"`
	Fallback FallbackConfig `mapstructure:"fallback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig holds the loaded configuration.
var AppConfig *Config

// LoadConfig loads config.yaml from the working directory and binds the
// API key to the environment. A missing config file is not fatal: every
// field has a default so the tool works out of the box.
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("could not parse configuration: %w", err)
	}

	AppConfig = &cfg
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("openai.model", "gpt-4-turbo")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("data.dir", "")
	v.SetDefault("data.sample_rows", 1000)
	v.SetDefault("data.max_prompt_length", 16000)
	v.SetDefault("history.path", "nf_agent.db")
	v.SetDefault("fallback.path", "fallback.yaml")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "nf_agent.log")
}
