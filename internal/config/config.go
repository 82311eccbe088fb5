// Package config loads the small set of settings the bot needs to start:
// Twitch credentials, the local SQLite path, and the OpenAI key used by
// optional chat-command collaborators. It deliberately does not validate
// business rules or support multiple profiles.
package config

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Twitch holds IRC authentication details.
type Twitch struct {
	Login string `yaml:"login"`
	Token string `yaml:"token"`
	ID    string `yaml:"id"`
}

// Database points at the bot's local persistence file.
type Database struct {
	Path string `yaml:"path"`
}

// OpenAI holds the API key for any handler that shells out to it.
type OpenAI struct {
	APIKey string `yaml:"api_key"`
}

// Config is the bot's full runtime configuration.
type Config struct {
	Twitch   Twitch   `yaml:"twitch"`
	Database Database `yaml:"database"`
	OpenAI   OpenAI   `yaml:"openai"`
	Channels []string `yaml:"channels"`
}

// Load reads path as YAML, then overlays TWITCH_LOGIN / TWITCH_TOKEN /
// TWITCH_ID / DATABASE_PATH / OPENAI_API_KEY / TWITCH_CHANNELS (comma-
// separated) environment variables (loaded via a .env file if one is
// present) on top of it. Environment values win when set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	overlayEnv(cfg)
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("TWITCH_LOGIN"); v != "" {
		cfg.Twitch.Login = v
	}
	if v := os.Getenv("TWITCH_TOKEN"); v != "" {
		cfg.Twitch.Token = v
	}
	if v := os.Getenv("TWITCH_ID"); v != "" {
		cfg.Twitch.ID = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("TWITCH_CHANNELS"); v != "" {
		cfg.Channels = splitChannels(v)
	}
}

func splitChannels(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
