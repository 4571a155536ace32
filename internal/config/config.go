package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultPath = "config.json"

var ErrTrailingData = errors.New("unexpected data after the config object")

type Config struct {
	Schedule    string     `json:"schedule" env:"JOKEBOT_SCHEDULE" env-default:"12:00"`
	Platforms   []string   `json:"platforms" env:"JOKEBOT_PLATFORMS" env-separator:"," env-default:"feishu"`
	JokeTypes   []string   `json:"joke_types" env:"JOKEBOT_JOKE_TYPES" env-separator:"," env-default:"chinese,english,pun,code"`
	DigestCount int        `json:"digest_count" env:"JOKEBOT_DIGEST_COUNT" env-default:"3"`
	App         AppConfig  `json:"app" env-prefix:"JOKEBOT_APP_"`
	NATS        NATSConfig `json:"nats" env-prefix:"JOKEBOT_NATS_"`
}

type AppConfig struct {
	Name        string `json:"name" env:"NAME" env-default:"joke-bot"`
	Environment string `json:"environment" env:"ENVIRONMENT" env-default:"production"`
	LogLevel    string `json:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string `json:"log_format" env:"LOG_FORMAT" env-default:"json"`
}

// NATSConfig routes deliveries through JetStream when Enabled.
type NATSConfig struct {
	Enabled    bool   `json:"enabled" env:"ENABLED" env-default:"false"`
	URL        string `json:"url" env:"URL" env-default:"nats://localhost:4222"`
	StreamName string `json:"stream_name" env:"STREAM_NAME" env-default:"JOKEBOT"`
	Subject    string `json:"subject" env:"SUBJECT" env-default:"jokebot.deliveries"`
	Consumer   string `json:"consumer" env:"CONSUMER" env-default:"joke-bot"`
}

// Path picks the config file: an explicit path, then CONFIG_PATH, then DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load builds the config in layers: built-in defaults, then environment
// variables, then the JSON file at path. Every key present in the file
// replaces the layer below it, zero values and null included; arrays are
// replaced, never merged. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	if err := decodeJSON(f, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}

	return &cfg, nil
}

// decodeJSON reads exactly one JSON value from r into cfg.
func decodeJSON(r io.Reader, cfg *Config) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
