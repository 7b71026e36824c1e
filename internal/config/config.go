// Package config loads pixengine settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/pixengine/internal/flash"
	"github.com/abhisek/pixengine/internal/irt"
	"github.com/abhisek/pixengine/internal/selector"
)

// Config holds all configuration for pixengine.
type Config struct {
	Selector SelectorConfig `yaml:"selector"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

// SelectorConfig chooses the challenge selection algorithm.
type SelectorConfig struct {
	Method string `yaml:"method"`

	// FlashMaxChallenges ends a flash assessment after that many answers.
	FlashMaxChallenges int `yaml:"flash_max_challenges"`

	// Estimator is the flash ability estimator: eap or mle.
	Estimator string `yaml:"estimator"`

	// Seed makes tie-breaking random and reproducible. Zero picks the first
	// tied challenge.
	Seed uint64 `yaml:"seed"`
}

// StoreConfig locates the SQLite database. An empty path means the default
// data directory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig sets the logger mode: dev or prod.
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Selector: SelectorConfig{
			Method:             string(selector.MethodFlash),
			FlashMaxChallenges: 20,
			Estimator:          string(irt.MethodEAP),
		},
		Log: LogConfig{Mode: "dev"},
	}
}

// Load reads the YAML file at path, when given, over the defaults and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Store.Path = getEnv("PIXENGINE_DB", cfg.Store.Path)
	cfg.Selector.Method = getEnv("PIXENGINE_METHOD", cfg.Selector.Method)
	cfg.Selector.FlashMaxChallenges = getEnvAsInt("PIXENGINE_FLASH_MAX_CHALLENGES", cfg.Selector.FlashMaxChallenges)
	cfg.Log.Mode = getEnv("PIXENGINE_LOG_MODE", cfg.Log.Mode)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if _, err := selector.ParseMethod(c.Selector.Method); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Selector.FlashMaxChallenges < 0 {
		errs = append(errs, fmt.Sprintf("flash_max_challenges must not be negative, got %d", c.Selector.FlashMaxChallenges))
	}
	switch irt.Method(c.Selector.Estimator) {
	case irt.MethodEAP, irt.MethodMLE:
	default:
		errs = append(errs, fmt.Sprintf("unknown estimator %q", c.Selector.Estimator))
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		errs = append(errs, fmt.Sprintf("unknown log mode %q", c.Log.Mode))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Strategy returns the selector settings described by the configuration.
func (c Config) Strategy() selector.Config {
	sc := selector.Config{
		Method: selector.Method(c.Selector.Method),
		Flash: flash.Config{
			MaxChallenges: c.Selector.FlashMaxChallenges,
			Estimator:     irt.Method(c.Selector.Estimator),
		},
	}
	if c.Selector.Seed != 0 {
		sc.Picker = selector.NewRandomPicker(c.Selector.Seed)
	}
	return sc
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
