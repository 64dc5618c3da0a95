package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths  PathsConfig `yaml:"paths" validate:"required"`
	Story  StoryConfig `yaml:"story" validate:"required"`
	Limits Limits      `yaml:"limits" validate:"required"`
}

type PathsConfig struct {
	OutputDir string `yaml:"output_dir" validate:"required"`
}

// StoryConfig carries the session defaults applied by the
// initialization step.
type StoryConfig struct {
	DefaultGenre       string   `yaml:"default_genre" validate:"required"`
	DefaultTone        string   `yaml:"default_tone" validate:"required"`
	DefaultLanguage    string   `yaml:"default_language" validate:"required"`
	SupportedLanguages []string `yaml:"supported_languages" validate:"required,min=1"`
	MemoryNamespace    string   `yaml:"memory_namespace" validate:"required"`
}

// Load reads the config file, falling back to defaults when none
// exists. Environment variables from a .env file are loaded first so
// STORYTELLER_CONFIG can point at an alternate file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := getConfigPath()
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with XDG-compliant paths and the stock
// story defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			OutputDir: defaultOutputDir(),
		},
		Story: StoryConfig{
			DefaultGenre:    "fantasy",
			DefaultTone:     "epic",
			DefaultLanguage: "english",
			SupportedLanguages: []string{
				"english", "spanish", "french", "german", "italian",
				"portuguese", "russian", "japanese", "chinese", "korean",
			},
			MemoryNamespace: "storyteller",
		},
		Limits: DefaultLimits(),
	}
}

func getConfigPath() string {
	if path := os.Getenv("STORYTELLER_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "storyteller", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storyteller", "config.yaml")
}

func defaultOutputDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "storyteller", "output")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "storyteller", "output")
}

// expandTilde expands a leading ~ to the user's home directory.
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultOutputDir()
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}
	defaults := DefaultLimits()
	if c.Limits.MaxRetries == 0 {
		c.Limits.MaxRetries = defaults.MaxRetries
	}
	if c.Limits.StepTimeout == 0 {
		c.Limits.StepTimeout = defaults.StepTimeout
	}
	if c.Limits.RateLimit.RequestsPerMinute == 0 {
		c.Limits.RateLimit.RequestsPerMinute = defaults.RateLimit.RequestsPerMinute
	}
	if c.Limits.RateLimit.BurstSize == 0 {
		c.Limits.RateLimit.BurstSize = defaults.RateLimit.BurstSize
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
