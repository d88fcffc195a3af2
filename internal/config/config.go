package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"recipecard/internal/layout"
	"recipecard/internal/logger"
)

// Supported OCR engines.
const (
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineTesseract  = "tesseract"
)

type Config struct {
	// OCR Configuration
	OCREngine          string
	OCRTimeout         time.Duration
	TesseractLanguages []string

	// Google Cloud Configuration
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Heuristics file (TOML) overriding layout defaults
	HeuristicsFile string
	Layout         layout.Config

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OCREngine:             strings.ToLower(getEnv("RECIPE_OCR_ENGINE", EngineTesseract)),
		OCRTimeout:            time.Duration(getEnvInt("RECIPE_OCR_TIMEOUT", 30)) * time.Second,
		TesseractLanguages:    strings.Split(getEnv("TESSERACT_LANGUAGES", "eng"), "+"),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		HeuristicsFile:        getEnv("RECIPE_HEURISTICS_FILE", ""),
		Layout:                layout.DefaultConfig(),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if config.HeuristicsFile != "" {
		if err := config.LoadHeuristics(config.HeuristicsFile); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// LoadHeuristics overlays the layout thresholds from a TOML file. Keys that
// are absent keep their current value.
func (c *Config) LoadHeuristics(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read heuristics file: %w", err)
	}
	cfg := c.Layout
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse heuristics file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("heuristics file %s: %w", path, err)
	}
	c.Layout = cfg
	c.HeuristicsFile = path
	return nil
}

func (c *Config) validate() error {
	switch c.OCREngine {
	case EngineVision, EngineTesseract:
	case EngineDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the documentai engine")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the documentai engine")
		}
	default:
		return fmt.Errorf("RECIPE_OCR_ENGINE must be one of vision, documentai, tesseract (got %q)", c.OCREngine)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("RECIPE_OCR_TIMEOUT must be positive")
	}
	return c.Layout.Validate()
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
