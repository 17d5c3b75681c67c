package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/koios/plotbox/internal/figure"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Figure   FigureConfig
	Encoder  EncoderConfig
	Plugins  PluginsConfig
	LogLevel string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

// FigureConfig holds the default geometry for figures built by the server
type FigureConfig struct {
	Width  float64 // inches
	Height float64 // inches
	DPI    int
}

// EncoderConfig holds encoder pool configuration
type EncoderConfig struct {
	Workers int
}

// PluginsConfig holds where extra plugin manifests are loaded from
type PluginsConfig struct {
	Path string // empty disables manifest loading
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 10),
		},
		Figure: FigureConfig{
			Width:  getEnvAsFloat("FIGURE_WIDTH", 6.4),
			Height: getEnvAsFloat("FIGURE_HEIGHT", 4.8),
			DPI:    getEnvAsInt("FIGURE_DPI", 100),
		},
		Encoder: EncoderConfig{
			Workers: getEnvAsInt("ENCODER_WORKERS", 4),
		},
		Plugins: PluginsConfig{
			Path: getEnv("PLUGINS_PATH", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

// Size returns the configured figure geometry
func (c FigureConfig) Size() figure.Size {
	return figure.Size{Width: c.Width, Height: c.Height, DPI: c.DPI}
}
