package editor

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config contains process-level configuration of the editor.
type Config struct {
	// Files
	SettingsPath string
	LogFile      string

	// Logging
	LogLevel string
	Debug    bool

	// Clock used when no video is loaded
	DurationMs  float64
	FrameTimeMs float64
}

// LoadConfig reads FUNSCRIPTER_* variables, after loading a .env file from
// the working directory when present.
func LoadConfig() *Config {
	// A missing .env file is fine.
	_ = godotenv.Load()

	return &Config{
		SettingsPath: getEnv("FUNSCRIPTER_SETTINGS", defaultSettingsPath()),
		LogFile:      getEnv("FUNSCRIPTER_LOG_FILE", ""),
		LogLevel:     getEnv("FUNSCRIPTER_LOG_LEVEL", "info"),
		Debug:        getEnv("FUNSCRIPTER_DEBUG", "false") == "true",
		DurationMs:   getEnvFloat("FUNSCRIPTER_DURATION_MS", 0),
		FrameTimeMs:  getEnvFloat("FUNSCRIPTER_FRAME_TIME_MS", 0),
	}
}

// Validate fills defaults for unset values.
func (c *Config) Validate() error {
	if c.SettingsPath == "" {
		c.SettingsPath = defaultSettingsPath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Debug {
		c.LogLevel = "debug"
	}
	if c.DurationMs < 0 {
		c.DurationMs = 0
	}
	return nil
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "go-funscripter", "settings.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
