package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DataDir     string // directory holding the player's save files
	TuningFile  string // optional TOML file overriding game tuning
	TapBuffer   int    // capacity of the async tap-event buffer
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     getEnv("DATA_DIR", "data"),
		TuningFile:  getEnv("TUNING_FILE", "tuning.toml"),
		TapBuffer:   getEnvInt("TAP_BUFFER", 1000),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
