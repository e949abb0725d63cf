package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"

    "github.com/joho/godotenv"
)

// Config holds the process configuration, read from the environment with an
// optional .env file for local development.
type Config struct {
    Port        string
    DatabaseURL string
    LogLevel    string
    LogFormat   string
    // WindowDays is the default dashboard window for the per-day series.
    WindowDays int
    DevSeed    bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
    _ = godotenv.Load()

    windowDays, err := strconv.Atoi(getEnv("WINDOW_DAYS", "7"))
    if err != nil || windowDays < 1 {
        windowDays = 7
    }

    return Config{
        Port:        getEnv("PORT", "8080"),
        DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
        LogLevel:    getEnv("LOG_LEVEL", "INFO"),
        LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
        WindowDays:  windowDays,
        DevSeed:     boolEnv("DEV_SEED"),
    }
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
    return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
    val := os.Getenv(key)
    if val == "" {
        return fallback
    }
    return val
}

func boolEnv(key string) bool {
    switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
    case "1", "true", "yes":
        return true
    }
    return false
}
