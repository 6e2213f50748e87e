package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds the HTTP service settings read from the environment.
type ServerConfig struct {
	Port            int
	Env             string
	CORSOrigins     []string
	MaxMCRuns       int
	ShutdownTimeout time.Duration
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
}

// LoadServerConfig reads FINPLAN_* and OTEL_* variables, loading a .env file
// first when one exists.
func LoadServerConfig() *ServerConfig {
	_ = godotenv.Load()

	return &ServerConfig{
		Port:            getEnvInt("FINPLAN_PORT", 8080),
		Env:             getEnvString("FINPLAN_ENV", "development"),
		CORSOrigins:     splitList(getEnvString("FINPLAN_CORS_ORIGINS", "*")),
		MaxMCRuns:       getEnvInt("FINPLAN_MAX_MC_RUNS", 5000),
		ShutdownTimeout: time.Duration(getEnvFloat("FINPLAN_SHUTDOWN_SECONDS", 10) * float64(time.Second)),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "finplan"),
		LogLevel:        getEnvString("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether the service runs with FINPLAN_ENV=production.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := ParseNumber(value); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
