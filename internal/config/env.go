package config

import (
	"log"
	"os"
	"strconv"
)

// Environment variables read by FromEnv
const (
	EnvAPIBase      = "SKILLFOLIO_API_BASE"
	EnvTemplateBase = "SKILLFOLIO_TEMPLATE_BASE"
	EnvTimeout      = "SKILLFOLIO_TIMEOUT_SECONDS"
	EnvPolicy       = "SKILLFOLIO_AI_POLICY"
	EnvTemplateID   = "SKILLFOLIO_TEMPLATE_ID"
	EnvVerbose      = "SKILLFOLIO_VERBOSE"
	EnvPort         = "PORT"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvRateLimit    = "SKILLFOLIO_AI_RATE_LIMIT"
)

// FromEnv reads configuration from environment variables. Unset or unparsable
// values are left zero so defaults apply.
func FromEnv() Config {
	return Config{
		APIBase:        os.Getenv(EnvAPIBase),
		TemplateBase:   os.Getenv(EnvTemplateBase),
		TimeoutSeconds: getEnvInt(EnvTimeout),
		Policy:         os.Getenv(EnvPolicy),
		TemplateID:     getEnvInt(EnvTemplateID),
		Verbose:        getEnvBool(EnvVerbose),
		Port:           getEnvInt(EnvPort),
		GeminiAPIKey:   os.Getenv(EnvGeminiAPIKey),
		RateLimit:      getEnvInt(EnvRateLimit),
	}
}

func getEnvInt(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[config] ignoring invalid %s=%q: %v", key, value, err)
		return 0
	}
	return n
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
