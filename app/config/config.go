package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the deployed backend and the local development server.
const (
	DefaultProductionURL = "https://backend-production-92ae.up.railway.app/api"
	DefaultDevURL        = "http://localhost:8000/api"
	DefaultTimeoutMS     = 30000

	// Port whose localhost signature selects the alternate development URL.
	devAltPort = "3001"
)

// defaultProductionHosts are the deployed frontend hostnames. A client
// running on any of these always talks to the production backend.
var defaultProductionHosts = []string{
	"blog-website-sigma-one.vercel.app",
	"dohblog.vercel.app",
	"vacation-bna.vercel.app",
}

// Config holds the candidate backend URLs and request settings. It is
// resolved once at startup and injected into the client constructor;
// nothing reads it from ambient globals.
type Config struct {
	ProductionURL   string
	DevURL          string
	DevAltPortURL   string
	TimeoutMS       int
	ForceProduction bool
	ProductionHosts []string
}

// Environment carries the runtime signals base-URL resolution depends on.
type Environment struct {
	Hostname string
	Port     string
}

// Load reads configuration from BLOG_* environment variables, consulting a
// .env file when one exists. Production deployments use real environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ProductionURL:   getEnv("BLOG_API_BASE_URL", DefaultProductionURL),
		DevURL:          getEnv("BLOG_DEV_API_BASE_URL", DefaultDevURL),
		TimeoutMS:       getEnvInt("BLOG_API_TIMEOUT_MS", DefaultTimeoutMS),
		ForceProduction: getEnvBool("BLOG_FORCE_PRODUCTION_API", false),
		ProductionHosts: defaultProductionHosts,
	}
	// The alternate-port URL shares the dev override unless set explicitly.
	cfg.DevAltPortURL = getEnv("BLOG_DEV_ALT_API_BASE_URL", cfg.DevURL)
	return cfg
}

// Default returns the built-in configuration without touching the
// environment. Useful for tests and embedding callers.
func Default() *Config {
	return &Config{
		ProductionURL:   DefaultProductionURL,
		DevURL:          DefaultDevURL,
		DevAltPortURL:   DefaultDevURL,
		TimeoutMS:       DefaultTimeoutMS,
		ProductionHosts: defaultProductionHosts,
	}
}

// Resolve selects the base URL for the given environment. Priority order,
// first match wins: force-production override, alternate-dev-port
// signature, known production hostname, plain development URL.
// Resolve is pure; it makes no network calls.
func (c *Config) Resolve(env Environment) string {
	if c.ForceProduction {
		return c.ProductionURL
	}
	if env.Hostname == "localhost" && env.Port == devAltPort {
		return c.DevAltPortURL
	}
	if c.isProductionHost(env.Hostname) {
		return c.ProductionURL
	}
	return c.DevURL
}

// IsProduction reports whether the environment targets the production
// backend. The fallback retry must not fire when this is true.
func (c *Config) IsProduction(env Environment) bool {
	return c.ForceProduction || c.isProductionHost(env.Hostname)
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c *Config) isProductionHost(hostname string) bool {
	for _, h := range c.ProductionHosts {
		if hostname == h {
			return true
		}
	}
	return false
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
