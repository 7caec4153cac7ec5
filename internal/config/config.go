package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Simulator SimulatorConfig
	Alerts    AlertDefaultsConfig
	Copilot   CopilotConfig
	Demo      DemoConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// SimulatorConfig holds the tick simulator parameters
type SimulatorConfig struct {
	TickInterval     time.Duration
	MaxVolatility    float64 // upper bound of per-tick PnL move, currency units
	UpProbability    float64 // chance a move is positive
	TradeProbability float64 // chance a tick closes a trade
	AgeProbability   float64 // chance the last-trade label ages when no trade fired
	CapitalBase      float64 // implied capital base for PnL percent
}

// AlertDefaultsConfig holds the alert settings assigned to new bots
type AlertDefaultsConfig struct {
	PnLDropThreshold     float64
	MaxDowntimeMinutes   int
	NotifyOnTradeFailure bool
}

// CopilotConfig holds the strategy generation endpoint configuration
type CopilotConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// DemoConfig controls demo fleet seeding at startup
type DemoConfig struct {
	SeedFleet bool
	FleetSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "fleetwatch"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}, ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Simulator: SimulatorConfig{
			TickInterval:     time.Duration(getEnvAsInt("SIM_TICK_INTERVAL_MS", 1500)) * time.Millisecond,
			MaxVolatility:    getEnvAsFloat("SIM_MAX_VOLATILITY", 8),
			UpProbability:    getEnvAsFloat("SIM_UP_PROBABILITY", 0.55),
			TradeProbability: getEnvAsFloat("SIM_TRADE_PROBABILITY", 0.05),
			AgeProbability:   getEnvAsFloat("SIM_AGE_PROBABILITY", 0.10),
			CapitalBase:      getEnvAsFloat("SIM_CAPITAL_BASE", 10000),
		},
		Alerts: AlertDefaultsConfig{
			PnLDropThreshold:     getEnvAsFloat("ALERT_PNL_DROP_THRESHOLD", 5),
			MaxDowntimeMinutes:   getEnvAsInt("ALERT_MAX_DOWNTIME_MINUTES", 30),
			NotifyOnTradeFailure: getEnvAsBool("ALERT_NOTIFY_ON_TRADE_FAILURE", true),
		},
		Copilot: CopilotConfig{
			APIURL:  getEnv("COPILOT_API_URL", ""),
			APIKey:  getEnv("COPILOT_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("COPILOT_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Demo: DemoConfig{
			SeedFleet: getEnvAsBool("SEED_DEMO_FLEET", true),
			FleetSize: getEnvAsInt("SEED_DEMO_FLEET_SIZE", 4),
		},
	}

	// Validate simulator parameters
	if cfg.Simulator.CapitalBase <= 0 {
		return nil, fmt.Errorf("SIM_CAPITAL_BASE must be positive")
	}
	if cfg.Simulator.TickInterval <= 0 {
		return nil, fmt.Errorf("SIM_TICK_INTERVAL_MS must be positive")
	}
	if cfg.Simulator.UpProbability < 0 || cfg.Simulator.UpProbability > 1 {
		return nil, fmt.Errorf("SIM_UP_PROBABILITY must be within [0, 1]")
	}

	return cfg, nil
}

// Address returns the full server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, separator string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, separator)
}
