package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Peer    PeerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds signaling relay configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// PeerConfig holds peer transport configuration
type PeerConfig struct {
	SignalingURL  string
	ListenAddr    string
	AdvertiseHost string
	JoinTimeout   time.Duration
	SettleDelay   time.Duration
}

// GameConfig holds game-related configuration
type GameConfig struct {
	Difficulty      string
	LeaderboardPath string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults. A .env
// file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Peer: PeerConfig{
			SignalingURL:  getEnv("SIGNALING_URL", "http://localhost:8080"),
			ListenAddr:    getEnv("PEER_LISTEN_ADDR", "0.0.0.0:0"),
			AdvertiseHost: getEnv("PEER_ADVERTISE_HOST", ""),
			JoinTimeout:   time.Duration(getEnvInt("JOIN_TIMEOUT_SECONDS", 10)) * time.Second,
			SettleDelay:   time.Duration(getEnvInt("JOIN_SETTLE_DELAY_MS", 300)) * time.Millisecond,
		},
		Game: GameConfig{
			Difficulty:      getEnv("DIFFICULTY", "normal"),
			LeaderboardPath: getEnv("LEADERBOARD_PATH", "./data/leaderboard.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the relay address in host:port format
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
