package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Game     GameConfig     `toml:"game"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	DataDir     string `toml:"data_dir"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	LogFile     string `toml:"log_file"`
}

// ServerConfig holds HTTP and WebSocket transport settings
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	RateLimit      float64  `toml:"rate_limit"` // commands per second per connection
	RateBurst      int      `toml:"rate_burst"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DatabaseConfig holds the SQLite location. An empty path means
// <data_dir>/nexus.db; ":memory:" keeps players in memory only.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// GameConfig holds the tunables of the game engine
type GameConfig struct {
	MaxTier           int      `toml:"max_tier"`
	LatencyScale      float64  `toml:"latency_scale"`
	FragmentsToUnlock int      `toml:"fragments_to_unlock"`
	DOSLockDuration   Duration `toml:"dos_lock_duration"`
	MiningReward      int      `toml:"mining_reward"`
	MiningMinHours    int      `toml:"mining_min_hours"`
	MiningMaxHours    int      `toml:"mining_max_hours"`
	StartingCredits   int      `toml:"starting_credits"`
	WorldFile         string   `toml:"world_file"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// maxTier keeps doubling upgrade costs inside an int
const maxTier = 30

// preset returns a Config holding the defaults whose zero value is a valid
// setting. They are filled in before decoding so an explicit zero survives.
func preset() Config {
	var cfg Config
	cfg.Game.LatencyScale = 1.0
	return cfg
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := preset()
	cfg.applyDefaults()
	return &cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := preset()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes configuration from TOML text
func Parse(data string) (*Config, error) {
	cfg := preset()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists where LoadFromEnv looks when NEXUS_CONFIG is unset
func SearchPaths() []string {
	return []string{
		"./configs/config.toml",
		"./config.toml",
		filepath.Join(os.Getenv("HOME"), ".config/nexus/config.toml"),
	}
}

// LoadFromEnv loads the file named by NEXUS_CONFIG, else the first file
// found in SearchPaths, else Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("NEXUS_CONFIG"); path != "" {
		return Load(path)
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "Nexus Root"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 60 * time.Second
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 5
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 10
	}

	// Game
	if c.Game.MaxTier == 0 {
		c.Game.MaxTier = 10
	}
	if c.Game.FragmentsToUnlock == 0 {
		c.Game.FragmentsToUnlock = 1
	}
	if c.Game.DOSLockDuration.Duration == 0 {
		c.Game.DOSLockDuration.Duration = 30 * time.Second
	}
	if c.Game.MiningReward == 0 {
		c.Game.MiningReward = 100
	}
	if c.Game.MiningMinHours == 0 {
		c.Game.MiningMinHours = 1
	}
	if c.Game.MiningMaxHours == 0 {
		c.Game.MiningMaxHours = 24
	}
}

// expandEnvVars expands environment variables in path fields
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Database.Path = os.ExpandEnv(c.Database.Path)
	c.Game.WorldFile = os.ExpandEnv(c.Game.WorldFile)
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Game.MaxTier < 1 || c.Game.MaxTier > maxTier {
		problems = append(problems, fmt.Sprintf("game.max_tier must be between 1 and %d", maxTier))
	}
	if c.Game.LatencyScale < 0 {
		problems = append(problems, "game.latency_scale must not be negative")
	}
	if c.Game.MiningMinHours > c.Game.MiningMaxHours {
		problems = append(problems, "game.mining_min_hours exceeds game.mining_max_hours")
	}
	if c.Game.StartingCredits < 0 {
		problems = append(problems, "game.starting_credits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DatabasePath resolves the SQLite file, "" when players stay in memory
func (c *Config) DatabasePath() string {
	switch c.Database.Path {
	case ":memory:":
		return ""
	case "":
		return filepath.Join(c.General.DataDir, "nexus.db")
	}
	return c.Database.Path
}

// Address returns host:port for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether the environment is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.General.Environment, "production")
}
