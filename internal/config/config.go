package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Engine      EngineConfig      `yaml:"engine"`
	Game        GameConfig        `yaml:"game"`
	Matchmaking MatchmakingConfig `yaml:"matchmaking"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	AllowOrigins string `yaml:"allowOrigins"`
	LogLevel     string `yaml:"logLevel"`
}

type EngineConfig struct {
	// Depth is the fixed search depth in plies. Every ply multiplies the
	// work by the branching factor times the cost of a legality pass, so
	// keep it between 1 and 5.
	Depth int `yaml:"depth"`
}

type GameConfig struct {
	ClockSeconds int `yaml:"clockSeconds"`
}

type MatchmakingConfig struct {
	IntervalMillis int `yaml:"intervalMillis"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":3000",
			AllowOrigins: "http://localhost:5173",
			LogLevel:     "info",
		},
		Engine: EngineConfig{
			Depth: 2,
		},
		Game: GameConfig{
			ClockSeconds: 600,
		},
		Matchmaking: MatchmakingConfig{
			IntervalMillis: 1000,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Engine.Depth < 1 || c.Engine.Depth > 5 {
		return fmt.Errorf("engine.depth must be between 1 and 5, got %d", c.Engine.Depth)
	}
	if c.Game.ClockSeconds <= 0 {
		return fmt.Errorf("game.clockSeconds must be positive, got %d", c.Game.ClockSeconds)
	}
	if c.Matchmaking.IntervalMillis <= 0 {
		return fmt.Errorf("matchmaking.intervalMillis must be positive, got %d", c.Matchmaking.IntervalMillis)
	}
	return nil
}

func (c Config) ClockTime() time.Duration {
	return time.Duration(c.Game.ClockSeconds) * time.Second
}

func (c Config) MatchmakingInterval() time.Duration {
	return time.Duration(c.Matchmaking.IntervalMillis) * time.Millisecond
}
