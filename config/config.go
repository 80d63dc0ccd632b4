// Package config loads termsweep settings from a TOML file
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// DefaultPath is read when no --config flag is given
const DefaultPath = "termsweep.toml"

// ErrInvalid marks a configuration that parsed but holds out-of-range values
var ErrInvalid = errors.New("invalid configuration")

// Difficulty names accepted in [game] difficulty
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Expert       = "expert"
)

// Config is the whole file
type Config struct {
	Game   GameConfig   `toml:"game"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Scores ScoresConfig `toml:"scores"`
	Sound  SoundConfig  `toml:"sound"`
}

type GameConfig struct {
	Difficulty     string `toml:"difficulty"`
	FirstClickSafe bool   `toml:"first_click_safe"`
	TickRate       int    `toml:"tick_rate"`
}

type ServerConfig struct {
	Address             string `toml:"address"`
	IdleTimeoutSeconds  int    `toml:"idle_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	MaxSessions         int    `toml:"max_sessions"`
}

type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// ScoresConfig locates the best-time database, an empty path disables it
type ScoresConfig struct {
	Path string `toml:"path"`
}

// SoundConfig applies to local play only
type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Difficulty:     Beginner,
			FirstClickSafe: true,
			TickRate:       60,
		},
		Server: ServerConfig{
			Address:             ":2323",
			IdleTimeoutSeconds:  300,
			WriteTimeoutSeconds: 10,
			MaxSessions:         64,
		},
		Log: LogConfig{
			Dir: "logs",
		},
		Scores: ScoresConfig{
			Path: "termsweep.db",
		},
		Sound: SoundConfig{
			Volume: 0.5,
		},
	}
}

// Load reads path over the defaults
// A missing file is not an error; keys absent from the file keep their defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

// Validate rejects values the game or server cannot run with
func (c *Config) Validate() error {
	switch c.Game.Difficulty {
	case Beginner, Intermediate, Expert:
	default:
		return errors.Wrapf(ErrInvalid, "game.difficulty %q", c.Game.Difficulty)
	}
	if c.Game.TickRate < 1 || c.Game.TickRate > 1000 {
		return errors.Wrapf(ErrInvalid, "game.tick_rate %d out of range 1-1000", c.Game.TickRate)
	}
	if c.Server.IdleTimeoutSeconds < 0 {
		return errors.Wrapf(ErrInvalid, "server.idle_timeout_seconds %d is negative", c.Server.IdleTimeoutSeconds)
	}
	if c.Server.WriteTimeoutSeconds < 0 {
		return errors.Wrapf(ErrInvalid, "server.write_timeout_seconds %d is negative", c.Server.WriteTimeoutSeconds)
	}
	if c.Server.MaxSessions < 0 {
		return errors.Wrapf(ErrInvalid, "server.max_sessions %d is negative", c.Server.MaxSessions)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return errors.Wrapf(ErrInvalid, "sound.volume %v out of range 0-1", c.Sound.Volume)
	}
	return nil
}

// IdleTimeout returns the server idle timeout as a duration
func (c *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration
func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}
