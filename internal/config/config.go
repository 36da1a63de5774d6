package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Game    GameConfig    `toml:"game" envPrefix:"GAME_"`
	Input   InputConfig   `toml:"input" envPrefix:"INPUT_"`
	Display DisplayConfig `toml:"display" envPrefix:"DISPLAY_"`
	Audio   AudioConfig   `toml:"audio" envPrefix:"AUDIO_"`
	Data    DataConfig    `toml:"data" envPrefix:"DATA_"`
	Scripts ScriptsConfig `toml:"scripts" envPrefix:"SCRIPTS_"`
	Logging LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

type GameConfig struct {
	TickRate      time.Duration `toml:"tick_rate" env:"TICK_RATE"`
	DefaultLevel  string        `toml:"default_level" env:"DEFAULT_LEVEL"`
	MenuSeed      string        `toml:"menu_seed" env:"MENU_SEED"`
	PlayerName    string        `toml:"player_name" env:"PLAYER_NAME"`
	PlayerColor   string        `toml:"player_color" env:"PLAYER_COLOR"`
	PlayerAbility string        `toml:"player_ability" env:"PLAYER_ABILITY"`
}

type InputConfig struct {
	// Terminals report no key releases; a held key is released after this
	// long without an auto-repeat press.
	HoldTimeout time.Duration `toml:"hold_timeout" env:"HOLD_TIMEOUT"`
}

type DisplayConfig struct {
	Border bool `toml:"border" env:"BORDER"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled" env:"ENABLED"`
	SampleRate int     `toml:"sample_rate" env:"SAMPLE_RATE"`
	Volume     float64 `toml:"volume" env:"VOLUME"` // 0.0-1.0
}

type DataConfig struct {
	Maps      string `toml:"maps" env:"MAPS"`
	Abilities string `toml:"abilities" env:"ABILITIES"`
	Enemies   string `toml:"enemies" env:"ENEMIES"`
	Keys      string `toml:"keys" env:"KEYS"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir" env:"DIR"` // empty = built-in scripts only
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "console"
	File   string `toml:"file" env:"FILE"`     // the terminal owns stdout while running
}

// Load reads a TOML config on top of the defaults, then applies ARENA_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "ARENA_"}); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			TickRate:      time.Second / 60,
			DefaultLevel:  "test",
			MenuSeed:      "mainmenu",
			PlayerName:    "John",
			PlayerColor:   "orange",
			PlayerAbility: "missile",
		},
		Input: InputConfig{
			HoldTimeout: 550 * time.Millisecond,
		},
		Display: DisplayConfig{
			Border: true,
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.5,
		},
		Data: DataConfig{
			Maps:      "data/yaml/map_list.yaml",
			Abilities: "data/yaml/ability_list.yaml",
			Enemies:   "data/yaml/enemy_list.yaml",
			Keys:      "data/yaml/key_list.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "arena.log",
		},
	}
}
