package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from the environment. Command-line flags in
// the host override these.
type Env struct {
	LogLevel  string `env:"AVATAR_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"AVATAR_LOG_FORMAT" envDefault:"console"`
	PrefabDir string `env:"AVATAR_PREFAB_DIR" envDefault:"prefabs"`
	AssetDir  string `env:"AVATAR_ASSET_DIR" envDefault:"assets"`
	Character string `env:"AVATAR_CHARACTER" envDefault:"knight.yaml"`
	Camera    string `env:"AVATAR_CAMERA" envDefault:"camera.yaml"`
	HotReload bool   `env:"AVATAR_HOT_RELOAD" envDefault:"true"`
	TPS       int    `env:"AVATAR_TPS" envDefault:"60"`
	AppName   string `env:"AVATAR_APP_NAME" envDefault:"avatar"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env and validates it.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	if cfg.TPS <= 0 {
		return Env{}, fmt.Errorf("config: AVATAR_TPS must be positive, got %d", cfg.TPS)
	}
	return cfg, nil
}
