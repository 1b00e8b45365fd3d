package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	ProviderConfig
	StorageConfig
	SecurityConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Provider
	Storage
	Security
}

func New() Config {
	return mainConfig{}
}

// Load reads the given .env files into the process environment before
// returning the env backed Config. Files that do not exist are skipped.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("[config Load] %s: %w", f, err)
		}
	}
	return New(), nil
}
