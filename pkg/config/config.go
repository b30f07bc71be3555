package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	mu          sync.Mutex
	envFilePath string
	exported    bool
)

// SetEnvFile selects the env file New exports before reading the
// environment. An empty path falls back to .env when it exists.
func SetEnvFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	envFilePath = strings.TrimSpace(path)
	exported = false
}

func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New exports the env file once per SetEnvFile call, then fills T from the
// environment with envconfig. Variables already set in the process win over
// the file.
func New[T any](prefix string) (*T, error) {
	if err := exportOnce(); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("load %s config: %w", strings.ToLower(prefix), err)
	}

	return &conf, nil
}

func exportOnce() error {
	mu.Lock()
	defer mu.Unlock()
	if exported {
		return nil
	}

	if envFilePath != "" {
		if err := exportEnvironment(envFilePath); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(defaultEnvFile); err != nil {
		return fmt.Errorf("failed to load default env file: %w", err)
	}
	exported = true
	return nil
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}

	return nil
}
