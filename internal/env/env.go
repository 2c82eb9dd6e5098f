package env

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Env reads configuration variables.
type Env interface {
	Get(key string) string
}

type osEnv struct{}

// Get implements Env.
func (o *osEnv) Get(key string) string {
	return os.Getenv(key)
}

func New() Env {
	return &osEnv{}
}

type mapEnv struct {
	m map[string]string
}

// Get implements Env.
func (m *mapEnv) Get(key string) string {
	if value, ok := m.m[key]; ok {
		return value
	}
	return ""
}

func NewFromMap(m map[string]string) Env {
	if m == nil {
		m = make(map[string]string)
	}
	return &mapEnv{m: m}
}

// LoadDotEnv loads a .env file from the working directory, or failing that
// from next to the executable. Variables already present in the environment
// win. A missing file is not an error.
func LoadDotEnv() error {
	envPath := ".env"

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		exePath, err := os.Executable()
		if err != nil {
			return nil
		}
		envPath = filepath.Join(filepath.Dir(exePath), ".env")
		if _, err := os.Stat(envPath); err != nil {
			return nil
		}
	}

	return godotenv.Load(envPath)
}
