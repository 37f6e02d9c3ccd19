package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads .env and .env.local from the working directory, falling
// back to the project root in development. Missing files are not an error;
// API keys may come from the real environment or the keyring instead.
func LoadEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
			continue
		}
		if root, err := FindProjectRoot(); err == nil {
			path := filepath.Join(root, name)
			if _, err := os.Stat(path); err == nil {
				_ = godotenv.Load(path)
			}
		}
	}
}
