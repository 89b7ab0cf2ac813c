package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenEnvVar = "KURA_API_TOKEN"

func tokenFilePath() string {
	return filepath.Join(DataDir(), "token")
}

// LoadToken returns the API bearer token: the KURA_API_TOKEN environment
// variable if set, otherwise the token saved by `kura login`. An empty
// string means not logged in — callers decide whether that is fatal.
func LoadToken() string {
	if tok := os.Getenv(tokenEnvVar); tok != "" {
		return tok
	}
	data, err := os.ReadFile(tokenFilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken persists the token for later sessions, readable only by the
// current user.
func SaveToken(token string) error {
	path := tokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// ClearToken removes the saved token.
func ClearToken() error {
	err := os.Remove(tokenFilePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
