package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("NMGAME_SERVER", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("NMGAME_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// LoadSession returns the saved session id, or "" if none is saved
func (c *Config) LoadSession() (string, error) {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // No session file is fine
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveSession saves the session id to the session file
func (c *Config) SaveSession(sessionID string) error {
	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, []byte(sessionID), 0600)
}

// ClearSession removes the session file
func (c *Config) ClearSession() error {
	if err := os.Remove(c.SessionFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nmgame/session"
	}
	return filepath.Join(home, ".nmgame", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
