package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/codereview/internal/core/config"
)

type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	Endpoint     string
	ProfilerPort int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// EndpointOrConfig returns the --endpoint flag when set, else the configured endpoint.
func (f *Flags) EndpointOrConfig() string {
	if f.Endpoint != "" {
		return f.Endpoint
	}
	if f.Config != nil {
		return f.Config.Client.Endpoint
	}
	return config.DefaultEndpoint
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "codereview", "config.yaml")
}

// DefaultLogFile returns the log file used by the editor, which cannot log to
// the terminal it draws on.
// On macOS: ~/Library/Logs/codereview/codereview.log
// On Linux: $XDG_STATE_HOME/codereview/codereview.log (defaults to ~/.local/state)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "codereview", "codereview.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "codereview", "codereview.log")
	}

	return filepath.Join(home, ".local", "state", "codereview", "codereview.log")
}
