// Package config provides centralized configuration for the launcher.
//
// This package defines:
// - The fixed server port and default file locations
// - The Config struct passed explicitly into the launcher (no ambient globals)
// - Loading of launcher.yaml with ${VAR} expansion
//
// Environment variables:
//   - LAUNCHER_CONFIG: Override the config file path (default: launcher.yaml)
//   - LAUNCHER_LOG_LEVEL: zerolog level for launcher output (default: info)
package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"gopkg.in/yaml.v3"
)

// === Default ports ===

const (
	// DefaultServerPort is the fixed TCP port the permit application server
	// binds. Both printed URLs and the bind target passed to the server use it.
	DefaultServerPort = 8501
)

// === Default paths ===

const (
	// DefaultConfigFile is the default launcher config path.
	DefaultConfigFile = "launcher.yaml"

	// DefaultVenvDir is the prepared virtualenv directory, relative to the
	// working directory.
	DefaultVenvDir = ".venv"

	// DefaultEnvFile is the optional dotenv file loaded during activation.
	DefaultEnvFile = ".env"

	// DefaultAppEntry is the permit application's entry script.
	DefaultAppEntry = "formulario.py"

	// DefaultRuntime is the command that runs the application server.
	DefaultRuntime = "streamlit"
)

// === Default behaviors ===

const (
	// DefaultOpenBrowser controls whether to open the local URL on launch.
	DefaultOpenBrowser = false
)

// ConfigFileEnvKey overrides the config file location.
const ConfigFileEnvKey = "LAUNCHER_CONFIG"

// Config holds everything the launcher needs for one invocation.
type Config struct {
	// Port the server binds and the URLs advertise.
	Port int `yaml:"port"`

	// Runtime is the command that runs the server (e.g. "streamlit").
	Runtime string `yaml:"runtime"`

	// AppEntry is the application script passed to the runtime.
	AppEntry string `yaml:"app_entry"`

	// WorkDir is the directory the server runs in. Empty means the
	// launcher's current directory.
	WorkDir string `yaml:"work_dir"`

	// VenvDir is the prepared virtualenv, relative to WorkDir unless absolute.
	VenvDir string `yaml:"venv"`

	// EnvFile is an optional dotenv file loaded during activation.
	// Missing files are skipped.
	EnvFile string `yaml:"env_file"`

	// OpenBrowser opens the local URL once access info is printed.
	OpenBrowser bool `yaml:"open_browser"`
}

// Default returns the launcher configuration before any file or flag
// overrides.
func Default() Config {
	return Config{
		Port:        DefaultServerPort,
		Runtime:     DefaultRuntime,
		AppEntry:    DefaultAppEntry,
		VenvDir:     DefaultVenvDir,
		EnvFile:     DefaultEnvFile,
		OpenBrowser: DefaultOpenBrowser,
	}
}

// ConfigFilePath returns the config file to load: LAUNCHER_CONFIG if set,
// otherwise launcher.yaml in the current directory.
func ConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnvKey); p != "" {
		return p
	}
	return DefaultConfigFile
}

// Load reads a launcher config file on top of the defaults. ${VAR}
// references in the file are expanded from the environment before parsing.
// A missing file at the default location is not an error; an explicitly
// requested file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigFile {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	expanded, err := envsubst.Bytes(data)
	if err != nil {
		return cfg, fmt.Errorf("expanding variables in %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("config %s: invalid port %d", path, cfg.Port)
	}
	if cfg.Runtime == "" {
		return cfg, fmt.Errorf("config %s: runtime must not be empty", path)
	}

	return cfg, nil
}
