package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"

	"github.com/notariatools/permiso-launcher/internal/config"
)

// ErrVenvMissing is returned when the prepared virtualenv (or its
// interpreter) cannot be found. Activation failure is fatal: the launcher
// must not attempt to start the server without it.
var ErrVenvMissing = errors.New("virtualenv not found")

// VenvBinDir returns the executable directory inside a virtualenv.
func VenvBinDir(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts")
	}
	return filepath.Join(venvDir, "bin")
}

func venvPython(venvDir string) string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(VenvBinDir(venvDir), name)
}

// ResolveVenvDir resolves the configured venv directory against the
// working directory.
func ResolveVenvDir(cfg config.Config) string {
	if filepath.IsAbs(cfg.VenvDir) {
		return cfg.VenvDir
	}
	return filepath.Join(cfg.WorkDir, cfg.VenvDir)
}

// Activate verifies the prepared virtualenv, loads the optional dotenv
// file, and returns the environment the server process must run under.
// A missing dotenv file is skipped; a missing virtualenv is ErrVenvMissing.
func Activate(cfg config.Config) ([]string, error) {
	venv := ResolveVenvDir(cfg)

	if _, err := os.Stat(venvPython(venv)); err != nil {
		return nil, fmt.Errorf("%w: %s (run the environment setup first)", ErrVenvMissing, venv)
	}

	if cfg.EnvFile != "" {
		envPath := cfg.EnvFile
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(cfg.WorkDir, envPath)
		}
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envPath, err)
			}
		}
	}

	return activatedEnviron(os.Environ(), venv), nil
}

// activatedEnviron rewrites environ the way `source venv/bin/activate`
// would: VIRTUAL_ENV set and the venv binary directory first on PATH.
func activatedEnviron(environ []string, venvDir string) []string {
	binDir := VenvBinDir(venvDir)

	out := make([]string, 0, len(environ)+2)
	pathSeen := false
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		switch {
		case strings.EqualFold(key, "PATH"):
			out = append(out, key+"="+binDir+string(os.PathListSeparator)+val)
			pathSeen = true
		case key == "VIRTUAL_ENV":
			// replaced below
		default:
			out = append(out, kv)
		}
	}
	if !pathSeen {
		out = append(out, "PATH="+binDir)
	}
	out = append(out, "VIRTUAL_ENV="+venvDir)
	return out
}
