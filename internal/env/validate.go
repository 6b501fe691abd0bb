package env

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/notariatools/permiso-launcher/internal/config"
)

// CheckResult is the outcome of one environment check.
type CheckResult struct {
	Name   string
	Valid  bool
	Detail string
}

// ValidateAll runs every environment check the server start depends on.
func ValidateAll(cfg config.Config) []CheckResult {
	venv := ResolveVenvDir(cfg)
	results := []CheckResult{
		checkVenv(venv),
		checkRuntime(cfg.Runtime, venv),
		checkAppEntry(cfg),
		checkPort(cfg.Port),
	}
	return results
}

func checkVenv(venvDir string) CheckResult {
	r := CheckResult{Name: "virtualenv"}
	if _, err := os.Stat(venvPython(venvDir)); err != nil {
		r.Detail = fmt.Sprintf("no interpreter under %s", venvDir)
		return r
	}
	r.Valid = true
	r.Detail = venvDir
	return r
}

func checkRuntime(runtime, venvDir string) CheckResult {
	r := CheckResult{Name: "runtime"}

	// The venv's own binary directory is where activation will put the
	// runtime first; PATH is only the fallback.
	candidate := filepath.Join(VenvBinDir(venvDir), runtime)
	if _, err := os.Stat(candidate); err == nil {
		r.Valid = true
		r.Detail = candidate
		return r
	}
	if path, err := exec.LookPath(runtime); err == nil {
		r.Valid = true
		r.Detail = path
		return r
	}
	r.Detail = fmt.Sprintf("%s not found in venv or PATH", runtime)
	return r
}

func checkAppEntry(cfg config.Config) CheckResult {
	r := CheckResult{Name: "app entry"}
	entry := cfg.AppEntry
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(cfg.WorkDir, entry)
	}
	if _, err := os.Stat(entry); err != nil {
		r.Detail = fmt.Sprintf("%s does not exist", entry)
		return r
	}
	r.Valid = true
	r.Detail = entry
	return r
}

func checkPort(port int) CheckResult {
	r := CheckResult{Name: "port"}
	if err := CheckPortFree(port); err != nil {
		r.Detail = fmt.Sprintf("%d already in use", port)
		return r
	}
	r.Valid = true
	r.Detail = fmt.Sprintf("%d free", port)
	return r
}

// RunValidate runs all checks and prints a colorized report.
// Returns exit code: 0 if all valid, 1 if any invalid.
func RunValidate(cfg config.Config) int {
	results := ValidateAll(cfg)

	fmt.Println()
	color.Cyan("=== Launch Environment Checks ===")
	fmt.Println()

	hasErrors := false
	for _, result := range results {
		if result.Valid {
			printCheckRow(result.Name, "✓ OK", result.Detail, color.FgGreen)
		} else {
			printCheckRow(result.Name, "✗ FAIL", result.Detail, color.FgRed)
			hasErrors = true
		}
	}

	fmt.Println()
	if hasErrors {
		color.Red("Environment is not ready. Fix the failures above and re-run.")
		return 1
	}
	color.Green("Environment is ready.")
	return 0
}

func printCheckRow(name, status, detail string, attr color.Attribute) {
	c := color.New(attr)
	fmt.Printf("  %-12s ", name)
	c.Printf("%-8s", status)
	fmt.Printf(" %s\n", detail)
}
