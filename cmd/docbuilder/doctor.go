package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/config"
	"github.com/ortam/docbuilder/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorReport struct {
	Status   string       `json:"status"`
	Browser  browserCheck `json:"browser"`
	Env      hostCheck    `json:"environment"`
	Storage  storageCheck `json:"storage"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type browserCheck struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
	Workers int    `json:"workers"`
}

type hostCheck struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

type storageCheck struct {
	TempWritable bool   `json:"temp_writable"`
	Driver       string `json:"db_driver"`
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when ready (warnings included), 1 when errors were found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	common := commonFlags{}
	fs := newFlagSet("doctor", env.Stderr, printDoctorUsage)
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	fs.StringVarP(&common.config, "config", "c", "", "config file name or path")
	if err := parseFlagSet(fs, args); err != nil {
		if errors.Is(err, errHelpShown) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	cfg, err := loadConfig(&common, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	report := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(cfg *config.Config) *doctorReport {
	r := &doctorReport{
		Status: statusReady,
		Env:    hostCheck{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkBrowser(r, cfg.Render)
	checkHost(r, cfg.Render)
	checkStorage(r, cfg.Database)

	if len(r.Errors) > 0 {
		r.Status = statusErrors
	} else if len(r.Warnings) > 0 {
		r.Status = statusWarnings
	}
	return r
}

func checkBrowser(r *doctorReport, rc config.RenderConfig) {
	r.Browser.Sandbox = !rc.NoSandbox
	r.Browser.Workers = docbuilder.ResolvePoolSize(rc.Workers)

	path := rc.BrowserBin
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			r.Errors = append(r.Errors,
				"Chrome/Chromium not found. Install Chrome or set DOCBUILDER_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(path); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}
	r.Browser.Found = true
	r.Browser.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path comes from config or rod lookup
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	r.Browser.Version = strings.TrimSpace(string(out))
}

func checkHost(r *doctorReport, rc config.RenderConfig) {
	r.Env.Container, r.Env.ContainerHint = detectContainer()
	r.Env.CI = hints.InCI()

	if (r.Env.Container || r.Env.CI) && !rc.NoSandbox {
		r.Warnings = append(r.Warnings,
			"Container/CI detected but the Chrome sandbox is enabled. Set DOCBUILDER_NO_SANDBOX=1")
	}
}

// detectContainer reports whether we run in a container and which signal said so.
func detectContainer() (bool, string) {
	if os.Getenv("DOCBUILDER_CONTAINER") == "1" {
		return true, "DOCBUILDER_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

func checkStorage(r *doctorReport, db config.DatabaseConfig) {
	r.Storage.Driver = db.Driver

	tmp := os.TempDir()
	probe := filepath.Join(tmp, "docbuilder-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("Temp directory not writable: %s", tmp))
		return
	}
	_ = os.Remove(probe)
	r.Storage.TempWritable = true

	if db.Driver == config.DriverPostgres && !strings.Contains(db.DSN, "sslmode=") {
		r.Warnings = append(r.Warnings, "Postgres DSN has no sslmode; lib/pq defaults to sslmode=require")
	}
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "docbuilder doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	if r.Browser.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled")
	}
	fmt.Fprintf(w, "  [OK] Render workers: %d\n", r.Browser.Workers)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.Storage.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintf(w, "  [OK] Database driver: %s\n", r.Storage.Driver)
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
