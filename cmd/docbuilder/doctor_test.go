package main

// Notes:
// - Tests drive runDoctorCmd with a config file pointing render.browserBin
//   at a fake executable or a missing path, so the outcome does not depend
//   on whether Chrome is installed.
// - Container detection reads the environment; those tests cannot use t.Parallel().

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func doctorConfig(t *testing.T, browserBin string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "doctor.yaml",
		"render:\n  browserBin: \""+browserBin+"\"\n  noSandbox: true\n")
}

func fakeChrome(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script browser stub needs a Unix shell")
	}
	path := filepath.Join(t.TempDir(), "chromium")
	script := "#!/bin/sh\necho Chromium 131.0.6778.85\n"
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSON - Machine-readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Setenv("DOCBUILDER_CONTAINER", "")

	t.Run("fake browser is found", func(t *testing.T) {
		bin := fakeChrome(t)
		env, stdout, stderr := testEnv()

		code := runDoctorCmd([]string{"--json", "-c", doctorConfig(t, bin)}, env)

		var report doctorReport
		if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v\n%s\n%s", err, stdout.String(), stderr.String())
		}
		if !report.Browser.Found || report.Browser.Path != bin {
			t.Errorf("browser = %+v", report.Browser)
		}
		if report.Browser.Version != "Chromium 131.0.6778.85" {
			t.Errorf("Version = %q", report.Browser.Version)
		}
		if report.Browser.Sandbox {
			t.Error("sandbox should be reported disabled")
		}
		if report.Env.OS != runtime.GOOS || report.Storage.Driver != "sqlite3" {
			t.Errorf("env=%+v storage=%+v", report.Env, report.Storage)
		}
		if report.Status == statusErrors || code != ExitSuccess {
			t.Errorf("status=%q code=%d errors=%v", report.Status, code, report.Errors)
		}
	})

	t.Run("missing browser is an error", func(t *testing.T) {
		env, stdout, _ := testEnv()
		missing := filepath.Join(t.TempDir(), "no-chrome")

		code := runDoctorCmd([]string{"--json", "-c", doctorConfig(t, missing)}, env)

		var report doctorReport
		if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.Status != statusErrors || code != ExitGeneral {
			t.Errorf("status=%q code=%d, want errors/%d", report.Status, code, ExitGeneral)
		}
		if len(report.Errors) == 0 || !strings.Contains(report.Errors[0], missing) {
			t.Errorf("Errors = %v", report.Errors)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Text - Human-readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Text(t *testing.T) {
	bin := fakeChrome(t)
	env, stdout, _ := testEnv()

	runDoctorCmd([]string{"-c", doctorConfig(t, bin)}, env)

	for _, want := range []string{"docbuilder doctor", "Chrome/Chromium", "[OK] Found at " + bin, "Sandbox: disabled", "Temp directory: writable", "Status:"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q\n%s", want, stdout.String())
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Flags - Flag and config errors
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Flags(t *testing.T) {
	env, _, stderr := testEnv()
	if code := runDoctorCmd([]string{"--bogus"}, env); code != ExitUsage {
		t.Errorf("unknown flag: code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "error:") {
		t.Errorf("stderr = %q", stderr.String())
	}

	env, _, _ = testEnv()
	if code := runDoctorCmd([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}, env); code != ExitUsage {
		t.Errorf("missing config: code = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestDetectContainer - Container signals
// ---------------------------------------------------------------------------

func TestDetectContainer(t *testing.T) {
	t.Setenv("DOCBUILDER_CONTAINER", "1")

	got, hint := detectContainer()
	if !got || hint != "DOCBUILDER_CONTAINER=1" {
		t.Errorf("detectContainer() = %v, %q", got, hint)
	}
}
