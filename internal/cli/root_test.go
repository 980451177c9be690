package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "fwf" {
		t.Errorf("Use = %q, want fwf", cmd.Use)
	}

	want := []string{"query", "show", "detect", "diagnose", "validate", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}

	for _, flag := range []string{"log-level", "log-format"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}
}

func writeHumans(t *testing.T) string {
	t.Helper()
	line := func(location, state, birthday, sex, name, universe, profession string) string {
		b := []byte(strings.Repeat(" ", 81))
		copy(b[0:], location)
		copy(b[9:], state)
		copy(b[11:], birthday)
		copy(b[19:], sex)
		copy(b[32:], name)
		copy(b[56:], universe)
		copy(b[68:], profession)
		return strings.TrimRight(string(b), " ")
	}
	data := strings.Join([]string{
		line("Dallas", "TX", "19800704", "F", "Diana Prince", "DC", "Ambassador"),
		line("Gotham", "NJ", "19720219", "M", "Bruce Wayne", "DC", "Businessman"),
		line("Toronto", "ON", "19900101", "M", "Logan", "Marvel", ""),
	}, "\n") + "\n"

	path := filepath.Join(t.TempDir(), "humans.txt")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Query(t *testing.T) {
	path := writeHumans(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"query", "human", path, "-o", "json", "--filter", "universe=DC", "--fields", "name"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"Diana Prince"`) || !strings.Contains(stdout.String(), `"Bruce Wayne"`) {
		t.Errorf("stdout = %s", stdout.String())
	}
}

func TestRun_NoMatch(t *testing.T) {
	path := writeHumans(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"query", "human", path, "--filter", "universe=Image"}, &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRun_Error(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"query", "nope", "/nonexistent/data.txt"}, &stdout, &stderr)
	if code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: layout not found") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_DebugLogging(t *testing.T) {
	path := writeHumans(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--log-level", "debug", "--log-format", "json", "query", "enhanced-human", path, "--count"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	// Logan has no profession and is rejected by the layout.
	if strings.TrimSpace(stdout.String()) != "2" {
		t.Errorf("stdout = %q, want 2", stdout.String())
	}
	if !strings.Contains(stderr.String(), `"msg":"file loaded"`) || !strings.Contains(stderr.String(), `"skipped":1`) {
		t.Errorf("stderr missing load log: %s", stderr.String())
	}
}

func TestRun_BadLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--log-level", "loud", "version"}, &stdout, &stderr); code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
}
