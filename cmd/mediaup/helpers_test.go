package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig writes a config file pointing at the given server with fast
// polling and temp directories, returning its path.
func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[server]
base_url = %q
api_token = "test-token"

[polling]
deadline_seconds = 5
interval_ms = 10

[paths]
data_dir = %q
log_dir = %q
`, baseURL, filepath.Join(base, "data"), filepath.Join(base, "logs"))

	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// writeTestMedia creates a small media file and returns its path.
func writeTestMedia(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media payload"), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	return path
}
