package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookscout/internal/candidates"
	"bookscout/internal/library"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	libraryDir string
	readCSV    string
	outputDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "bookscout.toml"),
		libraryDir: filepath.Join(base, "library"),
		readCSV:    filepath.Join(base, "read_books.csv"),
		outputDir:  filepath.Join(base, "output"),
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlibrary_dir = %q\nread_books_csv = %q\noutput_dir = %q\nlog_dir = %q\n",
		env.libraryDir,
		env.readCSV,
		env.outputDir,
		filepath.Join(env.baseDir, "logs"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// seedLibrary runs fn against a store opened on the env's library dir. The
// store is closed before returning so CLI runs can take the lock.
func seedLibrary(t *testing.T, env *cliTestEnv, fn func(*library.Store)) {
	t.Helper()
	store, err := library.Open(env.libraryDir, nil)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	defer store.Close()
	fn(store)
}

func seedCandidate(t *testing.T, store *library.Store, id, title, author string) {
	t.Helper()
	err := store.AddCandidate(id, title, author,
		[]candidates.Source{{Type: candidates.SourceManual, Note: "test"}})
	if err != nil {
		t.Fatalf("add candidate: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
