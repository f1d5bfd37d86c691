package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/emorand/internal/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const sampleList = "# emoji-sequences.txt\n1F600 ;\n1F601..1F602 ; Basic_Emoji\n"

// resetFlags restores every flag of cmd and its subcommands to its default so
// values do not leak between command runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	srv := newListServer(t, sampleList)
	dir := t.TempDir()

	out, err := runCommand(t, "--cache-dir", dir, "--url", srv.URL)
	if err != nil {
		t.Fatalf("emorand failed: %v", err)
	}
	if out != "😀" && out != "😁" && out != "😂" {
		t.Errorf("output = %q, want one of the listed emoji and no newline", out)
	}
	if _, err := os.Stat(filepath.Join(dir, cache.FileName)); err != nil {
		t.Errorf("cache file not created: %v", err)
	}
}

func TestRootCommandDescribe(t *testing.T) {
	srv := newListServer(t, "1F600 ;\n")

	out, err := runCommand(t, "--cache-dir", t.TempDir(), "--url", srv.URL, "--describe", "--newline")
	if err != nil {
		t.Fatalf("emorand failed: %v", err)
	}
	if want := "😀 U+1F600 GRINNING FACE\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRootCommandCorruptedCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, cache.FileName), []byte{1, 2, 3, 4, 5}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCommand(t, "--cache-dir", dir)
	if !errors.Is(err, cache.ErrCorrupted) {
		t.Fatalf("error = %v, want %v", err, cache.ErrCorrupted)
	}
}

func TestRootCommandRejectsBadURL(t *testing.T) {
	if _, err := runCommand(t, "--cache-dir", t.TempDir(), "--url", "ftp://example.com/list.txt"); err == nil {
		t.Fatal("expected error for unsupported protocol")
	}
}

func TestCacheCommands(t *testing.T) {
	srv := newListServer(t, sampleList)
	dir := t.TempDir()
	path := filepath.Join(dir, cache.FileName)

	out, err := runCommand(t, "cache", "path", "--cache-dir", dir)
	if err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), path)
	}

	_, err = runCommand(t, "cache", "info", "--cache-dir", dir)
	if !errors.Is(err, cache.ErrFilesystem) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("cache info before build error = %v, want missing file", err)
	}

	if _, err := runCommand(t, "cache", "rebuild", "--cache-dir", dir, "--url", srv.URL); err != nil {
		t.Fatalf("cache rebuild failed: %v", err)
	}

	out, err = runCommand(t, "cache", "info", "--cache-dir", dir)
	if err != nil {
		t.Fatalf("cache info failed: %v", err)
	}
	for _, want := range []string{"Path:    " + path, "Size:    12 B", "Records: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache info output missing %q:\n%s", want, out)
		}
	}

	// A corrupted cache is replaced by rebuild.
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "cache", "rebuild", "--cache-dir", dir, "--url", srv.URL); err != nil {
		t.Fatalf("cache rebuild of corrupted cache failed: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() != 12 {
		t.Errorf("rebuilt cache = %v, %v; want 12 bytes", fi, err)
	}

	if _, err := runCommand(t, "cache", "clear", "--cache-dir", dir); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("cache file still present after clear: %v", err)
	}
	if _, err := runCommand(t, "cache", "clear", "--cache-dir", dir); err != nil {
		t.Errorf("cache clear of missing cache failed: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	srv := newListServer(t, sampleList)
	dir := t.TempDir()

	out, err := runCommand(t, "list", "--cache-dir", dir, "--url", srv.URL)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("list printed %d lines, want 3:\n%s", len(lines), out)
	}
	for i, prefix := range []string{"U+1F600", "U+1F601", "U+1F602"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if !strings.Contains(lines[0], "GRINNING FACE") {
		t.Errorf("line 0 = %q, want the emoji name", lines[0])
	}

	out, err = runCommand(t, "list", "tears", "--cache-dir", dir, "--url", srv.URL)
	if err != nil {
		t.Fatalf("list tears failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 1 || !strings.HasPrefix(lines[0], "U+1F602") {
		t.Errorf("list tears = %q, want only U+1F602", out)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "emorand.yml")

	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if string(b) != defaultConfig {
		t.Errorf("config file = %q, want the default config", b)
	}

	// An existing file is left alone.
	if err := os.WriteFile(path, []byte("newline: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile on existing file failed: %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "newline: true\n" {
		t.Errorf("existing config overwritten: %q", b)
	}

	if err := ensureConfigFile(filepath.Join(t.TempDir(), "emorand.toml")); err == nil {
		t.Error("expected error for unsupported config extension")
	}
}

func TestConfigFilePathDefault(t *testing.T) {
	if used := viper.ConfigFileUsed(); used != "" {
		t.Skipf("a configuration file is already loaded: %s", used)
	}
	dir := t.TempDir()
	t.Setenv("EMORAND_CONFIG_HOME", dir)

	path, err := configFilePath()
	if err != nil {
		t.Fatalf("configFilePath failed: %v", err)
	}
	if want := filepath.Join(dir, "emorand.yml"); path != want {
		t.Errorf("configFilePath = %q, want %q", path, want)
	}
}

func TestConfigCommandCreatesDefault(t *testing.T) {
	if used := viper.ConfigFileUsed(); used != "" {
		t.Skipf("a configuration file is already loaded: %s", used)
	}
	editorBin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no no-op editor available")
	}
	dir := t.TempDir()
	t.Setenv("EMORAND_CONFIG_HOME", dir)
	t.Setenv("EDITOR", editorBin)

	if _, err := runCommand(t, "config"); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "emorand.yml"))
	if err != nil {
		t.Fatalf("default config not created: %v", err)
	}
	if string(b) != defaultConfig {
		t.Errorf("config file = %q, want the default config", b)
	}
}

func TestConfigFilePathExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")

	configFile = path
	t.Cleanup(func() { configFile = "" })
	got, err := configFilePath()
	if err != nil || got != path {
		t.Fatalf("configFilePath = %q, %v; want %q", got, err, path)
	}
	if err := ensureConfigFile(got); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}
