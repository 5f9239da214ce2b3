package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"ckl-cli/internal/config"
)

func TestRootRequiresExactlyOneArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without a checklist argument")
	}

	cmd = newRootCmd()
	cmd.SetArgs([]string{"a.ckl", "b.ckl"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error with two checklist arguments")
	}
}

func TestRunFailsOnMissingChecklist(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	err := run(filepath.Join(dir, "lists", "nope.ckl"))
	if err == nil {
		t.Fatalf("expected an error for a missing checklist")
	}
	if !strings.Contains(err.Error(), "loading checklist") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetupLoggingToleratesUnwritablePath(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "no", "such", "dir", "ckl.log"), LogLevel: "debug"}
	setupLogging(cfg) // must not panic or write to stderr
}
