// Package cli wires configuration, session loading and the interactive
// screen behind the ckl command.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ckl-cli/internal/config"
	"ckl-cli/internal/control"
	"ckl-cli/internal/history"
	"ckl-cli/internal/session"
	"ckl-cli/internal/tui"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ckl <checklist>",
		Short: "Work through a checklist",
		Long: `ckl opens a .ckl checklist in an interactive screen.

Progress is saved to a session snapshot after every change, so the same
checklist can be resumed across runs. Use R inside the screen to start over.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
}

func run(listPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	sess := session.New(listPath, cfg.ListsRoot, cfg.SessionsRoot)
	if _, err := sess.Load(); err != nil {
		return fmt.Errorf("loading checklist: %w", err)
	}
	for _, d := range sess.Duplicates {
		log.Warn("duplicate item name", "name", d.Name, "file", d.Path, "line", d.Line)
	}

	backend, err := history.ParseBackend(cfg.History)
	if err != nil {
		log.Warn("disabling history", "err", err)
		backend = history.BackendOff
	}
	hist := history.Open(backend, sess.SnapshotPath)

	ctrl := control.New(sess, hist)
	log.Info("session started",
		"list", sess.ListPath, "snapshot", sess.SnapshotPath, "history", string(backend))
	return tui.Run(ctrl)
}

// setupLogging sends structured logs to the configured file. The terminal
// belongs to the TUI, so on any failure logs are discarded rather than
// written to stderr.
func setupLogging(cfg *config.Config) {
	log.SetOutput(io.Discard)
	if cfg.LogFile == "" || cfg.LogFile == "off" {
		return
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ckl:", err)
		return 1
	}
	return 0
}
