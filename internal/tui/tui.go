// Package tui is an interactive gamma adjuster: browse the CRTCs of a site,
// scale their ramps per channel and edit the config file.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/gammactl/internal/config"
	"github.com/1broseidon/gammactl/internal/session"
)

// Run starts the TUI on base's site and blocks until the user quits.
// Ramps changed in the TUI stay applied; the caller decides whether to
// restore them when closing sess.
func Run(sess *session.Session, base session.Target, res *config.LoadResult, configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(sess, base, res, configPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
