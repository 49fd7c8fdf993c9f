package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/config"
)

var settingsPaths = []string{"method", "site", "log_level", "display", "drm_card_dir"}

// SettingsTab edits the top-level config keys. Edits go to a copy; the
// running session keeps the config it was started with.
type SettingsTab struct {
	res  *config.LoadResult
	cfg  config.Config
	path string
	reg  *backend.Registry

	dirty  bool
	status string
	failed bool

	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values
	fMethod   string
	fSite     string
	fLogLevel string
	fDisplay  string
}

// NewSettingsTab wraps res. path is where ctrl-s saves; empty means the
// default config path.
func NewSettingsTab(res *config.LoadResult, path string, reg *backend.Registry) SettingsTab {
	s := SettingsTab{res: res, path: path, reg: reg}
	if res != nil && res.Config != nil {
		s.cfg = *res.Config
	} else {
		s.cfg = *config.DefaultConfig()
	}
	return s
}

// Init implements tea.Model.
func (s SettingsTab) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func (s *SettingsTab) startEditing() {
	s.fMethod = s.cfg.Method
	s.fSite = s.cfg.Site
	s.fLogLevel = s.cfg.LogLevel
	s.fDisplay = s.cfg.Display

	levels := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warn", "warn"),
		huh.NewOption("error", "error"),
	}

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("method").
				Title("Method").
				Description("Adjustment method used when none is given").
				Options(s.methodOptions()...).
				Value(&s.fMethod),

			huh.NewInput().
				Key("site").
				Title("Site").
				Description("Empty selects the method's default site").
				Value(&s.fSite),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levels...).
				Value(&s.fLogLevel),

			huh.NewInput().
				Key("display").
				Title("Display").
				Description("X display used when no site is set").
				Value(&s.fDisplay),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func (s *SettingsTab) methodOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(config.MethodAuto, config.MethodAuto)}
	if s.reg == nil {
		return opts
	}
	ids, err := s.reg.ListMethods(backend.FilterAll)
	if err != nil {
		return opts
	}
	for _, id := range ids {
		opts = append(opts, huh.NewOption(id.String(), id.String()))
	}
	return opts
}

func (s *SettingsTab) applyForm() {
	next := s.cfg
	next.Method = strings.TrimSpace(s.fMethod)
	next.Site = strings.TrimSpace(s.fSite)
	next.LogLevel = s.fLogLevel
	next.Display = strings.TrimSpace(s.fDisplay)
	if err := next.Validate(); err != nil {
		s.status = err.Error()
		s.failed = true
		return
	}
	if next.Method != s.cfg.Method || next.Site != s.cfg.Site ||
		next.LogLevel != s.cfg.LogLevel || next.Display != s.cfg.Display {
		s.dirty = true
	}
	s.cfg = next
	s.status = ""
	s.failed = false
}

// Save writes the edited config.
func (s *SettingsTab) Save() error {
	if err := s.cfg.Save(s.path); err != nil {
		s.status = err.Error()
		s.failed = true
		return err
	}
	s.dirty = false
	s.status = "saved"
	s.failed = false
	return nil
}

// Config returns the edited config.
func (s SettingsTab) Config() config.Config { return s.cfg }

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.form.View()
	}
	var b strings.Builder
	edited := &config.LoadResult{Config: &s.cfg}
	if s.res != nil {
		edited.Sources = s.res.Sources
	}
	for _, path := range settingsPaths {
		value, src, err := config.Explain(edited, path)
		if err != nil {
			continue
		}
		shown := fmt.Sprint(value)
		if shown == "" {
			shown = dimStyle.Render("(unset)")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", labelStyle.Render(fmt.Sprintf("%-14s", path)), shown, dimStyle.Render(src.String()))
	}
	if s.dirty {
		b.WriteString("\n" + okStyle.Render("modified, ctrl-s to save"))
	}
	if s.status != "" {
		b.WriteByte('\n')
		if s.failed {
			b.WriteString(errStyle.Render(s.status))
		} else {
			b.WriteString(okStyle.Render(s.status))
		}
	}
	return b.String()
}
