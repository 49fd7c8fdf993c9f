package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gammactl/internal/config"
	"github.com/1broseidon/gammactl/internal/session"
)

// refreshMsg asks the CRTCs tab to query its CRTCs again.
type refreshMsg struct{}

func refresh() tea.Msg { return refreshMsg{} }

// model is the root bubbletea model for the TUI.
type model struct {
	sess *session.Session
	base session.Target

	// Tab navigation
	activeTab Tab

	// Sub-models
	crtcsTab    CRTCsTab
	adjustTab   AdjustTab
	settingsTab SettingsTab

	message string
	failed  bool

	// Terminal dimensions
	width  int
	height int
}

func newModel(sess *session.Session, base session.Target, res *config.LoadResult, configPath string) model {
	return model{
		sess:        sess,
		base:        base,
		activeTab:   TabCRTCs,
		crtcsTab:    NewCRTCsTab(sess, base),
		adjustTab:   NewAdjustTab(sess),
		settingsTab: NewSettingsTab(res, configPath, sess.Registry()),
	}
}

// siteLabel names the open site for the status bar.
func (m model) siteLabel() string {
	id, err := m.sess.ResolveMethod(m.base.Method)
	if err != nil {
		return ""
	}
	name := m.base.Site
	if name == "" {
		name = "default"
	}
	return id.String() + " " + name
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// ctrl+s saves from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if err := m.settingsTab.Save(); err != nil {
			m.message, m.failed = "save failed", true
		} else {
			m.message, m.failed = "config saved", false
		}
		return m, nil
	}

	// The settings form consumes keys; only ctrl+c escapes to quit.
	if m.activeTab == TabSettings && m.settingsTab.editing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m = m.resize(msg)
			return m, nil
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil

		case "1":
			m.activeTab = TabCRTCs
			return m, nil
		case "2":
			m.activeTab = TabAdjust
			return m, nil
		case "3":
			m.activeTab = TabSettings
			return m, nil

		case "enter":
			if m.activeTab == TabCRTCs {
				if item, ok := m.crtcsTab.Selected(); ok {
					m.adjustTab.Select(item.target)
					m.activeTab = TabAdjust
				}
				return m, nil
			}

		case "R":
			if m.activeTab == TabCRTCs {
				if err := m.sess.Restore(m.base, session.LevelSite); err != nil {
					m.message, m.failed = err.Error(), true
				} else {
					m.message, m.failed = "site restored", false
				}
				return m, refresh
			}
		}

	case refreshMsg:
		m.crtcsTab, _ = m.crtcsTab.Update(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m = m.resize(msg)
		return m, nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabCRTCs:
		m.crtcsTab, cmd = m.crtcsTab.Update(msg)
	case TabAdjust:
		m.adjustTab, cmd = m.adjustTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.crtcsTab, _ = m.crtcsTab.Update(subMsg)
	m.adjustTab, _ = m.adjustTab.Update(subMsg)
	m.settingsTab, _ = m.settingsTab.Update(subMsg)
	return m
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	selected := ""
	if m.adjustTab.selected {
		selected = targetLabel(m.adjustTab.target)
	}
	statusBar := renderStatusBar(m.siteLabel(), selected, m.message, m.failed, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	var content string
	switch m.activeTab {
	case TabCRTCs:
		content = m.crtcsTab.View()
	case TabAdjust:
		content = m.adjustTab.View()
	case TabSettings:
		content = m.settingsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
