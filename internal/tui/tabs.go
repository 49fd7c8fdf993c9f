package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabCRTCs Tab = iota
	TabAdjust
	TabSettings
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabCRTCs:
		return "CRTCs"
	case TabAdjust:
		return "Adjust"
	case TabSettings:
		return "Settings"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := string(rune('1'+int(i))) + ":" + i.String()
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows the open site and the CRTC being adjusted.
func renderStatusBar(site, selected, message string, failed bool, width int) string {
	dot := okStyle.Render("●")
	if site == "" {
		dot = dimStyle.Render("●")
		site = "no site"
	}
	parts := []string{dot + " " + site}
	if selected != "" {
		parts = append(parts, "crtc:"+selected)
	}
	if message != "" {
		if failed {
			parts = append(parts, errStyle.Render(message))
		} else {
			parts = append(parts, message)
		}
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(strings.Join(parts, "  "))
}

// renderHelpBar renders the bottom help/keybinding bar for tab.
func renderHelpBar(tab Tab, width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump to tab  q/ctrl-c: quit"
	switch tab {
	case TabCRTCs:
		help = "↑/↓: select  enter: adjust  R: restore site  " + help
	case TabAdjust:
		help = "↑/↓: channel  ←/→: gain  i: identity  enter: apply  r: restore  " + help
	case TabSettings:
		help = "e: edit  ctrl-s: save  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
