package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gamma"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/session"
)

// crtcItem is a list item for one CRTC of the open site.
type crtcItem struct {
	target session.Target
	info   *gamma.Information
	err    error
}

func (i crtcItem) label() string { return targetLabel(i.target) }

// targetLabel formats t as partition/crtc.
func targetLabel(t session.Target) string {
	return fmt.Sprintf("%d/%d", t.Partition, t.CRTC)
}

func (i crtcItem) Title() string {
	name := ""
	if i.info != nil && i.info.State(method.InfoConnectorName) == backend.FieldOK {
		name = i.info.ConnectorName
	}
	marker := dimStyle.Render("·")
	switch {
	case i.info == nil:
		marker = errStyle.Render("✗")
	case i.info.State(method.InfoActive) == backend.FieldOK && i.info.Active:
		marker = okStyle.Render("✓")
	}
	return strings.TrimSpace(marker + " " + i.label() + " " + name)
}

func (i crtcItem) Description() string {
	if i.info == nil {
		if i.err != nil {
			return i.err.Error()
		}
		return "(no information)"
	}
	if i.info.State(method.InfoGammaSize) != backend.FieldOK {
		return "gamma size unknown"
	}
	depth := "?"
	if i.info.State(method.InfoGammaDepth) == backend.FieldOK {
		depth = i.info.GammaDepth.String()
	}
	return fmt.Sprintf("ramps %s depth %s", i.info.Sizes(), depth)
}

func (i crtcItem) FilterValue() string { return i.label() }

// CRTCsTab lists every CRTC of the open site next to its information.
type CRTCsTab struct {
	list   list.Model
	sess   *session.Session
	base   session.Target
	err    error
	width  int
	height int
}

// NewCRTCsTab opens base's site through sess and queries every CRTC.
func NewCRTCsTab(sess *session.Session, base session.Target) CRTCsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "CRTCs"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	c := CRTCsTab{list: l, sess: sess, base: base}
	c.reload()
	return c
}

func (c *CRTCsTab) reload() {
	items, err := loadCRTCs(c.sess, c.base)
	c.err = err
	c.list.SetItems(items)
}

func loadCRTCs(sess *session.Session, base session.Target) ([]list.Item, error) {
	site, err := sess.Site(base.Method, base.Site)
	if err != nil {
		return nil, err
	}
	var items []list.Item
	for p := 0; p < site.PartitionsAvailable(); p++ {
		t := base
		t.Partition = p
		part, err := sess.Partition(t)
		if err != nil {
			return items, err
		}
		for i := 0; i < part.CRTCsAvailable(); i++ {
			t.CRTC = i
			item := crtcItem{target: t}
			crtc, err := sess.CRTC(t)
			if err != nil {
				item.err = err
			} else {
				item.info, item.err = crtc.Information(method.InfoAll)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// Selected returns the highlighted CRTC.
func (c CRTCsTab) Selected() (crtcItem, bool) {
	item, ok := c.list.SelectedItem().(crtcItem)
	return item, ok
}

// Init implements tea.Model.
func (c CRTCsTab) Init() tea.Cmd { return nil }

// Update handles messages for the CRTCs tab.
func (c CRTCsTab) Update(msg tea.Msg) (CRTCsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		leftWidth := c.width * 2 / 5
		if leftWidth < 24 {
			leftWidth = 24
		}
		c.list.SetSize(leftWidth, c.height)
		return c, nil

	case refreshMsg:
		c.reload()
		return c, nil
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

// View renders the list and the selected CRTC's information.
func (c CRTCsTab) View() string {
	if c.err != nil && len(c.list.Items()) == 0 {
		return errStyle.Render("open site: " + c.err.Error())
	}
	left := c.list.View()
	detail := ""
	if item, ok := c.Selected(); ok {
		detail = renderInformation(item)
	}
	right := lipgloss.NewStyle().
		PaddingLeft(2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("238")).
		Render(detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderInformation(item crtcItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Partition %d, CRTC %d\n\n", item.target.Partition, item.target.CRTC)
	if item.info == nil {
		if item.err != nil {
			b.WriteString(errStyle.Render(item.err.Error()))
		}
		return b.String()
	}
	for _, f := range method.InfoAll.Fields() {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", f)))
		switch item.info.State(f) {
		case backend.FieldOK:
			fmt.Fprintf(&b, "%v", item.info.Value(f))
		case backend.FieldFailed:
			b.WriteString(errStyle.Render(item.info.Err(f).Error()))
		default:
			b.WriteString(dimStyle.Render("-"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
