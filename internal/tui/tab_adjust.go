package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gammactl/internal/ramp"
	"github.com/1broseidon/gammactl/internal/session"
)

const (
	gainStep = 0.05
	barWidth = 40
)

var channelColours = [3]lipgloss.Color{"196", "42", "33"}

// AdjustTab scales the identity ramp of one CRTC per channel.
type AdjustTab struct {
	sess     *session.Session
	target   session.Target
	selected bool

	gains   [3]float64
	channel ramp.Colour

	status string
	failed bool

	width  int
	height int
}

// NewAdjustTab returns a tab with every gain at 1.
func NewAdjustTab(sess *session.Session) AdjustTab {
	return AdjustTab{sess: sess, gains: [3]float64{1, 1, 1}}
}

// Select makes t the CRTC that apply and restore act on.
func (a *AdjustTab) Select(t session.Target) {
	a.target = t
	a.selected = true
	a.status = ""
	a.failed = false
}

// Gains returns the red, green and blue gains.
func (a AdjustTab) Gains() [3]float64 { return a.gains }

// Init implements tea.Model.
func (a AdjustTab) Init() tea.Cmd { return nil }

// Update handles messages for the adjust tab.
func (a AdjustTab) Update(msg tea.Msg) (AdjustTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			a.channel = (a.channel + 2) % 3
		case "down", "j":
			a.channel = (a.channel + 1) % 3
		case "left", "h":
			a.nudge(-gainStep)
		case "right", "l":
			a.nudge(gainStep)
		case "i":
			a.gains = [3]float64{1, 1, 1}
		case "enter":
			a.report("applied", a.apply())
		case "r":
			err := a.restore()
			if err == nil {
				a.gains = [3]float64{1, 1, 1}
			}
			a.report("restored", err)
			return a, refresh
		}
	}
	return a, nil
}

func (a *AdjustTab) nudge(delta float64) {
	g := a.gains[a.channel] + delta
	// Snap to the step grid so repeated nudges do not drift.
	g = float64(int(g/gainStep+0.5)) * gainStep
	a.gains[a.channel] = min(max(g, 0), 1)
}

func (a *AdjustTab) report(done string, err error) {
	if err != nil {
		a.status = err.Error()
		a.failed = true
		return
	}
	a.status = done
	a.failed = false
}

func (a *AdjustTab) apply() error {
	if !a.selected {
		return fmt.Errorf("no CRTC selected")
	}
	crtc, err := a.sess.CRTC(a.target)
	if err != nil {
		return err
	}
	store, err := session.NewStoreFor(crtc)
	if err != nil {
		return err
	}
	ramp.Identity(store)
	for c := ramp.Red; c <= ramp.Blue; c++ {
		values := ramp.UnitValues(store, c)
		for i := range values {
			values[i] *= a.gains[c]
		}
		if err := ramp.SetUnitValues(store, c, values); err != nil {
			return err
		}
	}
	return crtc.SetGamma(store)
}

func (a *AdjustTab) restore() error {
	if !a.selected {
		return fmt.Errorf("no CRTC selected")
	}
	return a.sess.Restore(a.target, session.LevelCRTC)
}

// View renders one gain bar per channel.
func (a AdjustTab) View() string {
	if !a.selected {
		return dimStyle.Render("Select a CRTC on the CRTCs tab and press enter.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Partition %d, CRTC %d\n\n", a.target.Partition, a.target.CRTC)
	for c := ramp.Red; c <= ramp.Blue; c++ {
		cursor := "  "
		if c == a.channel {
			cursor = "> "
		}
		filled := int(a.gains[c]*barWidth + 0.5)
		bar := lipgloss.NewStyle().Foreground(channelColours[c]).Render(strings.Repeat("█", filled)) +
			dimStyle.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "%s%-6s %s %4.2f\n", cursor, c, bar, a.gains[c])
	}
	if a.status != "" {
		b.WriteByte('\n')
		if a.failed {
			b.WriteString(errStyle.Render(a.status))
		} else {
			b.WriteString(okStyle.Render(a.status))
		}
	}
	return b.String()
}
