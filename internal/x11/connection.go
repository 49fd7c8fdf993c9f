package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// DisplayVariable selects the default X display.
const DisplayVariable = "DISPLAY"

// Connection manages the X11 connection for one display
type Connection struct {
	XUtil   *xgbutil.XUtil
	Display string
}

// Connect opens display, or $DISPLAY when display is empty
func Connect(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}
	if display == "" {
		display = os.Getenv(DisplayVariable)
	}
	return &Connection{XUtil: xu, Display: display}, nil
}

// DefaultDisplay returns $DISPLAY if it is set
func DefaultDisplay() (string, bool) {
	d := os.Getenv(DisplayVariable)
	return d, d != ""
}

// Conn returns the underlying protocol connection
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

// ScreenCount is the number of X screens on the display
func (c *Connection) ScreenCount() int {
	return len(xproto.Setup(c.Conn()).Roots)
}

// Root returns the root window of screen
func (c *Connection) Root(screen int) (xproto.Window, error) {
	roots := xproto.Setup(c.Conn()).Roots
	if screen < 0 || screen >= len(roots) {
		return 0, fmt.Errorf("screen %d not in [0,%d)", screen, len(roots))
	}
	return roots[screen].Root, nil
}

// Atom interns name; xprop caches the result per connection
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	return xprop.Atm(c.XUtil, name)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
