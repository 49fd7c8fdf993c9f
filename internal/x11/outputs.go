package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Output is one RandR output as seen from the CRTC driving it
type Output struct {
	ID            randr.Output
	Name          string
	Connected     bool
	WidthMM       int
	HeightMM      int
	SubpixelOrder byte
}

// CRTC is one RandR CRTC with the outputs it drives
type CRTC struct {
	ID      randr.Crtc
	Outputs []Output
	Enabled bool
}

// InitRandR initializes the RandR extension and returns the server's
// protocol version
func (c *Connection) InitRandR() (major, minor uint32, err error) {
	if err := randr.Init(c.Conn()); err != nil {
		return 0, 0, fmt.Errorf("randr init failed: %w", err)
	}
	v, err := randr.QueryVersion(c.Conn(), 1, 3).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("randr version query failed: %w", err)
	}
	return v.MajorVersion, v.MinorVersion, nil
}

// CRTCs lists every CRTC of the screen rooted at root, in server order,
// including disabled ones
func (c *Connection) CRTCs(root xproto.Window) ([]CRTC, error) {
	resources, err := randr.GetScreenResources(c.Conn(), root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	crtcs := make([]CRTC, len(resources.Crtcs))
	index := make(map[randr.Crtc]int, len(resources.Crtcs))
	for i, id := range resources.Crtcs {
		crtcs[i].ID = id
		index[id] = i
	}

	for _, id := range resources.Outputs {
		info, err := randr.GetOutputInfo(c.Conn(), id, resources.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("failed to get output %d info: %w", id, err)
		}
		i, ok := index[info.Crtc]
		if info.Crtc == 0 || !ok {
			continue
		}
		crtcs[i].Enabled = true
		crtcs[i].Outputs = append(crtcs[i].Outputs, Output{
			ID:            id,
			Name:          string(info.Name),
			Connected:     info.Connection == randr.ConnectionConnected,
			WidthMM:       int(info.MmWidth),
			HeightMM:      int(info.MmHeight),
			SubpixelOrder: info.SubpixelOrder,
		})
	}
	return crtcs, nil
}

// OutputProperty reads the whole value of property name on output. A
// missing property yields nil data and no error.
func (c *Connection) OutputProperty(output randr.Output, name string) ([]byte, error) {
	atom, err := c.Atom(name)
	if err != nil {
		return nil, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	// Length is in 32-bit units; 128 covers an EDID with three extension blocks.
	reply, err := randr.GetOutputProperty(c.Conn(), output, atom, xproto.GetPropertyTypeAny, 0, 128, false, false).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get output property %s: %w", name, err)
	}
	if reply.Format == 0 {
		return nil, nil
	}
	return reply.Data, nil
}
