package randr

import (
	"fmt"

	xrandr "github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
	"github.com/1broseidon/gammactl/internal/x11"
)

// subpixelOrders maps the X Render subpixel values RandR reports.
var subpixelOrders = [...]method.SubpixelOrder{
	0: method.SubpixelUnknown,
	1: method.SubpixelHorizontalRGB,
	2: method.SubpixelHorizontalBGR,
	3: method.SubpixelVerticalRGB,
	4: method.SubpixelVerticalBGR,
	5: method.SubpixelNone,
}

type crtc struct {
	site *site
	key  backend.Key
	info x11.CRTC
}

func (c *crtc) op(verb string) string {
	return fmt.Sprintf("%s randr crtc %d of screen %d", verb, c.key.CRTC, c.key.Partition)
}

// output is the first output driven by the CRTC.
func (c *crtc) output() (x11.Output, error) {
	if len(c.info.Outputs) == 0 {
		return x11.Output{}, gammaerr.ConnectorDisabled
	}
	return c.info.Outputs[0], nil
}

func (c *crtc) connected() (x11.Output, error) {
	out, err := c.output()
	if err != nil {
		return out, err
	}
	if !out.Connected {
		return out, gammaerr.NotConnected
	}
	return out, nil
}

func (c *crtc) gammaSize() (int, error) {
	reply, err := xrandr.GetCrtcGammaSize(c.site.conn.Conn(), c.info.ID).Reply()
	if err != nil {
		return 0, gammaerr.New(c.op("query gamma size of"), gammaerr.GammaRampsSizeQueryFailed, err)
	}
	return int(reply.Size), nil
}

func (c *crtc) Information(fields method.InfoField) (*backend.Information, error) {
	info := backend.NewInformation()
	fields &= supported

	if fields&(method.InfoGammaSize|method.InfoGammaSupport) != 0 {
		size, err := c.gammaSize()
		if err == nil {
			info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = size, size, size
			info.GammaSupport = size > 1
		}
		info.Record(fields&(method.InfoGammaSize|method.InfoGammaSupport), err)
	}
	if fields.Has(method.InfoGammaDepth) {
		info.GammaDepth = ramp.Depth16
		info.Succeed(method.InfoGammaDepth)
	}

	if fields.Has(method.InfoEDID) {
		info.Record(method.InfoEDID, c.readEDID(info))
	}
	if fields&method.InfoMacroViewport != 0 {
		out, err := c.connected()
		if err == nil && (out.WidthMM == 0 || out.HeightMM == 0) {
			err = gammaerr.OutputInformationQueryFailed
		}
		info.WidthMM, info.HeightMM = out.WidthMM, out.HeightMM
		info.Record(fields&method.InfoMacroViewport, err)
	}
	if fields.Has(method.InfoSubpixelOrder) {
		out, err := c.connected()
		if err == nil {
			if int(out.SubpixelOrder) >= len(subpixelOrders) {
				err = gammaerr.SubpixelOrderNotRecognised
			} else {
				info.SubpixelOrder = subpixelOrders[out.SubpixelOrder]
			}
		}
		info.Record(method.InfoSubpixelOrder, err)
	}
	if fields.Has(method.InfoActive) {
		out, err := c.output()
		info.Active = err == nil && out.Connected
		info.Succeed(method.InfoActive)
	}
	if fields.Has(method.InfoConnectorName) {
		out, err := c.output()
		info.ConnectorName = out.Name
		info.Record(method.InfoConnectorName, err)
	}
	if fields.Has(method.InfoConnectorType) {
		out, err := c.output()
		if err == nil {
			ct, ok := method.ConnectorTypeFromName(out.Name)
			if !ok {
				err = gammaerr.ConnectorTypeNotRecognised
			}
			info.ConnectorType = ct
		}
		info.Record(method.InfoConnectorType, err)
	}
	return info, nil
}

func (c *crtc) readEDID(info *backend.Information) error {
	out, err := c.output()
	if err != nil {
		return err
	}
	data, err := c.site.conn.OutputProperty(out.ID, "EDID")
	if err != nil {
		return gammaerr.New(c.op("read EDID of"), gammaerr.PropertyValueQueryFailed, err)
	}
	if len(data) == 0 {
		return gammaerr.EDIDNotFound
	}
	info.EDID = data
	return nil
}

func (c *crtc) ReadRamps(dst ramp.Store) error {
	reply, err := xrandr.GetCrtcGamma(c.site.conn.Conn(), c.info.ID).Reply()
	if err != nil {
		return gammaerr.New(c.op("read ramps of"), gammaerr.GammaRampReadFailed, err)
	}
	if int(reply.Size) != dst.Sizes().Red {
		return gammaerr.New(c.op("read ramps of"), gammaerr.GammaRampSizeChanged, nil)
	}
	return backend.FromWire16(dst, reply.Red, reply.Green, reply.Blue)
}

func (c *crtc) WriteRamps(src ramp.Store) error {
	red, green, blue, err := backend.ToWire16(src)
	if err != nil {
		return gammaerr.New(c.op("write ramps of"), gammaerr.WrongGammaRampSize, err)
	}
	err = xrandr.SetCrtcGammaChecked(c.site.conn.Conn(), c.info.ID, uint16(len(red)), red, green, blue).Check()
	if err != nil {
		return gammaerr.New(c.op("write ramps of"), gammaerr.GammaRampWriteFailed, err)
	}
	return nil
}

func (c *crtc) Restore() error {
	return c.site.restore(backend.CRTCScope(c.key))
}

func (c *crtc) Close() error { return nil }
