//go:build linux

package drm

import (
	"fmt"
	"os"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// connectorTypes maps DRM_MODE_CONNECTOR_* values.
var connectorTypes = [...]method.ConnectorType{
	0:  method.ConnectorUnknown,
	1:  method.ConnectorVGA,
	2:  method.ConnectorDVII,
	3:  method.ConnectorDVID,
	4:  method.ConnectorDVIA,
	5:  method.ConnectorComposite,
	6:  method.ConnectorSVideo,
	7:  method.ConnectorLVDS,
	8:  method.ConnectorComponent,
	9:  method.Connector9PinDIN,
	10: method.ConnectorDisplayPort,
	11: method.ConnectorHDMIA,
	12: method.ConnectorHDMIB,
	13: method.ConnectorTV,
	14: method.ConnectorEDP,
	15: method.ConnectorVirtual,
	16: method.ConnectorDSI,
}

// subpixelOrders maps DRM_MODE_SUBPIXEL_* values.
var subpixelOrders = map[uint32]method.SubpixelOrder{
	1: method.SubpixelUnknown,
	2: method.SubpixelHorizontalRGB,
	3: method.SubpixelHorizontalBGR,
	4: method.SubpixelVerticalRGB,
	5: method.SubpixelVerticalBGR,
	6: method.SubpixelNone,
}

type partition struct {
	site  *site
	index int
	f     *os.File
	fd    uintptr

	crtcIDs      []uint32
	connectorIDs []uint32
}

// loadResources fetches the card's CRTC and connector ids. The first call
// sizes the arrays, the second fills them.
func (p *partition) loadResources() error {
	var res cardRes
	if err := ioctl(p.fd, nrGetResources, &res); err != nil {
		return err
	}
	fbs := make([]uint32, res.CountFBs)
	crtcs := make([]uint32, res.CountCRTCs)
	connectors := make([]uint32, res.CountConnectors)
	encoders := make([]uint32, res.CountEncoders)
	res.FBIDPtr = ptr32(fbs)
	res.CRTCIDPtr = ptr32(crtcs)
	res.ConnectorIDPtr = ptr32(connectors)
	res.EncoderIDPtr = ptr32(encoders)
	if err := ioctl(p.fd, nrGetResources, &res, fbs, crtcs, connectors, encoders); err != nil {
		return err
	}
	if int(res.CountCRTCs) != len(crtcs) || int(res.CountConnectors) != len(connectors) {
		return fmt.Errorf("mode resources changed while reading them")
	}
	p.crtcIDs = crtcs
	p.connectorIDs = connectors
	return nil
}

func (p *partition) gammaSize(crtcID uint32) (int, error) {
	c := modeCRTC{CRTCID: crtcID}
	if err := ioctl(p.fd, nrGetCRTC, &c); err != nil {
		return 0, err
	}
	return int(c.GammaSize), nil
}

func (p *partition) readLUT(crtcID uint32, size int) (backend.Wire16, error) {
	r := backend.Wire16{make([]uint16, size), make([]uint16, size), make([]uint16, size)}
	lut := crtcLUT{
		CRTCID:    crtcID,
		GammaSize: uint32(size),
		Red:       ptr16(r[0]),
		Green:     ptr16(r[1]),
		Blue:      ptr16(r[2]),
	}
	if err := ioctl(p.fd, nrGetGamma, &lut, r[0], r[1], r[2]); err != nil {
		return backend.Wire16{}, err
	}
	return r, nil
}

func (p *partition) writeLUT(crtcID uint32, r backend.Wire16) error {
	lut := crtcLUT{
		CRTCID:    crtcID,
		GammaSize: uint32(len(r[0])),
		Red:       ptr16(r[0]),
		Green:     ptr16(r[1]),
		Blue:      ptr16(r[2]),
	}
	return ioctl(p.fd, nrSetGamma, &lut, r[0], r[1], r[2])
}

func (p *partition) OpenCRTC(index int) (backend.CRTC, error) {
	op := fmt.Sprintf("open drm crtc %d of card %d", index, p.index)
	if err := backend.CheckIndex(op, index, len(p.crtcIDs), gammaerr.NoSuchCRTC); err != nil {
		return nil, err
	}
	id := p.crtcIDs[index]
	if _, err := p.gammaSize(id); err != nil {
		return nil, gammaerr.New(op, gammaerr.OpenCRTCFailed, err)
	}
	return &crtc{part: p, index: index, id: id}, nil
}

func (p *partition) Restore() error {
	return p.site.restore(backend.PartitionScope(p.index))
}

func (p *partition) Close() error {
	p.site.mu.Lock()
	if p.site.open[p.index] == p {
		delete(p.site.open, p.index)
	}
	p.site.mu.Unlock()
	return p.f.Close()
}

type crtc struct {
	part  *partition
	index int
	id    uint32
}

func (c *crtc) op(verb string) string {
	return fmt.Sprintf("%s drm crtc %d of card %d", verb, c.index, c.part.index)
}

// connector finds the connector whose encoder drives the CRTC. The caller
// gets the full connector record including property ids.
func (c *crtc) connector() (*connectorInfo, error) {
	fd := c.part.fd
	for _, id := range c.part.connectorIDs {
		var conn getConnector
		conn.ConnectorID = id
		if err := ioctl(fd, nrGetConnector, &conn); err != nil {
			return nil, gammaerr.New(c.op("query connector of"), gammaerr.OutputInformationQueryFailed, err)
		}
		if conn.EncoderID == 0 {
			continue
		}
		enc := getEncoder{EncoderID: conn.EncoderID}
		if err := ioctl(fd, nrGetEncoder, &enc); err != nil {
			continue
		}
		if enc.CRTCID != c.id {
			continue
		}
		return readConnector(fd, id)
	}
	return nil, gammaerr.ConnectorDisabled
}

type connectorInfo struct {
	getConnector
	props  []uint32
	values []uint64
}

func readConnector(fd uintptr, id uint32) (*connectorInfo, error) {
	for {
		var conn getConnector
		conn.ConnectorID = id
		if err := ioctl(fd, nrGetConnector, &conn); err != nil {
			return nil, gammaerr.New("query drm connector", gammaerr.OutputInformationQueryFailed, err)
		}
		want := conn.CountProps
		props := make([]uint32, want)
		values := make([]uint64, want)
		conn.PropsPtr = ptr32(props)
		conn.PropValuesPtr = ptr64(values)
		conn.CountModes, conn.CountEncoders = 0, 0
		if err := ioctl(fd, nrGetConnector, &conn, props, values); err != nil {
			return nil, gammaerr.New("query drm connector", gammaerr.OutputInformationQueryFailed, err)
		}
		// A hotplug between the two calls changes the count; try again.
		if conn.CountProps != want {
			continue
		}
		return &connectorInfo{getConnector: conn, props: props, values: values}, nil
	}
}

func (ci *connectorInfo) name() string {
	names := [...]string{"Unknown", "VGA", "DVI-I", "DVI-D", "DVI-A", "Composite", "SVIDEO",
		"LVDS", "Component", "DIN", "DP", "HDMI-A", "HDMI-B", "TV", "eDP", "Virtual", "DSI"}
	t := "Unknown"
	if int(ci.ConnectorType) < len(names) {
		t = names[ci.ConnectorType]
	}
	return fmt.Sprintf("%s-%d", t, ci.ConnectorTypeID)
}

// edid reads the blob behind the connector's EDID property.
func (ci *connectorInfo) edid(fd uintptr) ([]byte, error) {
	for i, prop := range ci.props {
		gp := getProperty{PropID: prop}
		if err := ioctl(fd, nrGetProperty, &gp); err != nil {
			return nil, gammaerr.New("query drm property", gammaerr.PropertyValueQueryFailed, err)
		}
		if cstring(gp.Name[:]) != "EDID" {
			continue
		}
		blob := getBlob{BlobID: uint32(ci.values[i])}
		if blob.BlobID == 0 {
			return nil, gammaerr.EDIDNotFound
		}
		if err := ioctl(fd, nrGetPropBlob, &blob); err != nil {
			return nil, gammaerr.New("read drm EDID blob", gammaerr.PropertyValueQueryFailed, err)
		}
		data := make([]byte, blob.Length)
		blob.Data = ptrBytes(data)
		if err := ioctl(fd, nrGetPropBlob, &blob, data); err != nil {
			return nil, gammaerr.New("read drm EDID blob", gammaerr.PropertyValueQueryFailed, err)
		}
		return data, nil
	}
	return nil, gammaerr.EDIDNotFound
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func (c *crtc) Information(fields method.InfoField) (*backend.Information, error) {
	info := backend.NewInformation()
	fields &= supported

	ramps := fields & (method.InfoGammaSize | method.InfoGammaSupport)
	if ramps != 0 {
		size, err := c.part.gammaSize(c.id)
		if err != nil {
			info.Fail(ramps, gammaerr.New(c.op("query gamma size of"), gammaerr.GammaRampsSizeQueryFailed, err))
		} else {
			info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = size, size, size
			info.GammaSupport = size > 1
			info.Succeed(ramps)
		}
	}
	if fields.Has(method.InfoGammaDepth) {
		info.GammaDepth = ramp.Depth16
		info.Succeed(method.InfoGammaDepth)
	}

	rest := fields &^ method.InfoMacroRamp &^ method.InfoGammaSupport
	if rest == 0 {
		return info, nil
	}
	conn, err := c.connector()
	if err != nil {
		if fields.Has(method.InfoActive) {
			info.Active = false
			info.Succeed(method.InfoActive)
			rest &^= method.InfoActive
		}
		info.Fail(rest, err)
		return info, nil
	}

	connected := conn.Connection == connectionConnected
	notConnected := func(f method.InfoField) bool {
		if !connected {
			info.Fail(f, gammaerr.NotConnected)
		}
		return !connected
	}

	if fields.Has(method.InfoActive) {
		info.Active = connected
		info.Succeed(method.InfoActive)
	}
	if fields.Has(method.InfoConnectorName) {
		info.ConnectorName = conn.name()
		info.Succeed(method.InfoConnectorName)
	}
	if fields.Has(method.InfoConnectorType) {
		if int(conn.ConnectorType) < len(connectorTypes) {
			info.ConnectorType = connectorTypes[conn.ConnectorType]
			info.Succeed(method.InfoConnectorType)
		} else {
			info.Fail(method.InfoConnectorType, gammaerr.ConnectorTypeNotRecognised)
		}
	}
	if vp := fields & method.InfoMacroViewport; vp != 0 && !notConnected(vp) {
		info.WidthMM, info.HeightMM = int(conn.MMWidth), int(conn.MMHeight)
		info.Succeed(vp)
	}
	if fields.Has(method.InfoSubpixelOrder) && !notConnected(method.InfoSubpixelOrder) {
		if order, ok := subpixelOrders[conn.Subpixel]; ok {
			info.SubpixelOrder = order
			info.Succeed(method.InfoSubpixelOrder)
		} else {
			info.Fail(method.InfoSubpixelOrder, gammaerr.SubpixelOrderNotRecognised)
		}
	}
	if fields.Has(method.InfoEDID) && !notConnected(method.InfoEDID) {
		data, err := conn.edid(c.part.fd)
		info.EDID = data
		info.Record(method.InfoEDID, err)
	}
	return info, nil
}

func (c *crtc) ReadRamps(dst ramp.Store) error {
	r, err := c.part.readLUT(c.id, dst.Sizes().Red)
	if err != nil {
		return gammaerr.New(c.op("read ramps of"), gammaerr.GammaRampReadFailed, err)
	}
	return backend.FromWire16(dst, r[0], r[1], r[2])
}

func (c *crtc) WriteRamps(src ramp.Store) error {
	red, green, blue, err := backend.ToWire16(src)
	if err != nil {
		return gammaerr.New(c.op("write ramps of"), gammaerr.WrongGammaRampSize, err)
	}
	if err := c.part.writeLUT(c.id, backend.Wire16{red, green, blue}); err != nil {
		return gammaerr.New(c.op("write ramps of"), gammaerr.GammaRampWriteFailed, err)
	}
	return nil
}

func (c *crtc) Restore() error {
	return c.part.site.restore(backend.CRTCScope(backend.Key{Partition: c.part.index, CRTC: c.index}))
}

func (c *crtc) Close() error { return nil }
