package backend

import (
	"github.com/1broseidon/gammactl/internal/edid"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// FieldState is the outcome of one requested information field.
type FieldState int

const (
	FieldNotRequested FieldState = iota
	FieldOK
	FieldFailed
)

func (s FieldState) String() string {
	switch s {
	case FieldOK:
		return "ok"
	case FieldFailed:
		return "failed"
	default:
		return "not requested"
	}
}

// Information is the result of a CRTC information query. A value is only
// meaningful when its field's state is FieldOK.
type Information struct {
	EDID []byte

	WidthMM  int
	HeightMM int

	WidthMMEDID  int
	HeightMMEDID int

	RedGammaSize   int
	GreenGammaSize int
	BlueGammaSize  int
	GammaDepth     ramp.Depth
	GammaSupport   bool

	SubpixelOrder method.SubpixelOrder
	Active        bool
	ConnectorName string
	ConnectorType method.ConnectorType

	GammaRed   float64
	GammaGreen float64
	GammaBlue  float64

	status map[method.InfoField]error
}

// NewInformation returns an empty result with no field attempted.
func NewInformation() *Information {
	return &Information{status: make(map[method.InfoField]error)}
}

// Succeed marks every field in mask as read.
func (i *Information) Succeed(mask method.InfoField) {
	i.ensure()
	for _, f := range mask.Fields() {
		i.status[f] = nil
	}
}

// Fail marks every field in mask as failed with err.
func (i *Information) Fail(mask method.InfoField, err error) {
	if err == nil {
		err = gammaerr.StateUnknown
	}
	i.ensure()
	for _, f := range mask.Fields() {
		i.status[f] = err
	}
}

// Record is Succeed when err is nil and Fail otherwise.
func (i *Information) Record(mask method.InfoField, err error) {
	if err != nil {
		i.Fail(mask, err)
		return
	}
	i.Succeed(mask)
}

// State reports the outcome of a single field.
func (i *Information) State(field method.InfoField) FieldState {
	err, ok := i.status[field]
	switch {
	case !ok:
		return FieldNotRequested
	case err != nil:
		return FieldFailed
	default:
		return FieldOK
	}
}

// Err returns the failure of a single field, or nil when it succeeded or was
// not requested.
func (i *Information) Err(field method.InfoField) error { return i.status[field] }

// Code is Err translated into an error code.
func (i *Information) Code(field method.InfoField) gammaerr.Code {
	return gammaerr.Of(i.status[field], gammaerr.StateUnknown)
}

// Attempted returns the mask of fields with a recorded outcome.
func (i *Information) Attempted() method.InfoField {
	var m method.InfoField
	for f := range i.status {
		m |= f
	}
	return m
}

// Failed returns the mask of fields that failed.
func (i *Information) Failed() method.InfoField {
	var m method.InfoField
	for f, err := range i.status {
		if err != nil {
			m |= f
		}
	}
	return m
}

// Sizes returns the reported ramp sizes.
func (i *Information) Sizes() ramp.Sizes {
	return ramp.Sizes{Red: i.RedGammaSize, Green: i.GreenGammaSize, Blue: i.BlueGammaSize}
}

// Value returns the value of a single field in a printable form: EDID as
// lowercase hex, enumerations by name, ramp sizes as a three-element slice.
// It is nil unless the field's state is FieldOK.
func (i *Information) Value(field method.InfoField) any {
	if i.State(field) != FieldOK {
		return nil
	}
	switch field {
	case method.InfoEDID:
		return edid.Behex(i.EDID)
	case method.InfoWidthMM:
		return i.WidthMM
	case method.InfoHeightMM:
		return i.HeightMM
	case method.InfoWidthMMEDID:
		return i.WidthMMEDID
	case method.InfoHeightMMEDID:
		return i.HeightMMEDID
	case method.InfoGammaSize:
		return []int{i.RedGammaSize, i.GreenGammaSize, i.BlueGammaSize}
	case method.InfoGammaDepth:
		return i.GammaDepth.String()
	case method.InfoGammaSupport:
		return i.GammaSupport
	case method.InfoSubpixelOrder:
		return i.SubpixelOrder.String()
	case method.InfoActive:
		return i.Active
	case method.InfoConnectorName:
		return i.ConnectorName
	case method.InfoConnectorType:
		return i.ConnectorType.String()
	case method.InfoGamma:
		return []float64{i.GammaRed, i.GammaGreen, i.GammaBlue}
	}
	return nil
}

func (i *Information) ensure() {
	if i.status == nil {
		i.status = make(map[method.InfoField]error)
	}
}
