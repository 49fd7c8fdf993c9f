//go:build linux

package drm

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// From <drm/drm.h> and <drm/drm_mode.h>
const (
	ioctlBase = 'd'

	nrGetResources = 0xA0
	nrGetCRTC      = 0xA1
	nrGetGamma     = 0xA4
	nrSetGamma     = 0xA5
	nrGetEncoder   = 0xA6
	nrGetConnector = 0xA7
	nrGetProperty  = 0xAA
	nrGetPropBlob  = 0xAC

	connectionConnected = 1
)

// iowr encodes a read/write ioctl request for a structure of size bytes.
func iowr(nr uintptr, size uintptr) uintptr {
	const read, write = 2, 1
	return (read|write)<<30 | size<<16 | ioctlBase<<8 | nr
}

type cardRes struct {
	FBIDPtr         uint64
	CRTCIDPtr       uint64
	ConnectorIDPtr  uint64
	EncoderIDPtr    uint64
	CountFBs        uint32
	CountCRTCs      uint32
	CountConnectors uint32
	CountEncoders   uint32
	MinWidth        uint32
	MaxWidth        uint32
	MinHeight       uint32
	MaxHeight       uint32
}

type modeInfo struct {
	Clock      uint32
	HDisplay   uint16
	HSyncStart uint16
	HSyncEnd   uint16
	HTotal     uint16
	HSkew      uint16
	VDisplay   uint16
	VSyncStart uint16
	VSyncEnd   uint16
	VTotal     uint16
	VScan      uint16
	VRefresh   uint32
	Flags      uint32
	Type       uint32
	Name       [32]byte
}

type modeCRTC struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CRTCID           uint32
	FBID             uint32
	X                uint32
	Y                uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             modeInfo
}

type crtcLUT struct {
	CRTCID    uint32
	GammaSize uint32
	Red       uint64
	Green     uint64
	Blue      uint64
}

type getEncoder struct {
	EncoderID      uint32
	EncoderType    uint32
	CRTCID         uint32
	PossibleCRTCs  uint32
	PossibleClones uint32
}

type getConnector struct {
	EncodersPtr     uint64
	ModesPtr        uint64
	PropsPtr        uint64
	PropValuesPtr   uint64
	CountModes      uint32
	CountProps      uint32
	CountEncoders   uint32
	EncoderID       uint32
	ConnectorID     uint32
	ConnectorType   uint32
	ConnectorTypeID uint32
	Connection      uint32
	MMWidth         uint32
	MMHeight        uint32
	Subpixel        uint32
	Pad             uint32
}

type getProperty struct {
	ValuesPtr      uint64
	EnumBlobPtr    uint64
	PropID         uint32
	Flags          uint32
	Name           [32]byte
	CountValues    uint32
	CountEnumBlobs uint32
}

type getBlob struct {
	BlobID uint32
	Length uint32
	Data   uint64
}

// ioctl issues request on fd with arg as its in/out structure. keep holds
// buffers whose addresses arg carries so they outlive the call.
func ioctl[T any](fd uintptr, nr uintptr, arg *T, keep ...any) error {
	req := iowr(nr, unsafe.Sizeof(*arg))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(arg)))
	runtime.KeepAlive(arg)
	runtime.KeepAlive(keep)
	if errno != 0 {
		return fmt.Errorf("ioctl 0x%08x failed: %w", req, errno)
	}
	return nil
}

func ptr32(s []uint32) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

func ptr16(s []uint16) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

func ptr64(s []uint64) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

func ptrBytes(s []byte) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}
