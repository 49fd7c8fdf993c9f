package gamma

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
)

// Partition is a group of CRTCs within a site, such as an X screen or a
// graphics card.
type Partition struct {
	Site  *Site
	Index int

	crtcs int
	h     handle
}

// CRTCsAvailable is the number of CRTCs in the partition.
func (p *Partition) CRTCsAvailable() int { return p.crtcs }

func (p *Partition) native() (backend.Partition, error) {
	if p == nil || p.Site == nil || p.Site.arena == nil {
		return nil, ErrClosed
	}
	n, err := p.Site.arena.lookup(p.h)
	if err != nil {
		return nil, err
	}
	return n.(backend.Partition), nil
}

// OpenCRTC opens CRTC index.
func (p *Partition) OpenCRTC(index int) (*CRTC, error) {
	native, err := p.native()
	if err != nil {
		return nil, err
	}
	op := fmt.Sprintf("open crtc %d of partition %d", index, p.Index)
	if err := backend.CheckIndex(op, index, p.crtcs, gammaerr.NoSuchCRTC); err != nil {
		return nil, err
	}

	nc, err := native.OpenCRTC(index)
	if err != nil {
		return nil, wrap(op, err, gammaerr.OpenCRTCFailed)
	}
	h, err := p.Site.arena.insert(kindCRTC, p.h, nc)
	if err != nil {
		return nil, errors.Join(err, nc.Close())
	}
	p.Site.log.Debug("crtc opened", "partition", p.Index, "crtc", index)
	return &CRTC{Partition: p, Index: index, h: h}, nil
}

// CRTCs opens every CRTC of the partition. On failure the CRTCs opened so
// far are closed again.
func (p *Partition) CRTCs() ([]*CRTC, error) {
	out := make([]*CRTC, 0, p.crtcs)
	for i := 0; i < p.crtcs; i++ {
		c, err := p.OpenCRTC(i)
		if err != nil {
			for _, opened := range out {
				_ = opened.Close()
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Restore returns every CRTC in the partition to its saved or system ramps.
func (p *Partition) Restore() error {
	native, err := p.native()
	if err != nil {
		return err
	}
	op := fmt.Sprintf("restore partition %d", p.Index)
	if !p.Site.caps.PartitionRestore {
		return gammaerr.New(op, gammaerr.Code(syscall.ENOTSUP), nil)
	}
	if err := native.Restore(); err != nil {
		return wrap(op, err, gammaerr.GammaRampWriteFailed)
	}
	p.Site.log.Debug("partition restored", "partition", p.Index)
	return nil
}

// Close releases the partition and its open CRTCs. Closing twice does
// nothing.
func (p *Partition) Close() error {
	if p == nil || p.Site == nil || p.Site.arena == nil {
		return nil
	}
	return p.Site.arena.release(p.h)
}
