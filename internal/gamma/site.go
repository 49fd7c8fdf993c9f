package gamma

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
)

// Site is a connection to one display environment through one adjustment
// method.
type Site struct {
	// Method is the adjustment method the site was opened with.
	Method method.ID
	// Name is the requested site; "" selects the method's default.
	Name string

	caps       method.Capabilities
	partitions int
	arena      *arena
	h          handle
	log        *slog.Logger
}

// OpenSite opens a site on method id. It either returns an open Site or an
// error, never both.
func OpenSite(reg *backend.Registry, id method.ID, name string, opts ...Option) (*Site, error) {
	o := applyOptions(opts)
	m, err := reg.Lookup(id)
	if err != nil {
		return nil, err
	}

	native, partitions, err := m.OpenSite(name)
	if err != nil {
		return nil, wrap("open "+id.String()+" site", err, gammaerr.OpenSiteFailed)
	}
	if partitions < 0 {
		return nil, errors.Join(
			gammaerr.New("open "+id.String()+" site", gammaerr.NegativePartitionCount, nil),
			native.Close(),
		)
	}

	a := &arena{}
	h, err := a.insert(kindSite, handle{}, native)
	if err != nil {
		return nil, errors.Join(err, native.Close())
	}

	s := &Site{
		Method:     id,
		Name:       name,
		caps:       m.Capabilities(),
		partitions: partitions,
		arena:      a,
		h:          h,
		log:        o.logger.With("method", id.String()),
	}
	s.log.Debug("site opened", "site", name, "partitions", partitions)
	return s, nil
}

// PartitionsAvailable is the number of partitions in the site.
func (s *Site) PartitionsAvailable() int { return s.partitions }

// Capabilities are the capabilities of the site's method.
func (s *Site) Capabilities() method.Capabilities { return s.caps }

// OpenHandles counts the native handles still open under the site,
// including the site itself.
func (s *Site) OpenHandles() int {
	if s.arena == nil {
		return 0
	}
	return s.arena.live()
}

func (s *Site) native() (backend.Site, error) {
	if s == nil || s.arena == nil {
		return nil, ErrClosed
	}
	n, err := s.arena.lookup(s.h)
	if err != nil {
		return nil, err
	}
	return n.(backend.Site), nil
}

// OpenPartition opens partition index.
func (s *Site) OpenPartition(index int) (*Partition, error) {
	native, err := s.native()
	if err != nil {
		return nil, err
	}
	op := fmt.Sprintf("open partition %d", index)
	if err := backend.CheckIndex(op, index, s.partitions, gammaerr.NoSuchPartition); err != nil {
		return nil, err
	}

	np, crtcs, err := native.OpenPartition(index)
	if err != nil {
		return nil, wrap(op, err, gammaerr.OpenPartitionFailed)
	}
	if crtcs < 0 {
		return nil, errors.Join(gammaerr.New(op, gammaerr.NegativeCRTCCount, nil), np.Close())
	}
	h, err := s.arena.insert(kindPartition, s.h, np)
	if err != nil {
		return nil, errors.Join(err, np.Close())
	}
	s.log.Debug("partition opened", "partition", index, "crtcs", crtcs)
	return &Partition{Site: s, Index: index, crtcs: crtcs, h: h}, nil
}

// Partitions opens every partition of the site. On failure the partitions
// opened so far are closed again.
func (s *Site) Partitions() ([]*Partition, error) {
	out := make([]*Partition, 0, s.partitions)
	for i := 0; i < s.partitions; i++ {
		p, err := s.OpenPartition(i)
		if err != nil {
			for _, opened := range out {
				_ = opened.Close()
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Restore returns every CRTC in the site to its saved or system ramps.
func (s *Site) Restore() error {
	native, err := s.native()
	if err != nil {
		return err
	}
	if !s.caps.SiteRestore {
		return gammaerr.New("restore site", gammaerr.Code(syscall.ENOTSUP), nil)
	}
	if err := native.Restore(); err != nil {
		return wrap("restore site", err, gammaerr.GammaRampWriteFailed)
	}
	s.log.Debug("site restored", "site", s.Name)
	return nil
}

// Close releases the site and anything still open beneath it. Closing a
// closed or never opened site does nothing.
func (s *Site) Close() error {
	if s == nil || s.arena == nil {
		return nil
	}
	if _, err := s.arena.lookup(s.h); err != nil {
		return nil
	}
	err := s.arena.release(s.h)
	s.log.Debug("site closed", "site", s.Name, "error", err)
	return err
}
