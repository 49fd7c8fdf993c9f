//go:build linux

package drm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
)

// DefaultCardDir is where the kernel creates card nodes.
const DefaultCardDir = "/dev/dri"

const supported = method.InfoEDID | method.InfoMacroViewport | method.InfoMacroRamp |
	method.InfoGammaSupport | method.InfoSubpixelOrder | method.InfoActive | method.InfoMacroConnector

// Method is the Linux DRM adjustment method.
type Method struct {
	cardDir string
}

var _ backend.Method = (*Method)(nil)

// New returns the DRM method reading card nodes from cardDir, or
// DefaultCardDir when cardDir is empty.
func New(cardDir string) *Method {
	if cardDir == "" {
		cardDir = DefaultCardDir
	}
	return &Method{cardDir: cardDir}
}

func (m *Method) ID() method.ID { return method.LinuxDRM }

func (m *Method) Capabilities() method.Capabilities {
	return method.Capabilities{
		CRTCInformation:            supported,
		DefaultSiteKnown:           true,
		MultiplePartitions:         true,
		MultipleCRTCs:              true,
		PartitionsAreGraphicsCards: true,
		SiteRestore:                true,
		PartitionRestore:           true,
		CRTCRestore:                true,
		IdenticalGammaSizes:        true,
		FixedGammaDepth:            true,
		Real:                       true,
	}
}

func (m *Method) DefaultSiteVariable() string { return "" }
func (m *Method) DefaultSite() (string, bool) { return m.cardDir, true }

// Suggested reports whether any card node exists.
func (m *Method) Suggested() bool {
	cards, err := listCards(m.cardDir)
	return err == nil && len(cards) > 0
}

// OpenSite lists the card nodes in name, or in the method's card directory
// when name is empty.
func (m *Method) OpenSite(name string) (backend.Site, int, error) {
	dir := name
	if dir == "" {
		dir = m.cardDir
	}
	cards, err := listCards(dir)
	if err != nil {
		return nil, 0, gammaerr.New("open drm site "+dir, gammaerr.NoSuchSite, err)
	}
	s := &site{
		cards: cards,
		saved: backend.NewSavedRamps(),
		ids:   make(map[backend.Key]uint32),
		open:  make(map[int]*partition),
	}
	for i := range cards {
		s.snapshot(i)
	}
	return s, len(cards), nil
}

// listCards returns the cardN nodes of dir ordered by N.
func listCards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type card struct {
		n    int
		path string
	}
	var cards []card
	for _, e := range entries {
		rest, ok := strings.CutPrefix(e.Name(), "card")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		cards = append(cards, card{n: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].n < cards[j].n })
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.path
	}
	return out, nil
}

type site struct {
	cards []string
	saved *backend.SavedRamps

	mu   sync.Mutex
	ids  map[backend.Key]uint32
	open map[int]*partition
}

// openPartition opens card index and reads its mode resources.
func (s *site) openPartition(index int) (*partition, error) {
	op := fmt.Sprintf("open drm card %d", index)
	f, err := openCard(op, s.cards[index])
	if err != nil {
		return nil, err
	}
	p := &partition{site: s, index: index, f: f, fd: f.Fd()}
	if err := p.loadResources(); err != nil {
		_ = f.Close()
		return nil, gammaerr.New(op, gammaerr.AcquiringModeResourcesFailed, err)
	}
	return p, nil
}

// snapshot remembers the ramps every CRTC of card index has now, so the
// card can be restored later in the session. A card that cannot be opened
// is remembered with the reason.
func (s *site) snapshot(index int) {
	p, err := s.openPartition(index)
	s.saved.SavePartition(index, err)
	if err != nil {
		return
	}
	defer p.f.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range p.crtcIDs {
		k := backend.Key{Partition: index, CRTC: i}
		s.ids[k] = id
		size, err := p.gammaSize(id)
		if err != nil {
			s.saved.Miss(k, gammaerr.New(fmt.Sprintf("query drm crtc %d of card %d", i, index), gammaerr.GammaRampsSizeQueryFailed, err))
			continue
		}
		if size == 0 {
			continue
		}
		r, err := p.readLUT(id, size)
		if err != nil {
			s.saved.Miss(k, gammaerr.New(fmt.Sprintf("read drm crtc %d of card %d", i, index), gammaerr.GammaRampReadFailed, err))
			continue
		}
		s.saved.Save(k, r)
	}
}

func (s *site) OpenPartition(index int) (backend.Partition, int, error) {
	if err := backend.CheckIndex(fmt.Sprintf("open drm card %d", index), index, len(s.cards), gammaerr.NoSuchPartition); err != nil {
		return nil, 0, err
	}
	p, err := s.openPartition(index)
	if err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	s.open[index] = p
	s.mu.Unlock()
	return p, len(p.crtcIDs), nil
}

// openCard opens a card node read-write. A permission failure is diagnosed
// as either a group the caller could join or an outright restriction.
func openCard(op, path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, os.ModeDevice)
	if err == nil {
		return f, nil
	}
	switch {
	case errors.Is(err, unix.EACCES):
		var st unix.Stat_t
		if serr := unix.Stat(path, &st); serr != nil {
			return nil, gammaerr.New(op, gammaerr.DeviceAccessFailed, err)
		}
		if st.Mode&0o060 == 0o060 {
			gammaerr.SetRequiredGroup(int(st.Gid), "")
			return nil, gammaerr.New(op, gammaerr.DeviceRequireGroup, err)
		}
		return nil, gammaerr.New(op, gammaerr.DeviceRestricted, err)
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return nil, gammaerr.New(op, gammaerr.GraphicsCardRemoved, err)
	default:
		return nil, gammaerr.New(op, gammaerr.OpenPartitionFailed, err)
	}
}

// restore writes back the ramps saved when the site was opened, in card
// then CRTC order, stopping at the first failure. Cards without an open
// partition are opened for the duration of the restore.
func (s *site) restore(scope backend.Scope) error {
	temp := make(map[int]*partition)
	defer func() {
		for _, p := range temp {
			_ = p.f.Close()
		}
	}()
	return s.saved.Restore(scope, func(k backend.Key, r backend.Wire16) error {
		s.mu.Lock()
		p, id := s.open[k.Partition], s.ids[k]
		s.mu.Unlock()
		if p == nil {
			p = temp[k.Partition]
		}
		if p == nil {
			var err error
			if p, err = s.openPartition(k.Partition); err != nil {
				return err
			}
			temp[k.Partition] = p
		}
		return p.writeLUT(id, r)
	})
}

func (s *site) Restore() error {
	return s.restore(backend.SiteScope())
}

func (s *site) Close() error { return nil }
