package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/gammactl/internal/gammaerr"
)

// Key identifies a CRTC of a site by partition and CRTC index.
type Key struct {
	Partition int
	CRTC      int
}

// All matches every partition or every CRTC in a Scope.
const All = -1

// Scope selects the CRTCs a restore writes: one CRTC, one partition or
// the whole site.
type Scope struct {
	Partition int
	CRTC      int
}

// SiteScope, PartitionScope and CRTCScope build the scope of a restore.
func SiteScope() Scope                   { return Scope{All, All} }
func PartitionScope(partition int) Scope { return Scope{partition, All} }
func CRTCScope(k Key) Scope              { return Scope{k.Partition, k.CRTC} }

func (s Scope) matches(k Key) bool {
	return (s.Partition == All || s.Partition == k.Partition) && (s.CRTC == All || s.CRTC == k.CRTC)
}

func (s Scope) String() string {
	switch {
	case s.Partition == All:
		return "site"
	case s.CRTC == All:
		return fmt.Sprintf("partition %d", s.Partition)
	default:
		return fmt.Sprintf("crtc %d of partition %d", s.CRTC, s.Partition)
	}
}

// Wire16 is a set of red, green and blue ramps as display servers and the
// kernel exchange them.
type Wire16 [3][]uint16

// SavedRamps holds the ramps every CRTC of a site had when the site was
// opened. Methods record a snapshot per partition at open time and write
// it back on restore. A CRTC or partition whose ramps could not be read is
// remembered with the reason, and restoring it fails instead of silently
// writing nothing.
type SavedRamps struct {
	mu     sync.Mutex
	parts  map[int]error
	ramps  map[Key]Wire16
	missed map[Key]error
}

// NewSavedRamps returns an empty snapshot.
func NewSavedRamps() *SavedRamps {
	return &SavedRamps{
		parts:  make(map[int]error),
		ramps:  make(map[Key]Wire16),
		missed: make(map[Key]error),
	}
}

// SavePartition marks partition as snapshotted. A non-nil err means its
// CRTCs could not be enumerated or read at all.
func (s *SavedRamps) SavePartition(partition int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[partition] = err
}

// Save records the ramps of k.
func (s *SavedRamps) Save(k Key, r Wire16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ramps[k] = r
	delete(s.missed, k)
}

// Miss records that the ramps of k could not be read.
func (s *SavedRamps) Miss(k Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("ramps not read")
	}
	s.missed[k] = err
}

// Saved returns the ramps recorded for k.
func (s *SavedRamps) Saved(k Key) (Wire16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ramps[k]
	return r, ok
}

// Restore writes the saved ramps of every CRTC in scope through write, in
// partition then CRTC order, and stops at the first failure. Before
// writing anything it fails with GAMMA_RAMP_READ_FAILED when a CRTC or
// partition in scope was never snapshotted or could not be read.
func (s *SavedRamps) Restore(scope Scope, write func(Key, Wire16) error) error {
	s.mu.Lock()
	keys, err := s.plan(scope)
	ramps := make([]Wire16, len(keys))
	for i, k := range keys {
		ramps[i] = s.ramps[k]
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	for i, k := range keys {
		if err := write(k, ramps[i]); err != nil {
			return gammaerr.New(fmt.Sprintf("restore crtc %d of partition %d", k.CRTC, k.Partition), gammaerr.GammaRampWriteFailed, err)
		}
	}
	return nil
}

func (s *SavedRamps) plan(scope Scope) ([]Key, error) {
	op := "restore " + scope.String()
	notSaved := func(cause error) error {
		return gammaerr.New(op, gammaerr.GammaRampReadFailed, cause)
	}

	if scope.Partition != All {
		perr, ok := s.parts[scope.Partition]
		if !ok {
			return nil, notSaved(fmt.Errorf("partition %d has no saved ramps", scope.Partition))
		}
		if perr != nil {
			return nil, notSaved(perr)
		}
	}
	parts := make([]int, 0, len(s.parts))
	for p := range s.parts {
		parts = append(parts, p)
	}
	sort.Ints(parts)
	for _, p := range parts {
		if perr := s.parts[p]; perr != nil && (scope.Partition == All || scope.Partition == p) {
			return nil, notSaved(fmt.Errorf("partition %d: %w", p, perr))
		}
	}

	if missed := matching(s.missed, scope); len(missed) > 0 {
		k := missed[0]
		return nil, notSaved(fmt.Errorf("crtc %d of partition %d: %w", k.CRTC, k.Partition, s.missed[k]))
	}
	keys := matching(s.ramps, scope)
	if scope.CRTC != All && len(keys) == 0 {
		return nil, notSaved(fmt.Errorf("crtc %d has no saved ramps", scope.CRTC))
	}
	return keys, nil
}

// matching returns the keys of m in scope, in partition then CRTC order.
func matching[V any](m map[Key]V, scope Scope) []Key {
	var keys []Key
	for k := range m {
		if scope.matches(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Partition != keys[j].Partition {
			return keys[i].Partition < keys[j].Partition
		}
		return keys[i].CRTC < keys[j].CRTC
	})
	return keys
}
