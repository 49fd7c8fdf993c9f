package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/gammactl/internal/gammaerr"
)

func wire(v uint16) Wire16 {
	return Wire16{{v, v}, {v, v}, {v, v}}
}

// recorder collects the keys a restore writes.
type recorder struct {
	keys []Key
	fail Key
	err  error
}

func (r *recorder) write(k Key, _ Wire16) error {
	if r.err != nil && k == r.fail {
		return r.err
	}
	r.keys = append(r.keys, k)
	return nil
}

func twoPartitions() *SavedRamps {
	s := NewSavedRamps()
	s.SavePartition(0, nil)
	s.SavePartition(1, nil)
	s.Save(Key{1, 1}, wire(4))
	s.Save(Key{0, 1}, wire(2))
	s.Save(Key{1, 0}, wire(3))
	s.Save(Key{0, 0}, wire(1))
	return s
}

func TestSavedRamps_RestoreOrderAndScope(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  []Key
	}{
		{"site", SiteScope(), []Key{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{"partition", PartitionScope(1), []Key{{1, 0}, {1, 1}}},
		{"crtc", CRTCScope(Key{0, 1}), []Key{{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recorder
			if err := twoPartitions().Restore(tt.scope, r.write); err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if !slices.Equal(r.keys, tt.want) {
				t.Fatalf("wrote %v, want %v", r.keys, tt.want)
			}
		})
	}
}

func TestSavedRamps_NothingSavedFails(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*SavedRamps)
		scope Scope
	}{
		{"partition never snapshotted", func(*SavedRamps) {}, PartitionScope(0)},
		{"crtc never snapshotted", func(s *SavedRamps) { s.SavePartition(0, nil) }, CRTCScope(Key{0, 3})},
		{"partition unreadable", func(s *SavedRamps) {
			s.SavePartition(0, errors.New("permission denied"))
		}, SiteScope()},
		{"crtc unreadable", func(s *SavedRamps) {
			s.SavePartition(0, nil)
			s.Save(Key{0, 0}, wire(1))
			s.Miss(Key{0, 1}, errors.New("read failed"))
		}, PartitionScope(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSavedRamps()
			tt.setup(s)
			var r recorder
			err := s.Restore(tt.scope, r.write)
			if !errors.Is(err, gammaerr.GammaRampReadFailed) {
				t.Fatalf("Restore err = %v, want GAMMA_RAMP_READ_FAILED", err)
			}
			if len(r.keys) != 0 {
				t.Fatalf("wrote %v before failing", r.keys)
			}
		})
	}
}

func TestSavedRamps_StopsAtFirstWriteFailure(t *testing.T) {
	r := recorder{fail: Key{0, 1}, err: errors.New("bad crtc")}
	err := twoPartitions().Restore(SiteScope(), r.write)
	if !errors.Is(err, gammaerr.GammaRampWriteFailed) {
		t.Fatalf("Restore err = %v, want GAMMA_RAMP_WRITE_FAILED", err)
	}
	if !slices.Equal(r.keys, []Key{{0, 0}}) {
		t.Fatalf("wrote %v, want only the CRTC before the failure", r.keys)
	}
}

func TestSavedRamps_SaveClearsMiss(t *testing.T) {
	s := NewSavedRamps()
	s.SavePartition(0, nil)
	s.Miss(Key{0, 0}, nil)
	s.Save(Key{0, 0}, wire(7))
	if got, ok := s.Saved(Key{0, 0}); !ok || got[0][0] != 7 {
		t.Fatalf("Saved = %v, %v", got, ok)
	}
	var r recorder
	if err := s.Restore(SiteScope(), r.write); err != nil {
		t.Fatalf("Restore: %v", err)
	}
}

func TestSavedRamps_EmptySiteRestores(t *testing.T) {
	var r recorder
	if err := NewSavedRamps().Restore(SiteScope(), r.write); err != nil {
		t.Fatalf("Restore of a site without partitions: %v", err)
	}
}
