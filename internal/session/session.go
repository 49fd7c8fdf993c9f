// Package session resolves user-facing targets (method name, site,
// partition and CRTC indices) to open gamma objects and keeps them open
// until the session ends, so a later restore returns to the ramps that
// were in effect when each object was first opened.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/config"
	"github.com/1broseidon/gammactl/internal/gamma"
	"github.com/1broseidon/gammactl/internal/method"
)

// Target names one CRTC. Empty Method and Site fall back to the config.
type Target struct {
	Method    string
	Site      string
	Partition int
	CRTC      int
}

// Level selects what Restore acts on.
type Level string

const (
	LevelSite      Level = "site"
	LevelPartition Level = "partition"
	LevelCRTC      Level = "crtc"
)

// ParseLevel accepts site, partition or crtc. Empty means crtc.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelCRTC, nil
	case LevelSite, LevelPartition, LevelCRTC:
		return l, nil
	default:
		return "", fmt.Errorf("unknown restore level %q (want site, partition or crtc)", s)
	}
}

type siteKey struct {
	id   method.ID
	name string
}

type partKey struct {
	site  siteKey
	index int
}

type crtcKey struct {
	part  partKey
	index int
}

// Session caches open objects. It is safe for concurrent use; calls are
// serialized.
type Session struct {
	reg *backend.Registry
	cfg *config.Config
	log *slog.Logger

	mu    sync.Mutex
	sites map[siteKey]*gamma.Site
	parts map[partKey]*gamma.Partition
	crtcs map[crtcKey]*gamma.CRTC
}

// New returns a session over reg. cfg supplies the default method and
// site; log receives object lifecycle events.
func New(reg *backend.Registry, cfg *config.Config, log *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		reg:   reg,
		cfg:   cfg,
		log:   log,
		sites: make(map[siteKey]*gamma.Site),
		parts: make(map[partKey]*gamma.Partition),
		crtcs: make(map[crtcKey]*gamma.CRTC),
	}
}

// Registry returns the registry the session opens sites from.
func (s *Session) Registry() *backend.Registry { return s.reg }

// ResolveMethod maps name (or the configured method when name is empty) to
// an id. "auto" picks the first method the environment suggests.
func (s *Session) ResolveMethod(name string) (method.ID, error) {
	if strings.TrimSpace(name) == "" {
		name = s.cfg.Method
	}
	if strings.TrimSpace(name) == "" || strings.EqualFold(strings.TrimSpace(name), config.MethodAuto) {
		ids, err := s.reg.ListMethods(backend.FilterSuggested)
		if err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return method.Dummy, nil
		}
		return ids[0], nil
	}
	id, err := method.Parse(name)
	if err != nil {
		return 0, err
	}
	if !s.reg.IsMethodAvailable(id) {
		return 0, fmt.Errorf("adjustment method %s is not available on this system", id)
	}
	return id, nil
}

func (s *Session) siteName(id method.ID, name string) string {
	if name != "" {
		return name
	}
	if s.cfg.Site != "" {
		return s.cfg.Site
	}
	if (id == method.XRandR || id == method.XVidMode) && s.cfg.Display != "" {
		return s.cfg.Display
	}
	return ""
}

func (s *Session) siteLocked(methodName, name string) (*gamma.Site, siteKey, error) {
	id, err := s.ResolveMethod(methodName)
	if err != nil {
		return nil, siteKey{}, err
	}
	key := siteKey{id: id, name: s.siteName(id, name)}
	if site, ok := s.sites[key]; ok {
		return site, key, nil
	}
	site, err := gamma.OpenSite(s.reg, id, key.name, gamma.WithLogger(s.log))
	if err != nil {
		return nil, siteKey{}, err
	}
	s.sites[key] = site
	return site, key, nil
}

// Site returns the open site for methodName and name, opening it on first
// use.
func (s *Session) Site(methodName, name string) (*gamma.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, _, err := s.siteLocked(methodName, name)
	return site, err
}

func (s *Session) partitionLocked(t Target) (*gamma.Partition, partKey, error) {
	site, sk, err := s.siteLocked(t.Method, t.Site)
	if err != nil {
		return nil, partKey{}, err
	}
	key := partKey{site: sk, index: t.Partition}
	if p, ok := s.parts[key]; ok {
		return p, key, nil
	}
	p, err := site.OpenPartition(t.Partition)
	if err != nil {
		return nil, partKey{}, err
	}
	s.parts[key] = p
	return p, key, nil
}

// Partition returns the open partition of t.
func (s *Session) Partition(t Target) (*gamma.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _, err := s.partitionLocked(t)
	return p, err
}

// CRTC returns the open CRTC t names.
func (s *Session) CRTC(t Target) (*gamma.CRTC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, pk, err := s.partitionLocked(t)
	if err != nil {
		return nil, err
	}
	key := crtcKey{part: pk, index: t.CRTC}
	if c, ok := s.crtcs[key]; ok {
		return c, nil
	}
	c, err := p.OpenCRTC(t.CRTC)
	if err != nil {
		return nil, err
	}
	s.crtcs[key] = c
	return c, nil
}

// Restore restores t at level.
func (s *Session) Restore(t Target, level Level) error {
	switch level {
	case LevelSite:
		site, err := s.Site(t.Method, t.Site)
		if err != nil {
			return err
		}
		return site.Restore()
	case LevelPartition:
		p, err := s.Partition(t)
		if err != nil {
			return err
		}
		return p.Restore()
	default:
		c, err := s.CRTC(t)
		if err != nil {
			return err
		}
		return c.Restore()
	}
}

// Close closes every site the session opened. Closing a site releases its
// partitions and CRTCs.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for key, site := range s.sites {
		if err := site.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s site %q: %w", key.id, key.name, err))
		}
	}
	clear(s.sites)
	clear(s.parts)
	clear(s.crtcs)
	return errors.Join(errs...)
}
