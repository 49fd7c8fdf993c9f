package backend

import (
	"fmt"
	"sync"

	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
)

// Filter selects which methods ListMethods returns.
type Filter int

const (
	// FilterSuggested lists real, non-translated methods the environment
	// suggests will work.
	FilterSuggested Filter = iota
	// FilterSuggestedWithFake also lists translated methods.
	FilterSuggestedWithFake
	// FilterRealNonFake lists every real, non-translated method.
	FilterRealNonFake
	// FilterReal lists every real method.
	FilterReal
	// FilterAll lists every compiled-in method.
	FilterAll
)

// preference is the order methods are listed in.
var preference = []method.ID{
	method.XRandR,
	method.XVidMode,
	method.LinuxDRM,
	method.W32GDI,
	method.QuartzCoreGraphics,
	method.Dummy,
}

// Registry holds the compiled-in methods.
type Registry struct {
	mu      sync.RWMutex
	methods map[method.ID]Method
}

// NewRegistry returns a registry holding ms.
func NewRegistry(ms ...Method) *Registry {
	r := &Registry{methods: make(map[method.ID]Method)}
	for _, m := range ms {
		r.Register(m)
	}
	return r
}

// Register adds m, replacing any method with the same id.
func (r *Registry) Register(m Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.ID()] = m
}

// Lookup returns the method for id or NoSuchAdjustmentMethod.
func (r *Registry) Lookup(id method.ID) (Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[id]
	if !ok {
		return nil, gammaerr.New("lookup "+id.String(), gammaerr.NoSuchAdjustmentMethod, nil)
	}
	return m, nil
}

// IsMethodAvailable reports whether id is compiled in. Unknown ids are simply
// unavailable.
func (r *Registry) IsMethodAvailable(id method.ID) bool {
	_, err := r.Lookup(id)
	return err == nil
}

// MethodCapabilities returns the capabilities of id.
func (r *Registry) MethodCapabilities(id method.ID) (method.Capabilities, error) {
	m, err := r.Lookup(id)
	if err != nil {
		return method.Capabilities{}, err
	}
	return m.Capabilities(), nil
}

// MethodDefaultSite returns the default site of id, if it can be determined.
func (r *Registry) MethodDefaultSite(id method.ID) (string, bool) {
	m, err := r.Lookup(id)
	if err != nil {
		return "", false
	}
	return m.DefaultSite()
}

// MethodDefaultSiteVariable returns the environment variable selecting the
// default site of id, if the method has one.
func (r *Registry) MethodDefaultSiteVariable(id method.ID) (string, bool) {
	m, err := r.Lookup(id)
	if err != nil {
		return "", false
	}
	v := m.DefaultSiteVariable()
	return v, v != ""
}

// ListMethods returns the ids accepted by filter in order of preference.
func (r *Registry) ListMethods(filter Filter) ([]method.ID, error) {
	if filter < FilterSuggested || filter > FilterAll {
		return nil, fmt.Errorf("invalid method filter %d", int(filter))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []method.ID
	for _, id := range preference {
		m, ok := r.methods[id]
		if !ok {
			continue
		}
		if accepts(filter, m) {
			out = append(out, id)
		}
	}
	return out, nil
}

func accepts(filter Filter, m Method) bool {
	caps := m.Capabilities()
	switch filter {
	case FilterAll:
		return true
	case FilterReal:
		return caps.Real
	case FilterRealNonFake:
		return caps.Real && !caps.Fake
	case FilterSuggestedWithFake:
		return caps.Real && m.Suggested()
	default:
		return caps.Real && !caps.Fake && m.Suggested()
	}
}
