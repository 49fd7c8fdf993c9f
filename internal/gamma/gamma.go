// Package gamma is the client object model: a Site opened on an adjustment
// method, its Partitions and their CRTCs.
//
// Every object is a handle into an arena owned by its Site. Closing a
// handle releases the native resource exactly once; closing a parent
// releases whatever is still open beneath it. Accessors on a closed object
// fail with ErrClosed.
//
// Objects are not safe for concurrent use. Distinct objects under one Site
// may be used from different goroutines only when the method's backend is
// reentrant.
package gamma

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
)

// ErrClosed is returned by accessors on an object that has been closed.
var ErrClosed = errors.New("gamma: use of closed handle")

// Information is the result of a CRTC information query.
type Information = backend.Information

// Option configures OpenSite.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives open, close and restore events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// wrap annotates a backend error with op. Errors that carry no code are
// given fallback so every failure surfaces as a classifiable code.
func wrap(op string, err error, fallback gammaerr.Code) error {
	if err == nil {
		return nil
	}
	if gammaerr.Of(err, gammaerr.OK) != gammaerr.OK {
		return fmt.Errorf("%s: %w", op, err)
	}
	return gammaerr.New(op, fallback, err)
}
