// Package gammaerr defines the error codes shared by every adjustment method
// and the object model built on top of them.
//
// A Code is a signed integer living in exactly one of three namespaces: zero
// is success, positive values are platform errno numbers and negative values
// are library-defined kinds between Min and -1.
package gammaerr

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// Code is an error code. It implements error so it can be returned and
// wrapped directly.
type Code int

// Kind tells which namespace a Code belongs to.
type Kind int

const (
	KindOK Kind = iota
	KindErrno
	KindLibrary
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindErrno:
		return "errno"
	case KindLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// Classification is the result of Classify.
type Classification struct {
	Kind  Kind
	Errno syscall.Errno // set for KindErrno
	Code  Code          // set for KindLibrary and KindUnknown
}

// Classify sorts code into its namespace. Negative codes below Min are
// reported as KindUnknown.
func Classify(code Code) Classification {
	switch {
	case code == 0:
		return Classification{Kind: KindOK}
	case code > 0:
		return Classification{Kind: KindErrno, Errno: syscall.Errno(code)}
	case code >= Min:
		return Classification{Kind: KindLibrary, Code: code}
	default:
		return Classification{Kind: KindUnknown, Code: code}
	}
}

// Name returns the symbolic name of a library-defined error code. OK is
// not an error and has no name.
func Name(code Code) (string, bool) {
	if code >= 0 || code < Min {
		return "", false
	}
	return kinds[-code].name, true
}

// ValueOf returns the code whose symbolic name is name. Unknown names map to
// OK; that is a convention, not an error.
func ValueOf(name string) Code {
	name = strings.TrimSpace(strings.ToUpper(name))
	name = strings.TrimPrefix(name, "LIBGAMMA_")
	return byName[name]
}

// Describe returns a human-readable description of code in any namespace.
func Describe(code Code) string {
	switch c := Classify(code); c.Kind {
	case KindOK:
		return kinds[0].desc
	case KindErrno:
		return c.Errno.Error()
	case KindLibrary:
		return kinds[-code].desc
	default:
		return fmt.Sprintf("Unknown error %d", int(code))
	}
}

func (c Code) Error() string {
	switch cl := Classify(c); cl.Kind {
	case KindErrno:
		return cl.Errno.Error()
	case KindLibrary, KindOK:
		return "gamma: " + strings.ToLower(strings.ReplaceAll(kinds[-c].name, "_", " "))
	default:
		return fmt.Sprintf("gamma: unknown error code %d", int(c))
	}
}

// Is lets errors.Is match an errno-namespace Code against a syscall.Errno.
func (c Code) Is(target error) bool {
	var errno syscall.Errno
	if c > 0 && errors.As(target, &errno) {
		return Code(errno) == c
	}
	return false
}

// Error attaches an operation name and an optional cause to a Code.
type Error struct {
	Op   string
	Code Code
	Err  error
}

// New returns an *Error for op carrying code and cause.
func New(op string, code Code, cause error) *Error {
	return &Error{Op: op, Code: code, Err: cause}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Code.Error())
	if e.Err != nil && !errors.Is(e.Err, e.Code) {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

// Of extracts the code carried by err. Errors that carry neither a Code nor
// a syscall.Errno map to fallback.
func Of(err error, fallback Code) Code {
	if err == nil {
		return OK
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	var code Code
	if errors.As(err, &code) {
		return code
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return Code(errno)
	}
	return fallback
}
