package metascene

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Sentinel causes carried by PreconditionError.
var (
	ErrCapacity      = errors.New("capacity exceeded")
	ErrNotPowerOfTwo = errors.New("texture dimensions are not a power of two")
	ErrStateOverflow = errors.New("render state stack overflow")
	ErrDecode        = errors.New("image decode failed")
	ErrTextureUpload = errors.New("texture upload failed")
	ErrIndexOverflow = errors.New("vertex index out of range for binding")
	ErrLeakedObjects = errors.New("live objects at shutdown")
)

// CorruptionError reports a broken internal invariant: a bad cookie, a
// refcount underflow, a damaged live list or a mismatched state scope.
// It is always raised through the fatal path.
type CorruptionError struct {
	Op     string
	Object string
	Reason string
}

func (e *CorruptionError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("metascene: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("metascene: %s: %s (%s)", e.Op, e.Reason, e.Object)
}

// UnsupportedTypeError reports an object type, subtype or init payload that
// the operation does not handle. It is raised through the fatal path.
type UnsupportedTypeError struct {
	Op      string
	Type    ObjectType
	Subtype Subtype
	Detail  string
}

func (e *UnsupportedTypeError) Error() string {
	msg := fmt.Sprintf("metascene: %s: unsupported object type %s/%s", e.Op, e.Type, e.Subtype)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// PreconditionError reports a caller mistake that leaves the scene graph
// consistent, such as an exceeded capacity or a non-power-of-two texture.
// It is returned, never raised.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("metascene: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func precondition(op string, err error) error {
	return &PreconditionError{Op: op, Err: err}
}

// fatal reports err and never returns. The configured OnFatal hook runs
// first; if it returns, the registry panics with err so that no further
// drawing happens after corruption.
func (r *Registry) fatal(err error) {
	r.logger.Error("fatal scene graph error", slog.String("error", err.Error()))
	if r.cfg.OnFatal != nil {
		r.cfg.OnFatal(err)
	}
	panic(err)
}

func (r *Registry) corrupt(op string, o *Object, reason string) {
	var desc string
	if o != nil {
		desc = o.describe()
	}
	r.fatal(&CorruptionError{Op: op, Object: desc, Reason: reason})
}

func (r *Registry) unsupported(op string, t ObjectType, s Subtype, detail string) {
	r.fatal(&UnsupportedTypeError{Op: op, Type: t, Subtype: s, Detail: detail})
}

// ExitOnFatal is an OnFatal hook for frame drivers: it writes the error to
// stderr and terminates the process with status 1.
func ExitOnFatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[metascene] fatal: %v\n", err)
	os.Exit(1)
}
