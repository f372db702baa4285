// Package probe defines the error taxonomy shared by every system probe.
//
// A probe failure is soft: the caller records it and leaves the matching
// payload field absent. Nothing in this package aborts a collection pass.
package probe

import (
	"errors"
	"fmt"
)

// Kind classifies why a probe could not produce a value.
type Kind int

const (
	// Unavailable means an underlying OS interface could not be read
	// (missing privilege, unsupported platform, missing binary).
	Unavailable Kind = iota
	// SyscallFailed means a system call reported failure.
	SyscallFailed
	// NotFound means the source was readable but held no matching value,
	// or could not be opened at all.
	NotFound
	// TimedOut means the probe exceeded its execution deadline.
	TimedOut
)

// Sentinels for errors.Is matching against a *Error of the same Kind.
var (
	ErrUnavailable   = errors.New("unavailable")
	ErrSyscallFailed = errors.New("syscall failed")
	ErrNotFound      = errors.New("not found")
	ErrTimedOut      = errors.New("timed out")
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Unavailable:
		return "Unavailable"
	case SyscallFailed:
		return "SyscallFailed"
	case NotFound:
		return "NotFound"
	case TimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case Unavailable:
		return ErrUnavailable
	case SyscallFailed:
		return ErrSyscallFailed
	case NotFound:
		return ErrNotFound
	case TimedOut:
		return ErrTimedOut
	default:
		return nil
	}
}

// Error is returned by every probe. Probe names the fact being collected
// ("hardware", "os", "distro", "packages").
type Error struct {
	Probe string
	Kind  Kind
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Probe, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Probe)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Fail builds a probe error. A nil cause is allowed.
func Fail(name string, kind Kind, cause error) *Error {
	return &Error{Probe: name, Kind: kind, Err: cause}
}
