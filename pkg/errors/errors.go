// Package errors provides structured error reporting for harvester.
//
// Stream subscribers and UI-context tasks run callbacks the caller supplied;
// failures inside them have no return path, so they are reported here
// instead. Install a custom ErrorHandler with SetHandler to route them into
// an application's own telemetry.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindStream indicates a failure delivering a stream event.
	KindStream
	// KindDispatch indicates a task could not be scheduled on the UI context.
	KindDispatch
	// KindHierarchy indicates an invalid view or controller hierarchy mutation.
	KindHierarchy
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration or scenario file.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindStream:
		return "stream"
	case KindDispatch:
		return "dispatch"
	case KindHierarchy:
		return "hierarchy"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// HarvesterError represents a structured error reported by harvester.
type HarvesterError struct {
	// Op is the operation that failed (e.g., "stream.Subject.Send").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Stream names the stream involved, if any.
	Stream string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *HarvesterError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("%s [%s] stream=%s: %v", e.Op, e.Kind, e.Stream, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *HarvesterError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "mainthread.Loop.Run").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by harvester.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *HarvesterError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
