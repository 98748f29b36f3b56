package sstable

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code classifies the kind of failure a Status carries.
type Code int

// The error kinds a Status can take. The zero value, StatusOK, is success.
const (
	StatusOK Code = iota
	NotFound
	Corruption
	NotSupported
	InvalidArgument
	IOError
)

func (c Code) String() string {
	switch c {
	case StatusOK:
		return "OK"
	case NotFound:
		return "NotFound"
	case Corruption:
		return "Corruption"
	case NotSupported:
		return "NotSupported"
	case InvalidArgument:
		return "InvalidArgument"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Status is a tagged success/error value with an optional attached message
// and cause, modeled on leveldb::Status. Its zero value is success, so a
// *Writer can embed a Status by value and use it as the sticky first-error
// field spec.md describes without ever needing a nil check.
type Status struct {
	code Code
	msg  string
	err  error
}

// OK returns the distinguished success value.
func OK() Status { return Status{} }

// Ok reports whether the status represents success.
func (s Status) Ok() bool { return s.code == StatusOK }

// Code returns the status's kind.
func (s Status) Code() Code { return s.code }

// Cause returns the underlying error that produced an IOError status, if
// any, so callers can unwrap via errors.Cause-style inspection.
func (s Status) Cause() error { return s.err }

// Error implements the error interface so a Status can be returned directly
// from functions with an `error` return type.
func (s Status) Error() string {
	if s.Ok() {
		return "sstable: OK"
	}
	if s.msg == "" {
		return fmt.Sprintf("sstable: %s", s.code)
	}
	return fmt.Sprintf("sstable: %s: %s", s.code, s.msg)
}

func newStatus(code Code, msg string) Status {
	return Status{code: code, msg: msg}
}

// NotFoundf builds a NotFound status.
func NotFoundf(format string, args ...interface{}) Status {
	return newStatus(NotFound, fmt.Sprintf(format, args...))
}

// Corruptionf builds a Corruption status.
func Corruptionf(format string, args ...interface{}) Status {
	return newStatus(Corruption, fmt.Sprintf(format, args...))
}

// NotSupportedf builds a NotSupported status.
func NotSupportedf(format string, args ...interface{}) Status {
	return newStatus(NotSupported, fmt.Sprintf(format, args...))
}

// InvalidArgumentf builds an InvalidArgument status.
func InvalidArgumentf(format string, args ...interface{}) Status {
	return newStatus(InvalidArgument, fmt.Sprintf(format, args...))
}

// IOErrorFrom wraps an underlying file-sink error as an IOError status,
// preserving it as the Cause so callers can still inspect the original
// error returned by the append-only sink.
func IOErrorFrom(cause error) Status {
	if cause == nil {
		return OK()
	}
	return Status{
		code: IOError,
		msg:  cause.Error(),
		err:  errors.Wrap(cause, "sstable: write failed"),
	}
}
