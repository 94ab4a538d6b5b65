// Package fault classifies the failures a reconciliation run can meet.
//
// Transport and Application faults are local to one participant or
// conference: they are reported and the run goes on. Data and Config
// faults abort the run.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport: the control plane could not be reached or spoke an
	// unexpected protocol.
	KindTransport
	// KindApplication: the control plane answered that the operation was
	// unsuccessful.
	KindApplication
	// KindData: the state store is unreadable or corrupt.
	KindData
	// KindConfig: static configuration is missing or invalid.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	case KindData:
		return "data"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed
// (e.g. "participant.status").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s fault: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s fault: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Transport(op string, err error) error   { return newError(KindTransport, op, err) }
func Application(op string, err error) error { return newError(KindApplication, op, err) }
func Data(op string, err error) error        { return newError(KindData, op, err) }
func Config(op string, err error) error      { return newError(KindConfig, op, err) }

// As returns the first classified error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Fatal reports whether err must abort the whole run.
func Fatal(err error) bool {
	switch KindOf(err) {
	case KindData, KindConfig:
		return true
	default:
		return false
	}
}
