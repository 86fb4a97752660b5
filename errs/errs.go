// Package errs defines the closed set of protocol error kinds shared by the
// account, program, runtime, ledger and daemon packages.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable numeric ordinal, not a free-form string: clients pin
// against the integer, not the message.
type ErrorCode int

const (
	InvalidInstruction ErrorCode = iota
	InvalidAccount
	InvalidPda
	NotImplemented
	OutOfRandomness
	LastRevealedTooOld
	IncorrectRevelation
	BlockhashUnavailable
	InvalidRevealCall
	CallbackComputeUnitLimitExceeded
	InvalidArgument
)

var names = map[ErrorCode]string{
	InvalidInstruction:               "InvalidInstruction",
	InvalidAccount:                   "InvalidAccount",
	InvalidPda:                       "InvalidPda",
	NotImplemented:                   "NotImplemented",
	OutOfRandomness:                  "OutOfRandomness",
	LastRevealedTooOld:               "LastRevealedTooOld",
	IncorrectRevelation:              "IncorrectRevelation",
	BlockhashUnavailable:             "BlockhashUnavailable",
	InvalidRevealCall:                "InvalidRevealCall",
	CallbackComputeUnitLimitExceeded: "CallbackComputeUnitLimitExceeded",
	InvalidArgument:                  "InvalidArgument",
}

func (c ErrorCode) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// ProtocolError is the single error type every program-level failure returns.
type ProtocolError struct {
	Code ErrorCode
	Msg  string
}

func (e *ProtocolError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New builds a *ProtocolError. Every instruction failure in program/ goes
// through here so the error kind is never lost behind fmt.Errorf wrapping.
func New(code ErrorCode, msg string) error {
	return &ProtocolError{Code: code, Msg: msg}
}

func Newf(code ErrorCode, format string, args ...any) error {
	return &ProtocolError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, if any step in the chain is a
// *ProtocolError. Returns (0, false) otherwise — callers must check ok.
func CodeOf(err error) (ErrorCode, bool) {
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe == nil {
		return 0, false
	}
	return pe.Code, true
}
