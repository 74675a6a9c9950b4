package um

import "errors"

// Fatal runtime errors. Each maps to a non-zero process exit in cmd/um:
// these stop execution immediately with no recovery and no cleanup
// guarantee beyond normal Go teardown.
var (
	ErrDivideByZero = errors.New("um: division by zero")
	ErrOutputRange  = errors.New("um: output value out of 0..255 range")
	ErrAllocFailed  = errors.New("um: segment allocation failed")
)

// ErrHalted is returned by Step once the machine has executed a Halt
// instruction; it is not a failure, it is the normal termination signal.
var ErrHalted = errors.New("um: halted")

// ErrSegFault and ErrBadOpcode surface undefined-behaviour conditions: this
// interpreter traps rather than continuing with unspecified results. A
// slice-index panic from internal/segment (out-of-range offset, unmapped
// segment identifier) is recovered at the top of Step and reported as
// ErrSegFault, and a 4-bit opcode outside 0..13 is reported as ErrBadOpcode
// rather than silently falling through.
var (
	ErrSegFault  = errors.New("um: segmentation fault")
	ErrBadOpcode = errors.New("um: invalid opcode")
)
