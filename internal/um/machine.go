// Package um implements the Universal Machine's register file, the
// per-opcode instruction semantics, and the fetch-decode-dispatch loop that
// ties them together with a segment.Store for memory and a pair of byte
// streams for host I/O.
//
// The dispatch loop is the hot path: real programs run it billions of
// times, so Step avoids interfaces and allocation in the common case and
// dispatches through a dense [16]opHandler array indexed directly by the
// 4-bit opcode field rather than a long if/else chain.
package um

import (
	"bufio"
	"io"
	"runtime/debug"

	"goum/internal/segment"
	"goum/internal/word"
)

// numRegisters is fixed by the architecture: eight general-purpose 32-bit
// registers, no more, no less.
const numRegisters = 8

// Bit layout of an instruction word. The opcode occupies the top four bits
// for every instruction; everything else depends on the opcode.
const (
	opcodeWidth = 4
	opcodeLSB   = 28

	// Load Value (opcode 13) packs its destination register and a 25-bit
	// immediate instead of the usual three 3-bit operands.
	loadValueRegWidth = 3
	loadValueRegLSB   = 25
	loadValueImmWidth = 25
	loadValueImmLSB   = 0

	// Every other opcode packs three 3-bit register selectors.
	regAWidth, regALSB = 3, 6
	regBWidth, regBLSB = 3, 3
	regCWidth, regCLSB = 3, 0
)

// Opcode names the 14 Universal Machine instructions.
type Opcode uint8

const (
	OpConditionalMove Opcode = 0
	OpSegmentedLoad   Opcode = 1
	OpSegmentedStore  Opcode = 2
	OpAddition        Opcode = 3
	OpMultiplication  Opcode = 4
	OpDivision        Opcode = 5
	OpBitwiseNAND     Opcode = 6
	OpHalt            Opcode = 7
	OpMapSegment      Opcode = 8
	OpUnmapSegment    Opcode = 9
	OpOutput          Opcode = 10
	OpInput           Opcode = 11
	OpLoadProgram     Opcode = 12
	OpLoadValue       Opcode = 13

	opcodeCount = 16 // the field is 4 bits wide; 14 and 15 are invalid
)

// operands holds every field a handler might need, decoded once up front so
// that the dispatch table payload stays uniform across opcodes.
type operands struct {
	a, b, c uint32
	imm     uint32
}

// Machine is one Universal Machine instance: eight registers, a program
// counter into segment 0, a segment store, and the two host byte streams.
// A Machine is owned by exactly one goroutine for its entire lifetime —
// nothing here takes a lock.
type Machine struct {
	regs [numRegisters]uint32
	pc   uint32

	store *segment.Store

	stdin  *bufio.Reader
	stdout *bufio.Writer

	halted bool
	err    error

	trace Tracer
}

// New constructs a Machine whose segment 0 is program and whose byte I/O is
// wired to in/out. Ownership of program passes to the returned Machine's
// segment store, matching segment.New's contract.
func New(program []uint32, in io.Reader, out io.Writer) *Machine {
	return &Machine{
		store:  segment.New(segment.Segment(program)),
		stdin:  bufio.NewReader(in),
		stdout: bufio.NewWriter(out),
	}
}

// SetTrace installs a step tracer (see trace.go). A nil tracer disables
// tracing, which is the default.
func (m *Machine) SetTrace(t Tracer) {
	m.trace = t
}

// Registers returns a snapshot of the eight general-purpose registers,
// useful for tests and the interactive debugger.
func (m *Machine) Registers() [numRegisters]uint32 {
	return m.regs
}

// PC returns the current program counter.
func (m *Machine) PC() uint32 {
	return m.pc
}

// Halted reports whether the machine has executed a Halt instruction.
func (m *Machine) Halted() bool {
	return m.halted
}

func decode(w uint32) (Opcode, operands) {
	op := Opcode(word.Get32(w, opcodeWidth, opcodeLSB))
	if op == OpLoadValue {
		return op, operands{
			a:   word.Get32(w, loadValueRegWidth, loadValueRegLSB),
			imm: word.Get32(w, loadValueImmWidth, loadValueImmLSB),
		}
	}
	return op, operands{
		a: word.Get32(w, regAWidth, regALSB),
		b: word.Get32(w, regBWidth, regBLSB),
		c: word.Get32(w, regCWidth, regCLSB),
	}
}

// Step executes exactly one instruction: fetch the word at segment 0 offset
// PC, decode it, dispatch to the matching semantic, and advance PC (Load
// Program sets PC directly and is not then incremented; Halt stops the
// loop; everything else is PC+1).
//
// Step never panics outward: an out-of-range segment access or use of an
// unmapped identifier surfaces from internal/segment as a slice-index
// panic, which Step recovers here and reports as ErrSegFault.
func (m *Machine) Step() (err error) {
	if m.halted {
		return ErrHalted
	}

	defer func() {
		if r := recover(); r != nil {
			err = ErrSegFault
			m.err = err
		}
	}()

	w := m.store.Load(0, m.pc)
	op, ops := decode(w)

	if m.trace != nil {
		m.trace.TraceStep(m.pc, w, op)
	}

	switch op {
	case OpHalt:
		m.halted = true
		if err := m.stdout.Flush(); err != nil {
			m.err = err
			return err
		}
		return nil
	case OpLoadProgram:
		if m.regs[ops.b] != 0 {
			m.store.DuplicateIntoZero(m.regs[ops.b])
		}
		m.pc = m.regs[ops.c]
		return nil
	default:
		m.pc++
	}

	handler := handlers[op]
	if handler == nil {
		m.err = ErrBadOpcode
		return ErrBadOpcode
	}

	handler(m, ops)
	return m.err
}

// Run executes instructions until Halt, a fatal error, or a segmentation
// trap. ErrHalted is swallowed (it is the clean-exit signal); every other
// non-nil error is returned to the caller, which cmd/um maps to a non-zero
// exit code.
//
// The tight loop of instruction execution runs for a very long time on real
// programs and allocates nothing of its own; a GC pause in the middle of it
// is pure overhead, so the collector is turned off for the duration and
// restored on return.
func (m *Machine) Run() error {
	prev := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prev)

	for {
		if err := m.Step(); err != nil {
			if err == ErrHalted {
				return nil
			}
			return err
		}
	}
}
