package um

// opHandler implements one opcode's semantics against a decoded operand
// set. Handlers that can fail set m.err and leave it for Step to surface;
// they do not return an error directly so that the dispatch table's
// payload type stays uniform.
//
// Halt and Load Program are handled directly in Step because they affect
// PC advance in a way no other opcode does; they have no entry here.
type opHandler func(m *Machine, ops operands)

// handlers is the dense dispatch table, indexed directly by the 4-bit
// opcode, no if/else chain. Entries for Halt and Load Program are left nil
// (Step intercepts both before reaching this table); entries 14 and 15 are
// nil because the opcode field only ever names 14 valid instructions —
// reaching either is ErrBadOpcode.
var handlers = [opcodeCount]opHandler{
	OpConditionalMove: opConditionalMove,
	OpSegmentedLoad:   opSegmentedLoad,
	OpSegmentedStore:  opSegmentedStore,
	OpAddition:        opAddition,
	OpMultiplication:  opMultiplication,
	OpDivision:        opDivision,
	OpBitwiseNAND:     opBitwiseNAND,
	OpMapSegment:      opMapSegment,
	OpUnmapSegment:    opUnmapSegment,
	OpOutput:          opOutput,
	OpInput:           opInput,
	OpLoadValue:       opLoadValue,
}

func opConditionalMove(m *Machine, ops operands) {
	if m.regs[ops.c] != 0 {
		m.regs[ops.a] = m.regs[ops.b]
	}
}

func opSegmentedLoad(m *Machine, ops operands) {
	m.regs[ops.a] = m.store.Load(m.regs[ops.b], m.regs[ops.c])
}

func opSegmentedStore(m *Machine, ops operands) {
	m.store.Store(m.regs[ops.a], m.regs[ops.b], m.regs[ops.c])
}

func opAddition(m *Machine, ops operands) {
	// uint32 addition already wraps at 2^32.
	m.regs[ops.a] = m.regs[ops.b] + m.regs[ops.c]
}

func opMultiplication(m *Machine, ops operands) {
	m.regs[ops.a] = m.regs[ops.b] * m.regs[ops.c]
}

func opDivision(m *Machine, ops operands) {
	if m.regs[ops.c] == 0 {
		m.err = ErrDivideByZero
		return
	}
	m.regs[ops.a] = m.regs[ops.b] / m.regs[ops.c]
}

func opBitwiseNAND(m *Machine, ops operands) {
	m.regs[ops.a] = ^(m.regs[ops.b] & m.regs[ops.c])
}

func opMapSegment(m *Machine, ops operands) {
	id, err := m.store.Map(m.regs[ops.c])
	if err != nil {
		m.err = ErrAllocFailed
		return
	}
	m.regs[ops.b] = id
}

func opUnmapSegment(m *Machine, ops operands) {
	m.store.Unmap(m.regs[ops.c])
}

func opOutput(m *Machine, ops operands) {
	v := m.regs[ops.c]
	if v > 0xFF {
		m.err = ErrOutputRange
		return
	}
	if err := m.stdout.WriteByte(byte(v)); err != nil {
		m.err = err
	}
	// No Flush here: Output runs in the hot loop and buffering across many
	// calls is the point of bufio.Writer. Flush happens at Halt, and in
	// opInput before it reads, so any prompt the program just printed is
	// visible before it waits on a byte.
}

// eofSentinel is the value Input writes into the destination register on
// end of stream: all ones.
const eofSentinel = 0xFFFFFFFF

func opInput(m *Machine, ops operands) {
	if err := m.stdout.Flush(); err != nil {
		m.err = err
		return
	}
	b, err := m.stdin.ReadByte()
	if err != nil {
		m.regs[ops.c] = eofSentinel
		return
	}
	m.regs[ops.c] = uint32(b)
}

func opLoadValue(m *Machine, ops operands) {
	m.regs[ops.a] = ops.imm
}
