package word

import "testing"

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestGetBasic(t *testing.T) {
	// Opcode field: bits 31..28 of 0xA0000000 is 0xA.
	assert(t, Get32(0xA0000000, 4, 28) == 0xA, "expected opcode 0xA")
}

func TestGetZeroWidth(t *testing.T) {
	assert(t, Get32(0xFFFFFFFF, 0, 10) == 0, "zero-width field must be zero")
}

func TestGetFullWidth(t *testing.T) {
	assert(t, Get(0xFFFFFFFFFFFFFFFF, 64, 0) == 0xFFFFFFFFFFFFFFFF, "full width shift must not panic or truncate")
}

func TestSetRoundTrip(t *testing.T) {
	w := Set32(0, 4, 28, 0xA)
	w = Set32(w, 3, 6, 0x5)
	w = Set32(w, 3, 3, 0x3)
	w = Set32(w, 3, 0, 0x1)
	assert(t, Get32(w, 4, 28) == 0xA, "opcode round-trip")
	assert(t, Get32(w, 3, 6) == 0x5, "A round-trip")
	assert(t, Get32(w, 3, 3) == 0x3, "B round-trip")
	assert(t, Get32(w, 3, 0) == 0x1, "C round-trip")
}

func TestSetTruncatesOverflow(t *testing.T) {
	// Writing a value wider than the field only ever touches that field.
	w := Set32(0xFFFFFFFF, 4, 28, 0x1F)
	assert(t, Get32(w, 4, 28) == 0xF, "overflowing value truncates to field width")
	assert(t, Get32(w, 28, 0) == 0x0FFFFFFF, "untouched bits are preserved")
}

func TestSetZeroWidthNoop(t *testing.T) {
	w := Set32(0x12345678, 0, 10, 0x1)
	assert(t, w == 0x12345678, "zero-width set must be a no-op")
}

func TestLoadValueEncoding(t *testing.T) {
	// Load Value: opcode 13, A in bits 27..25, 25-bit immediate in bits 24..0.
	var w Word
	w = Set32(w, 4, 28, 13)
	w = Set32(w, 3, 25, 2)
	w = Set32(w, 25, 0, 0x41)
	assert(t, Get32(w, 4, 28) == 13, "load value opcode")
	assert(t, Get32(w, 3, 25) == 2, "load value register")
	assert(t, Get32(w, 25, 0) == 0x41, "load value immediate")
}
