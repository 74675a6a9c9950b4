package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"goum/internal/um"
)

// errBadProgramSize reports a program file whose length isn't a whole
// number of 32-bit words — the UM instruction stream has no concept of a
// partial word, so this is rejected before the machine ever starts.
type errBadProgramSize struct {
	size int64
}

func (e *errBadProgramSize) Error() string {
	return fmt.Sprintf("um: program size %d is not a multiple of 4 bytes", e.size)
}

// loadProgram reads a UM program file and decodes it into the big-endian
// 32-bit words segment 0 is initialized from.
func loadProgram(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size()%4 != 0 {
		return nil, &errBadProgramSize{size: info.Size()}
	}

	raw := make([]byte, info.Size())
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, err
	}

	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return words, nil
}

// exitCodeFor maps a run-time error to a process exit code. Clean
// termination (nil, or a swallowed ErrHalted) exits 0; everything else gets
// a distinct code so a caller can script around specific failure modes
// without scraping stderr text.
func exitCodeFor(err error) int {
	switch err {
	case nil, um.ErrHalted:
		return 0
	case um.ErrDivideByZero:
		return 2
	case um.ErrOutputRange:
		return 3
	case um.ErrAllocFailed:
		return 4
	case um.ErrSegFault:
		return 5
	case um.ErrBadOpcode:
		return 6
	}
	if _, ok := err.(*errBadProgramSize); ok {
		return 7
	}
	return 1
}
