package main

import (
	"log"
	"os"

	"golang.org/x/term"

	"goum/internal/um"
)

// runFile loads a program and executes it, either straight through or under
// the interactive step debugger.
func runFile(path string, debug bool) error {
	program, err := loadProgram(path)
	if err != nil {
		return err
	}

	m := um.New(program, os.Stdin, os.Stdout)

	if !debug {
		return m.Run()
	}

	// Debug narration goes to stderr via the standard logger so it never
	// interleaves with bytes the program itself writes to stdout through
	// the Output opcode.
	tracer := log.New(os.Stderr, "", 0)
	m.SetTrace(um.TracerFunc(func(pc uint32, raw uint32, op um.Opcode) {
		tracer.Printf("pc=%d raw=0x%08X op=%s", pc, raw, op)
	}))

	// The step debugger's own prompts read from stdin, which would collide
	// with a program piping its real input from a non-interactive stdin. If
	// stdin isn't a terminal, fall back to running straight through instead
	// of blocking on a prompt nobody can answer.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return m.Run()
	}

	return runDebug(m)
}
