package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"goum/internal/um"
)

// runDebug drives an interactive step debugger over stdin/stdout: n/next
// executes one instruction, r/run disables single-stepping, b/break <pc>
// toggles a breakpoint.
func runDebug(m *um.Machine) error {
	fmt.Print("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <pc>: break on program counter (or remove it)\n\n")
	fmt.Println(m.PrintState())

	reader := bufio.NewReader(os.Stdin)
	waitForInput := true
	breakAt := make(map[uint32]struct{})
	lastBreakPC := uint32(1<<32 - 1)

	for {
		line := ""
		if waitForInput {
			fmt.Print("->")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else {
			pc := m.PC()
			if _, ok := breakAt[pc]; ok && lastBreakPC != pc {
				fmt.Println("breakpoint")
				fmt.Println(m.PrintState())
				waitForInput = true
				lastBreakPC = pc
				continue
			}
		}

		switch {
		case !waitForInput || line == "n" || line == "next":
			lastBreakPC = 1<<32 - 1
			err := m.Step()
			if waitForInput {
				fmt.Println(m.PrintState())
			}
			if err != nil {
				if err == um.ErrHalted {
					return nil
				}
				return err
			}
		case line == "r" || line == "run":
			waitForInput = false
		case strings.HasPrefix(line, "b"):
			arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "break"), "b"))
			pc, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				fmt.Println("unknown program counter:", err)
				continue
			}
			if _, ok := breakAt[uint32(pc)]; ok {
				delete(breakAt, uint32(pc))
			} else {
				breakAt[uint32(pc)] = struct{}{}
			}
		}
	}
}
