/*
 * ARM Core - ARM system emulator, assembler and debugger.
 *
 * Copyright 2026, ARM Core Project Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/asm/blocklist"
	"github.com/armcore/armemu/internal/debugger"
	"github.com/armcore/armemu/internal/hexfmt"
)

// parseAddress accepts a hex address, with or without a leading 0x/0X.
func parseAddress(tok string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", tok)
	}
	return uint32(value), nil
}

func doBreak(line *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Break")
	tok := line.getToken()
	if tok == "" {
		return false, errors.New("break requires an address")
	}
	addr, err := parseAddress(tok)
	if err != nil {
		return false, err
	}

	logical := strings.EqualFold(line.getToken(), "logical")

	id, err := session.SetBreakpoint(addr, logical)
	if err != nil {
		return false, err
	}
	fmt.Printf("breakpoint %04X set at 0x%08X\n", id, addr)
	return false, nil
}

func doClear(line *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Clear")
	tok := line.getToken()
	if tok == "" {
		return false, errors.New("clear requires a breakpoint id")
	}
	id, err := parseAddress(tok)
	if err != nil {
		return false, err
	}
	return false, session.ClearBreakpoint(uint16(id))
}

func doContinue(_ *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Continue")
	return false, session.Resume()
}

func doStep(_ *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Step")
	return false, session.Step()
}

func doStepOver(_ *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command StepOver")
	return false, session.StepOver()
}

func doStepOut(_ *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command StepOut")
	return false, session.StepOut()
}

func regName(reg int) string {
	switch reg {
	case armcpu.SP:
		return "SP"
	case armcpu.LR:
		return "LR"
	case armcpu.PC:
		return "PC"
	default:
		return fmt.Sprintf("R%d", reg)
	}
}

func doRegs(_ *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Regs")
	sys := session.System()
	if sys == nil {
		return false, errors.New("regs: no active session")
	}

	regs := sys.Core().Regs
	values := make([]uint32, 16)
	for i := range values {
		values[i] = regs.Read(i, false)
	}

	for row := 0; row < 16; row += 4 {
		var b strings.Builder
		for col := row; col < row+4; col++ {
			fmt.Fprintf(&b, "%-3s=%08X  ", regName(col), values[col])
		}
		fmt.Println(strings.TrimRight(b.String(), " "))
	}

	cpsr := regs.CPSR()
	fmt.Printf("CPSR=%08X mode=%s N=%t Z=%t C=%t V=%t\n",
		cpsr.ToWord(), cpsr.Mode, cpsr.N, cpsr.Z, cpsr.C, cpsr.V)
	return false, nil
}

func doMem(line *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Mem")
	sys := session.System()
	if sys == nil {
		return false, errors.New("mem: no active session")
	}

	tok := line.getToken()
	if tok == "" {
		return false, errors.New("mem requires an address")
	}
	addr, err := parseAddress(tok)
	if err != nil {
		return false, err
	}

	count := uint32(16)
	logical := false
	for {
		tok = line.getToken()
		if tok == "" {
			break
		}
		if strings.EqualFold(tok, "logical") {
			logical = true
			continue
		}
		n, convErr := strconv.ParseUint(tok, 10, 32)
		if convErr != nil {
			return false, fmt.Errorf("mem: invalid word count %q", tok)
		}
		count = uint32(n)
	}

	phys := addr
	if logical {
		mapping := sys.LogicalToPhysical(addr)
		if !mapping.Present() {
			return false, fmt.Errorf("mem: 0x%08X has no mapping", addr)
		}
		phys = mapping.PhysicalBase + (addr - mapping.VirtualBase)
	}

	buf := make([]byte, count*4)
	n, err := sys.ReadAddresses().ReadPhys(phys, buf)
	if err != nil {
		return false, fmt.Errorf("mem: %w", err)
	}
	buf = buf[:n-(n%4)]

	words := make([]uint32, len(buf)/4)
	for i := range words {
		o := i * 4
		words[i] = uint32(buf[o]) | uint32(buf[o+1])<<8 | uint32(buf[o+2])<<16 | uint32(buf[o+3])<<24
	}

	for row := 0; row < len(words); row += 4 {
		end := row + 4
		if end > len(words) {
			end = len(words)
		}
		fmt.Printf("%08X: %s\n", phys+uint32(row*4), hexfmt.FormatWord(words[row:end]))
	}
	return false, nil
}

func doLoad(line *cmdLine, session *debugger.Session) (bool, error) {
	slog.Debug("Command Load")
	if session.State() != debugger.Paused {
		return false, errors.New("load requires a paused session")
	}

	filename, ok := line.parseQuoteString()
	if !ok || filename == "" {
		return false, errors.New("load requires a file name")
	}

	base := uint32(0)
	if tok := line.getToken(); tok != "" {
		addr, err := parseAddress(tok)
		if err != nil {
			return false, err
		}
		base = addr
	}

	f, err := os.Open(filename)
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}
	defer f.Close()

	bl := blocklist.New(base, nil)
	if err := bl.AddSource(filename, f); err != nil {
		return false, fmt.Errorf("load: %w", err)
	}

	obj, msgs := bl.Assemble()
	for _, m := range msgs.Sorted() {
		fmt.Printf("%s:%d: %s: %s\n", m.Loc.File, m.Loc.Line, m.Severity, m.Text)
	}
	if msgs.HasErrors() {
		return false, errors.New("load: assembly failed")
	}

	sys := session.System()
	if _, err := sys.WriteAddresses().WritePhys(obj.Base, obj.Bytes); err != nil {
		return false, fmt.Errorf("load: %w", err)
	}

	fmt.Printf("loaded %d bytes at 0x%08X\n", len(obj.Bytes), obj.Base)
	return false, nil
}

func doQuit(_ *cmdLine, _ *debugger.Session) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}
