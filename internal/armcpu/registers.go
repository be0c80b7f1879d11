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

package armcpu

// Register indices, matching the usual ARM convention.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	SP = R13
	LR = R14
	PC = R15
)

// bankIndex enumerates the five privileged modes that get their own banked
// r13/r14 (and, for FIQ, r8-r12 too).
type bankIndex int

const (
	bankFIQ bankIndex = iota
	bankIRQ
	bankSVC
	bankAbort
	bankUndefined
	bankCount
)

func bankFor(m Mode) (bankIndex, bool) {
	switch m {
	case FIQ26, FIQ32:
		return bankFIQ, true
	case IRQ26, IRQ32:
		return bankIRQ, true
	case SVC26, SVC32:
		return bankSVC, true
	case Abort:
		return bankAbort, true
	case Undefined:
		return bankUndefined, true
	default: // User, System
		return 0, false
	}
}

// Registers is the ARM register file: a user bank of r0-r14, a private
// r8-r12 bank for FIQ, and a private r13/r14 bank for every privileged mode,
// plus CPSR and per-mode SPSR.
type Registers struct {
	user   [15]uint32 // r0..r14, used directly by User/System and as the fallback bank
	fiq812 [5]uint32  // r8..r12, FIQ-only
	priv1314 [bankCount][2]uint32

	pc   uint32
	cpsr PSR
	spsr [bankCount]PSR
}

// NewRegisters returns a register file reset to User26 mode with all
// registers zeroed.
func NewRegisters() *Registers {
	return &Registers{cpsr: PSR{Mode: User26}}
}

// Read returns the value of logical register reg as seen in the current
// mode. pipelinedPC selects between the PC+8 and PC+4 read conventions.
func (r *Registers) Read(reg int, pipelinedPC bool) uint32 {
	if reg == PC {
		pc := r.pc + 4
		if pipelinedPC {
			pc = r.pc + 8
		}
		if !r.cpsr.Mode.Is26Bit() {
			return pc
		}
		return r.pack26(pc)
	}

	mode := r.cpsr.Mode
	if reg >= R8 && reg <= R12 {
		if mode == FIQ26 || mode == FIQ32 {
			return r.fiq812[reg-R8]
		}
		return r.user[reg]
	}
	if reg == R13 || reg == R14 {
		if bi, banked := bankFor(mode); banked {
			return r.priv1314[bi][reg-R13]
		}
		return r.user[reg]
	}
	return r.user[reg]
}

// Write stores value into logical register reg, respecting the current
// mode's bank. Writing r15 updates the PC; in 26-bit modes it additionally
// updates CPSR's condition flags and mode from the bits packed alongside
// the PC, per the 26-bit R15 convention (bits 31-28 NZCV, bit 27 FIQ
// disable, bit 26 IRQ disable, bits 25-2 PC, bits 1-0 mode).
func (r *Registers) Write(reg int, value uint32) {
	if reg == PC {
		if r.cpsr.Mode.Is26Bit() {
			r.pc = value & 0x03FFFFFC
			r.cpsr.N = value&psrBitN != 0
			r.cpsr.Z = value&psrBitZ != 0
			r.cpsr.C = value&psrBitC != 0
			r.cpsr.V = value&psrBitV != 0
			r.cpsr.FIQDisable = value&(1<<27) != 0
			r.cpsr.IRQDisable = value&(1<<26) != 0
			r.cpsr.Mode = Mode(value & 0x3)
		} else {
			r.pc = value
		}
		return
	}

	mode := r.cpsr.Mode
	if reg >= R8 && reg <= R12 {
		if mode == FIQ26 || mode == FIQ32 {
			r.fiq812[reg-R8] = value
			return
		}
		r.user[reg] = value
		return
	}
	if reg == R13 || reg == R14 {
		if bi, banked := bankFor(mode); banked {
			r.priv1314[bi][reg-R13] = value
			return
		}
		r.user[reg] = value
		return
	}
	r.user[reg] = value
}

// pack26 packs a PC value with the current CPSR condition flags and mode
// into the 26-bit R15 representation.
func (r *Registers) pack26(pc uint32) uint32 {
	w := pc & 0x03FFFFFC
	if r.cpsr.N {
		w |= psrBitN
	}
	if r.cpsr.Z {
		w |= psrBitZ
	}
	if r.cpsr.C {
		w |= psrBitC
	}
	if r.cpsr.V {
		w |= psrBitV
	}
	if r.cpsr.FIQDisable {
		w |= 1 << 27
	}
	if r.cpsr.IRQDisable {
		w |= 1 << 26
	}
	w |= uint32(r.cpsr.Mode) & 0x3
	return w
}

// PC returns the raw program counter (no pipeline offset).
func (r *Registers) PC() uint32 { return r.pc }

// SetPC sets the raw program counter directly, bypassing the r15-write PSR
// packing rules (used by the fetch/exception-entry logic, which manages
// CPSR separately).
func (r *Registers) SetPC(value uint32) { r.pc = value }

// CPSR returns the current program status register.
func (r *Registers) CPSR() PSR { return r.cpsr }

// SetCPSR replaces the current program status register.
func (r *Registers) SetCPSR(p PSR) { r.cpsr = p }

// SPSR returns the saved program status register for the given mode. It
// panics-free returns the zero PSR for modes without an SPSR (User, System).
func (r *Registers) SPSR(m Mode) PSR {
	if bi, ok := bankFor(m); ok {
		return r.spsr[bi]
	}
	return PSR{}
}

// SetSPSR sets the saved program status register for the given mode; it is
// a no-op for modes without an SPSR bank (User, System).
func (r *Registers) SetSPSR(m Mode, p PSR) {
	if bi, ok := bankFor(m); ok {
		r.spsr[bi] = p
	}
}
