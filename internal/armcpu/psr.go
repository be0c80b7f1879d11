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

// PSR models the condition flags, interrupt masks and mode field carried by
// CPSR/SPSR. Conceptually it is always a 32-bit word; 26-bit modes derive
// their packed r15 representation from it rather than the other way round.
type PSR struct {
	N, Z, C, V bool
	IRQDisable bool
	FIQDisable bool
	Mode       Mode
}

const (
	psrBitN    = 1 << 31
	psrBitZ    = 1 << 30
	psrBitC    = 1 << 29
	psrBitV    = 1 << 28
	psrBitI    = 1 << 7
	psrBitF    = 1 << 6
	psrModeMsk = 0x1F
)

// ToWord packs the PSR into standard 32-bit ARM condition-code-register
// form.
func (p PSR) ToWord() uint32 {
	var w uint32
	if p.N {
		w |= psrBitN
	}
	if p.Z {
		w |= psrBitZ
	}
	if p.C {
		w |= psrBitC
	}
	if p.V {
		w |= psrBitV
	}
	if p.IRQDisable {
		w |= psrBitI
	}
	if p.FIQDisable {
		w |= psrBitF
	}
	w |= uint32(p.Mode) & psrModeMsk
	return w
}

// PSRFromWord unpacks a 32-bit condition-code-register word into a PSR.
func PSRFromWord(w uint32) PSR {
	return PSR{
		N:          w&psrBitN != 0,
		Z:          w&psrBitZ != 0,
		C:          w&psrBitC != 0,
		V:          w&psrBitV != 0,
		IRQDisable: w&psrBitI != 0,
		FIQDisable: w&psrBitF != 0,
		Mode:       Mode(w & psrModeMsk),
	}
}

// withMaskedUpdate applies MSR's field-select mask: bit 31-24 (flags, "f"),
// bit 19-16 (status, "s" - unused pre-v5), bit 15-8 (extension, "x" -
// unused), bit 7-0 (control, "c" - mode and interrupt masks). The core only
// implements the flags and control fields, matching the instruction set this
// emulator targets.
const (
	PSRFieldControl = 1 << iota // mode + I/F
	PSRFieldExtension
	PSRFieldStatus
	PSRFieldFlags // N Z C V
)

func (p PSR) withMaskedUpdate(value uint32, fields uint8) PSR {
	out := p
	if fields&PSRFieldFlags != 0 {
		out.N = value&psrBitN != 0
		out.Z = value&psrBitZ != 0
		out.C = value&psrBitC != 0
		out.V = value&psrBitV != 0
	}
	if fields&PSRFieldControl != 0 {
		out.IRQDisable = value&psrBitI != 0
		out.FIQDisable = value&psrBitF != 0
		out.Mode = Mode(value & psrModeMsk)
	}
	return out
}
