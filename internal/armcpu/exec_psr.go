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

// execMRS copies CPSR or the current mode's SPSR into a general register.
func (c *Core) execMRS(word uint32) {
	useSPSR := (word>>22)&1 != 0
	rd := int((word >> 12) & 0xF)

	var value uint32
	if useSPSR {
		value = c.Regs.SPSR(c.Regs.CPSR().Mode).ToWord()
	} else {
		value = c.Regs.CPSR().ToWord()
	}
	c.Regs.Write(rd, value)
	c.advancePC()
}

// execMSR writes CPSR or SPSR from a register or rotated immediate, honouring
// the field mask encoded in bits 19-16 (f/s/x/c).
func (c *Core) execMSR(word uint32) {
	useSPSR := (word>>22)&1 != 0
	fieldMask := psrFieldMaskFromBits((word >> 16) & 0xF)

	var value uint32
	if (word>>25)&1 != 0 {
		imm := word & 0xFF
		rotate := ((word >> 8) & 0xF) * 2
		value = imm
		if rotate != 0 {
			value, _ = barrelShift(imm, 3, uint8(rotate), false)
		}
	} else {
		rm := int(word & 0xF)
		value = c.Regs.Read(rm, false)
	}

	if useSPSR {
		mode := c.Regs.CPSR().Mode
		c.Regs.SetSPSR(mode, c.Regs.SPSR(mode).withMaskedUpdate(value, fieldMask))
	} else {
		c.Regs.SetCPSR(c.Regs.CPSR().withMaskedUpdate(value, fieldMask))
	}
	c.advancePC()
}

func psrFieldMaskFromBits(bits uint32) uint8 {
	var mask uint8
	if bits&0x1 != 0 {
		mask |= PSRFieldControl
	}
	if bits&0x2 != 0 {
		mask |= PSRFieldExtension
	}
	if bits&0x4 != 0 {
		mask |= PSRFieldStatus
	}
	if bits&0x8 != 0 {
		mask |= PSRFieldFlags
	}
	return mask
}
