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

// Data-processing opcodes, bits 24-21 of the instruction word.
const (
	opAND = iota
	opEOR
	opSUB
	opRSB
	opADD
	opADC
	opSBC
	opRSC
	opTST
	opTEQ
	opCMP
	opCMN
	opORR
	opMOV
	opBIC
	opMVN
)

// execDataProcessing implements the sixteen ALU operations, register and
// immediate operand-2 forms, and the S-bit flag update rule.
func (c *Core) execDataProcessing(word uint32) {
	opcode := (word >> 21) & 0xF
	setFlags := (word>>20)&1 != 0
	rn := int((word >> 16) & 0xF)
	rd := int((word >> 12) & 0xF)
	immediate := (word>>25)&1 != 0

	psr := c.Regs.CPSR()
	carryIn := psr.C

	var op2 uint32
	var shiftCarry bool
	if immediate {
		imm := word & 0xFF
		rotate := (word >> 8) & 0xF * 2
		if rotate == 0 {
			op2, shiftCarry = imm, carryIn
		} else {
			op2, shiftCarry = barrelShift(imm, 3, uint8(rotate), carryIn)
		}
	} else {
		rm := int(word & 0xF)
		shiftType := uint8((word >> 5) & 0x3)
		var amount uint8
		if (word>>4)&1 != 0 {
			rsReg := int((word >> 8) & 0xF)
			amount = uint8(c.Regs.Read(rsReg, false) & 0xFF)
		} else {
			amount = uint8((word >> 7) & 0x1F)
		}
		value := c.Regs.Read(rm, true)
		op2, shiftCarry = barrelShift(value, shiftType, amount, carryIn)
	}

	rnVal := c.Regs.Read(rn, true)

	var result uint32
	var carry, overflow bool
	writesResult := true

	switch opcode {
	case opAND:
		result = rnVal & op2
		carry, overflow = shiftCarry, psr.V
	case opEOR:
		result = rnVal ^ op2
		carry, overflow = shiftCarry, psr.V
	case opSUB:
		result, carry, overflow = subWithCarry(rnVal, op2, 1)
	case opRSB:
		result, carry, overflow = subWithCarry(op2, rnVal, 1)
	case opADD:
		result, carry, overflow = addWithCarry(rnVal, op2, 0)
	case opADC:
		cin := uint32(0)
		if carryIn {
			cin = 1
		}
		result, carry, overflow = addWithCarry(rnVal, op2, cin)
	case opSBC:
		cin := uint32(0)
		if carryIn {
			cin = 1
		}
		result, carry, overflow = subWithCarry(rnVal, op2, cin)
	case opRSC:
		cin := uint32(0)
		if carryIn {
			cin = 1
		}
		result, carry, overflow = subWithCarry(op2, rnVal, cin)
	case opTST:
		result = rnVal & op2
		carry, overflow = shiftCarry, psr.V
		writesResult = false
	case opTEQ:
		result = rnVal ^ op2
		carry, overflow = shiftCarry, psr.V
		writesResult = false
	case opCMP:
		result, carry, overflow = subWithCarry(rnVal, op2, 1)
		writesResult = false
	case opCMN:
		result, carry, overflow = addWithCarry(rnVal, op2, 0)
		writesResult = false
	case opORR:
		result = rnVal | op2
		carry, overflow = shiftCarry, psr.V
	case opMOV:
		result = op2
		carry, overflow = shiftCarry, psr.V
	case opBIC:
		result = rnVal &^ op2
		carry, overflow = shiftCarry, psr.V
	case opMVN:
		result = ^op2
		carry, overflow = shiftCarry, psr.V
	}

	if writesResult {
		if rd == PC && setFlags && c.Regs.CPSR().Mode.IsPrivileged() {
			// MOVS PC, LR (and similar) restores CPSR from SPSR and jumps,
			// per spec 4.2's exception-return contract.
			saved := c.Regs.SPSR(c.Regs.CPSR().Mode)
			c.Regs.Write(rd, result)
			c.Regs.SetCPSR(saved)
			return
		}
		c.Regs.Write(rd, result)
	}

	if setFlags {
		if rd == PC {
			return // flags already restored above, or PC-writing CMP-like op (unused)
		}
		n, z := setNZ(result)
		newPSR := c.Regs.CPSR()
		newPSR.N, newPSR.Z, newPSR.C, newPSR.V = n, z, carry, overflow
		c.Regs.SetCPSR(newPSR)
	}

	if rd != PC {
		c.advancePC()
	}
}
