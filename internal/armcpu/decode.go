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

// dispatch decodes word (condition already checked true) and executes it,
// advancing PC and updating flags as appropriate for the instruction class.
// Operation classes follow spec 4.2 step 3: branch, data-processing,
// load/store, multiply, SWI, MRS/MSR, BKPT, coprocessor.
func (c *Core) dispatch(word uint32) {
	switch {
	case isBranch(word):
		c.execBranch(word)
	case isSWI(word):
		c.enterException(SVC32, vectorSWI, offsetSWI)
	case isMRS(word):
		c.execMRS(word)
	case isMSR(word):
		c.execMSR(word)
	case isMultiply(word):
		c.execMultiply(word)
	case isBlockTransfer(word):
		c.execBlockTransfer(word)
	case isSingleTransfer(word):
		c.execSingleTransfer(word)
	case isCoprocessor(word):
		c.execCoprocessorStub(word)
	case isDataProcessing(word):
		c.execDataProcessing(word)
	default:
		c.enterException(Undefined, vectorUndefined, offsetUndefined)
	}
}

func isBKPT(word uint32) bool {
	return (word>>20)&0xFFF == 0xE12 && (word>>4)&0xF == 0x7
}

func isBranch(word uint32) bool {
	return (word>>25)&0x7 == 0x5 // bits 27:25 == 101
}

func isSWI(word uint32) bool {
	return (word>>24)&0xF == 0xF // bits 27:24 == 1111
}

func isCoprocessor(word uint32) bool {
	return (word>>25)&0x7 == 0x6 || ((word>>24)&0xF == 0xE)
}

func isMultiply(word uint32) bool {
	return (word>>22)&0x3F == 0 && (word>>4)&0xF == 0x9
}

func isBlockTransfer(word uint32) bool {
	return (word>>25)&0x7 == 0x4 // bits 27:25 == 100
}

func isSingleTransfer(word uint32) bool {
	return (word>>26)&0x3 == 0x1 // bits 27:26 == 01
}

func isMRS(word uint32) bool {
	return (word>>23)&0x1F == 0x02 && (word>>16)&0x3F == 0x0F &&
		(word&0xFFF) == 0
}

func isMSR(word uint32) bool {
	registerForm := (word>>23)&0x1F == 0x02 && (word>>20)&0x3 == 0x2 &&
		((word>>4)&0x3FF) == 0x28F
	return registerForm || msrImmediateForm(word)
}

func msrImmediateForm(word uint32) bool {
	return (word>>26)&0x3 == 0 && (word>>23)&0x3 == 0x2 && (word>>20)&0x3 == 0x2 &&
		(word>>12)&0xF == 0xF
}

func isDataProcessing(word uint32) bool {
	return (word>>26)&0x3 == 0
}

// barrelShift evaluates ARM's operand-2 shifter. shiftType: 0=LSL,1=LSR,
// 2=ASR,3=ROR. carryIn is the current CPSR carry flag, used when the shift
// amount is zero for LSL (no change) or encodes RRX for ROR #0.
func barrelShift(value uint32, shiftType uint8, amount uint8, carryIn bool) (result uint32, carryOut bool) {
	if amount == 0 {
		switch shiftType {
		case 0: // LSL #0
			return value, carryIn
		case 3: // ROR #0 => RRX
			carryBit := uint32(0)
			if carryIn {
				carryBit = 1
			}
			result = (value >> 1) | (carryBit << 31)
			carryOut = value&1 != 0
			return result, carryOut
		default:
			amount = 32
		}
	}

	switch shiftType {
	case 0: // LSL
		if amount >= 32 {
			if amount == 32 {
				return 0, value&1 != 0
			}
			return 0, false
		}
		return value << amount, (value>>(32-amount))&1 != 0
	case 1: // LSR
		if amount >= 32 {
			if amount == 32 {
				return 0, value&0x80000000 != 0
			}
			return 0, false
		}
		return value >> amount, (value>>(amount-1))&1 != 0
	case 2: // ASR
		sval := int32(value)
		if amount >= 32 {
			if sval < 0 {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		return uint32(sval >> amount), (value>>(amount-1))&1 != 0
	case 3: // ROR
		amount %= 32
		if amount == 0 {
			return value, carryIn
		}
		return (value >> amount) | (value << (32 - amount)), (value>>(amount-1))&1 != 0
	}
	return value, carryIn
}
