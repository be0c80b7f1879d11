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

// addWithCarry performs a+b+carryIn and reports the NZCV flags that result,
// following ARM's carry/overflow rules for arithmetic operations. The
// bit-twiddling mirrors the carry/overflow derivation used by real Go ARM
// emulators: split each operand's top bit off, add the low 31 bits plus any
// carry-in, then fold the top bits back in to detect the unsigned carry-out
// and signed overflow.
func addWithCarry(a, b, carryIn uint32) (result uint32, carry, overflow bool) {
	result = a + b + carryIn

	loSum := (a & 0x7fffffff) + (b & 0x7fffffff) + carryIn
	topCarry := loSum >> 31
	carryOut := (topCarry + (a >> 31) + (b >> 31)) >> 1
	carry = carryOut&0x1 == 1

	overflow = (topCarry^carryOut)&0x1 == 1

	return result, carry, overflow
}

// subWithCarry computes a-b-(1-borrowIn) using two's complement addition, so
// it can reuse addWithCarry's flag derivation: SBC is ADD with the second
// operand inverted and the initial carry-in set.
func subWithCarry(a, b, carryIn uint32) (result uint32, carry, overflow bool) {
	return addWithCarry(a, ^b, carryIn)
}

// setNZ computes the N and Z flags for a plain logical result (AND/OR/EOR/MOV
// and friends, which never touch C or V except via the barrel shifter).
func setNZ(v uint32) (n, z bool) {
	return v&0x80000000 != 0, v == 0
}
