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

// EncodeBKPT produces the ARM BKPT instruction word carrying a 16-bit
// comment field, used by the debugger to install software breakpoints. The
// encoding is unconditional (cond field forced to AL) per the real ARM
// BKPT instruction.
func EncodeBKPT(comment uint16) uint32 {
	hi := uint32(comment>>4) & 0xFFF
	lo := uint32(comment) & 0xF
	return (uint32(CondAL) << 28) | (0x12 << 20) | (hi << 8) | (0x7 << 4) | lo
}

// DecodeBKPTComment extracts the 16-bit comment field from a BKPT-encoded
// word. The caller is expected to have already confirmed isBKPT(word).
func DecodeBKPTComment(word uint32) uint16 {
	hi := (word >> 8) & 0xFFF
	lo := word & 0xF
	return uint16(hi<<4 | lo)
}

