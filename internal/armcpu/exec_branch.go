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

// execBranch implements B and BL: a 24-bit signed word offset, sign-extended
// and shifted left 2, added to PC+8 (the pipelined PC read convention).
func (c *Core) execBranch(word uint32) {
	link := (word>>24)&1 != 0
	offset := signExtend24(word & 0xFFFFFF)

	pc := c.Regs.PC() + 8
	target := pc + offset

	if link {
		ret := c.Regs.PC() + 4
		c.Regs.Write(LR, ret)
	}

	c.Regs.SetPC(target &^ 0x3)
}

func signExtend24(v uint32) uint32 {
	v <<= 2
	if v&0x02000000 != 0 {
		v |= 0xFC000000
	}
	return v
}
