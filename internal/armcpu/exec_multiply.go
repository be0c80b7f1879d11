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

// execMultiply implements MUL and MLA (32x32 -> low 32 bits), the only
// multiply forms this emulator's target architecture versions require.
func (c *Core) execMultiply(word uint32) {
	accumulate := (word>>21)&1 != 0
	setFlags := (word>>20)&1 != 0
	rd := int((word >> 16) & 0xF)
	rn := int((word >> 12) & 0xF)
	rs := int((word >> 8) & 0xF)
	rm := int(word & 0xF)

	product := c.Regs.Read(rm, false) * c.Regs.Read(rs, false)
	if accumulate {
		product += c.Regs.Read(rn, false)
	}

	c.Regs.Write(rd, product)

	if setFlags {
		n, z := setNZ(product)
		psr := c.Regs.CPSR()
		psr.N, psr.Z = n, z
		c.Regs.SetCPSR(psr)
	}

	c.advancePC()
}
