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

// execSingleTransfer implements LDR/STR and the byte forms LDRB/STRB, with
// immediate or register offsets and pre/post indexing plus writeback.
func (c *Core) execSingleTransfer(word uint32) {
	immediateOffset := (word>>25)&1 == 0
	preIndex := (word>>24)&1 != 0
	up := (word>>23)&1 != 0
	byteAccess := (word>>22)&1 != 0
	writeback := (word>>21)&1 != 0
	isLoad := (word>>20)&1 != 0
	rn := int((word >> 16) & 0xF)
	rd := int((word >> 12) & 0xF)

	var offset uint32
	if immediateOffset {
		offset = word & 0xFFF
	} else {
		rm := int(word & 0xF)
		shiftType := uint8((word >> 5) & 0x3)
		amount := uint8((word >> 7) & 0x1F)
		offset, _ = barrelShift(c.Regs.Read(rm, true), shiftType, amount, c.Regs.CPSR().C)
	}

	base := c.Regs.Read(rn, true)
	var addr uint32
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	} else {
		addr = base
	}

	if isLoad {
		value, ok := c.loadWord(addr, byteAccess)
		if !ok {
			return // data abort already raised
		}
		if !preIndex {
			if up {
				c.Regs.Write(rn, base+offset)
			} else {
				c.Regs.Write(rn, base-offset)
			}
		} else if writeback {
			c.Regs.Write(rn, addr)
		}
		c.Regs.Write(rd, value)
	} else {
		value := c.Regs.Read(rd, true)
		if !c.storeWord(addr, value, byteAccess) {
			return
		}
		if !preIndex {
			if up {
				c.Regs.Write(rn, base+offset)
			} else {
				c.Regs.Write(rn, base-offset)
			}
		} else if writeback {
			c.Regs.Write(rn, addr)
		}
	}

	if rd != PC || isLoad == false {
		c.advancePC()
	}
}

func (c *Core) loadWord(logicalAddr uint32, byteAccess bool) (uint32, bool) {
	phys, ok := c.translateForAccess(logicalAddr)
	if !ok {
		c.dataAbort()
		return 0, false
	}

	if byteAccess {
		buf := make([]byte, 1)
		n, err := c.ReadMap.ReadPhys(phys, buf)
		if err != nil || n != 1 {
			c.dataAbort()
			return 0, false
		}
		return uint32(buf[0]), true
	}

	buf := make([]byte, 4)
	n, err := c.ReadMap.ReadPhys(phys&^3, buf)
	if err != nil || n != 4 {
		c.dataAbort()
		return 0, false
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, true
}

func (c *Core) storeWord(logicalAddr uint32, value uint32, byteAccess bool) bool {
	phys, ok := c.translateForAccess(logicalAddr)
	if !ok {
		c.dataAbort()
		return false
	}

	if byteAccess {
		buf := []byte{byte(value)}
		if n, err := c.WriteMap.WritePhys(phys, buf); err != nil || n != 1 {
			c.dataAbort()
			return false
		}
		return true
	}

	buf := []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)}
	if n, err := c.WriteMap.WritePhys(phys&^3, buf); err != nil || n != 4 {
		c.dataAbort()
		return false
	}
	return true
}

func (c *Core) translateForAccess(logicalAddr uint32) (uint32, bool) {
	mapping := c.Xlate.Translate(logicalAddr)
	if mapping.PageSize == 0xFFFFFFFF {
		return logicalAddr, true
	}
	if !mapping.Present() {
		return 0, false
	}
	return mapping.PhysicalBase + (logicalAddr - mapping.VirtualBase), true
}

// execBlockTransfer implements LDM/STM over the register list, in address
// order, honouring the up/down and before/after addressing modes. The S-bit
// (bit 22) is ignored: registers are always read and written in the current
// mode's bank.
func (c *Core) execBlockTransfer(word uint32) {
	preIndex := (word>>24)&1 != 0
	up := (word>>23)&1 != 0
	writeback := (word>>21)&1 != 0
	isLoad := (word>>20)&1 != 0
	rn := int((word >> 16) & 0xF)
	list := word & 0xFFFF

	var regs []int
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			regs = append(regs, i)
		}
	}
	if !up {
		for i, j := 0, len(regs)-1; i < j; i, j = i+1, j-1 {
			regs[i], regs[j] = regs[j], regs[i]
		}
	}

	base := c.Regs.Read(rn, false)
	cur := base
	for _, r := range regs {
		if up {
			if preIndex {
				cur += 4
			}
		} else {
			if preIndex {
				cur -= 4
			}
		}

		if isLoad {
			v, ok := c.loadWord(cur, false)
			if !ok {
				return
			}
			c.Regs.Write(r, v)
		} else {
			if !c.storeWord(cur, c.Regs.Read(r, true), false) {
				return
			}
		}

		if up {
			if !preIndex {
				cur += 4
			}
		} else {
			if !preIndex {
				cur -= 4
			}
		}
	}

	if writeback {
		c.Regs.Write(rn, cur)
	}

	c.advancePC()
}
