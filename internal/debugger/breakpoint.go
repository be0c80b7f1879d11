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

package debugger

import (
	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/armsys"
	"github.com/armcore/armemu/internal/region"
)

// Breakpoint represents a single software breakpoint installed by
// overwriting the instruction word at its target address with a BKPT
// carrying the breakpoint's own ID as its comment field, so a trap can be
// mapped straight back to the breakpoint that caused it.
type Breakpoint struct {
	id          uint16
	address     uint32 // word-aligned; low two bits are dropped
	isLogical   bool
	block       *region.HostBlock
	blockOffset uint32
	original    uint32
	isSet       bool
}

// newBreakpoint resolves address against sys's current translation and read
// map, recording the host-backed block and offset that will receive the
// BKPT word. A breakpoint whose address doesn't resolve to host-backed,
// mapped memory (an MMIO device, or nothing mapped at all) is left invalid;
// IsValid reports false and Apply is a no-op forever after.
func newBreakpoint(sys *armsys.System, address uint32, id uint16, isLogical bool) *Breakpoint {
	bp := &Breakpoint{
		id:        id,
		address:   address &^ 3,
		isLogical: isLogical,
	}

	physical := bp.address
	if isLogical {
		mapping := sys.LogicalToPhysical(bp.address)
		if !mapping.Present() {
			return bp
		}
		physical = mapping.PhysicalBase + (bp.address - mapping.VirtualBase)
	}

	r, offset, _, ok := sys.ReadAddresses().TryFindRegion(physical)
	if !ok {
		return bp
	}
	block, ok := r.(*region.HostBlock)
	if !ok || !block.CanWrite() {
		return bp
	}

	bp.block = block
	bp.blockOffset = offset
	bp.original = readWord(block.Data, offset)
	return bp
}

// IsValid reports whether the breakpoint resolved to a writable,
// host-backed address and can be applied.
func (b *Breakpoint) IsValid() bool { return b.block != nil }

// IsEnabled reports whether the BKPT word is currently installed in guest
// memory.
func (b *Breakpoint) IsEnabled() bool { return b.isSet }

func (b *Breakpoint) IsLogicalAddress() bool { return b.isLogical }

func (b *Breakpoint) Address() uint32 { return b.address }

// Instruction returns the instruction word the breakpoint replaced, valid
// once the breakpoint has resolved regardless of whether it is installed.
func (b *Breakpoint) Instruction() uint32 { return b.original }

func (b *Breakpoint) ID() uint16 { return b.id }

// Apply overwrites the target word with a BKPT encoding this breakpoint's
// ID, if it hasn't already been installed. It reports whether the
// breakpoint is now set.
func (b *Breakpoint) Apply() bool {
	if b.block == nil || b.isSet {
		return b.isSet
	}
	writeWord(b.block.Data, b.blockOffset, armcpu.EncodeBKPT(b.id))
	b.isSet = true
	return true
}

// Remove restores the original instruction word, if the breakpoint is
// currently installed.
func (b *Breakpoint) Remove() {
	if b.block == nil || !b.isSet {
		return
	}
	writeWord(b.block.Data, b.blockOffset, b.original)
	b.isSet = false
}

func readWord(data []byte, offset uint32) uint32 {
	b := data[offset : offset+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func writeWord(data []byte, offset uint32, word uint32) {
	b := data[offset : offset+4]
	b[0] = byte(word)
	b[1] = byte(word >> 8)
	b[2] = byte(word >> 16)
	b[3] = byte(word >> 24)
}

// byAddress orders breakpoints the way a listing command displays them:
// logical addresses before physical ones, each group ascending by address.
func byAddress(a, b *Breakpoint) bool {
	if a.isLogical != b.isLogical {
		return a.isLogical
	}
	return a.address < b.address
}

// byID orders breakpoints by their allocation order, used when a listener
// wants a stable report independent of where addresses happen to land.
func byID(a, b *Breakpoint) bool {
	return a.id < b.id
}
