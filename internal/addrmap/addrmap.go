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

// Package addrmap implements the sorted, non-overlapping physical address
// map that routes guest accesses to host-backed regions. The lookup
// algorithm is ported from the original C++ AddressMap: a branchless lower
// bound over a sorted slice of mappings, falling back to the predecessor
// candidate when the bound lands past the target.
package addrmap

import (
	"fmt"
	"math/bits"

	"github.com/armcore/armemu/internal/region"
)

// Mapping binds a contiguous physical span to a region. End is exclusive and
// always a multiple of 4.
type Mapping struct {
	Base   uint32
	End    uint32
	Region region.Region
}

func (m Mapping) isOverlapping(o Mapping) bool {
	switch {
	case m.Base == o.Base:
		return true
	case m.Base < o.Base:
		return o.Base < m.End
	default:
		return m.Base < o.End
	}
}

// Map is an ordered sequence of mappings. It is typically constructed once
// (read map, write map) and treated as immutable once an ArmSystem starts
// running.
type Map struct {
	mappings []Mapping
}

// New returns an empty map.
func New() *Map {
	return &Map{}
}

// bitFloor/bitCeil mirror the C++ helpers used to seed the branchless
// lower-bound search.
func bitFloor(v int) int {
	if v == 0 {
		return 0
	}
	return 1 << (bits.Len(uint(v)) - 1)
}

func bitCeil(v int) int {
	if v == 0 {
		return 0
	}
	f := bitFloor(v)
	if v > f {
		return f << 1
	}
	return f
}

// branchlessLowerBound returns the index of the first mapping whose Base is
// >= key, or len(m) if none qualifies.
func branchlessLowerBound(m []Mapping, key uint32) int {
	n := len(m)
	if n == 0 {
		return 0
	}

	begin := 0
	step := bitFloor(n)

	if step != n && m[begin+step].Base < key {
		remain := n - (step + 1)
		if remain == 0 {
			return n
		}
		step = bitCeil(remain)
		begin = n - step
	}

	for step /= 2; step != 0; step /= 2 {
		if begin+step < n && m[begin+step].Base < key {
			begin += step
		}
	}

	if m[begin].Base < key {
		begin++
	}
	return begin
}

// TryFindRegion locates the region containing addr, if any. It returns the
// region, the offset of addr within it, and the count of bytes remaining in
// the region from addr (inclusive) to its end.
func (m *Map) TryFindRegion(addr uint32) (r region.Region, offset uint32, remaining uint32, ok bool) {
	if len(m.mappings) == 0 {
		return nil, 0, 0, false
	}

	key := Mapping{Base: addr, End: addr + 1}
	pos := branchlessLowerBound(m.mappings, addr)
	if pos == len(m.mappings) {
		pos--
	}

	candidate := m.mappings[pos]
	found := candidate.isOverlapping(key)

	if !found && pos > 0 {
		pos--
		candidate = m.mappings[pos]
		found = candidate.isOverlapping(key)
	}

	if !found {
		return nil, 0, 0, false
	}

	return candidate.Region, addr - candidate.Base, candidate.End - addr, true
}

// TryInsert adds a new mapping for a region at base. It rejects the insert
// if the proposed span overlaps an existing mapping, returning false.
func (m *Map) TryInsert(base uint32, r region.Region) bool {
	end := (base + r.Len() + 3) &^ 3
	key := Mapping{Base: base, End: end, Region: r}

	if len(m.mappings) == 0 {
		m.mappings = append(m.mappings, key)
		return true
	}

	pos := branchlessLowerBound(m.mappings, base)

	if pos > 0 && m.mappings[pos-1].isOverlapping(key) {
		return false
	}
	if pos < len(m.mappings) && m.mappings[pos].isOverlapping(key) {
		return false
	}

	m.mappings = append(m.mappings, Mapping{})
	copy(m.mappings[pos+1:], m.mappings[pos:])
	m.mappings[pos] = key
	return true
}

// Clear removes every mapping.
func (m *Map) Clear() {
	m.mappings = nil
}

// Mappings returns an ordered, read-only snapshot of the current mappings.
func (m *Map) Mappings() []Mapping {
	out := make([]Mapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// ReadPhys copies up to len(buf) bytes starting at addr into buf, walking
// region by region. It stops (non-fatally) at the first unmapped gap and
// returns the count of bytes actually moved.
func (m *Map) ReadPhys(addr uint32, buf []byte) (int, error) {
	return m.transferPhys(addr, buf, false)
}

// WritePhys writes buf to physical memory starting at addr, walking region
// by region. It stops (non-fatally) at the first unmapped gap.
func (m *Map) WritePhys(addr uint32, buf []byte) (int, error) {
	return m.transferPhys(addr, buf, true)
}

func (m *Map) transferPhys(addr uint32, buf []byte, write bool) (int, error) {
	moved := 0
	for moved < len(buf) {
		cur := addr + uint32(moved)
		r, offset, remaining, ok := m.TryFindRegion(cur)
		if !ok {
			return moved, nil
		}

		chunk := len(buf) - moved
		if uint32(chunk) > remaining {
			chunk = int(remaining)
		}

		switch reg := r.(type) {
		case *region.HostBlock:
			if write {
				if !reg.CanWrite() {
					return moved, nil
				}
				copy(reg.Data[offset:], buf[moved:moved+chunk])
			} else {
				if !reg.CanRead() {
					return moved, nil
				}
				copy(buf[moved:moved+chunk], reg.Data[offset:])
			}
		case region.MMIO:
			n, err := transferMMIO(reg, offset, buf[moved:moved+chunk], write)
			moved += n
			if err != nil {
				return moved, err
			}
			continue
		default:
			return moved, fmt.Errorf("addrmap: unknown region type %T", r)
		}

		moved += chunk
	}
	return moved, nil
}

// transferMMIO issues word-at-a-time aligned Read/Write calls, the only
// access granularity MMIO devices support.
func transferMMIO(dev region.MMIO, offset uint32, buf []byte, write bool) (int, error) {
	if offset%4 != 0 || len(buf)%4 != 0 {
		return 0, &region.ErrUnaligned{Device: dev.Name(), Offset: offset}
	}

	moved := 0
	for moved < len(buf) {
		wordOffset := offset + uint32(moved)
		if write {
			value := uint32(buf[moved]) | uint32(buf[moved+1])<<8 |
				uint32(buf[moved+2])<<16 | uint32(buf[moved+3])<<24
			if err := dev.Write(wordOffset, value); err != nil {
				return moved, err
			}
		} else {
			value, err := dev.Read(wordOffset)
			if err != nil {
				return moved, err
			}
			buf[moved] = byte(value)
			buf[moved+1] = byte(value >> 8)
			buf[moved+2] = byte(value >> 16)
			buf[moved+3] = byte(value >> 24)
		}
		moved += 4
	}
	return moved, nil
}
