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

// Package region describes the guest-addressable memory regions an
// AddressMap can route accesses to: host-backed blocks of RAM/ROM and
// memory-mapped I/O devices.
package region

import "fmt"

// Access describes which directions a HostBlock answers to.
type Access uint8

const (
	Read Access = 1 << iota
	Write
	ReadWrite = Read | Write
)

// Kind discriminates the two region variants the core understands.
type Kind uint8

const (
	KindHostBlock Kind = iota
	KindMMIO
)

// Region is satisfied by both HostBlock and any MMIO device. AddressMap only
// needs this much to route and account for accesses; the concrete type is
// recovered with a type switch where byte-level access is needed.
type Region interface {
	Kind() Kind
	Name() string
	Description() string
	Len() uint32
}

// HostBlock is a span of addresses backed directly by host memory - RAM when
// writable, a ROM image when read-only. ROM vs RAM is expressed purely by
// which of an AddressMap's read/write maps the block is inserted into.
type HostBlock struct {
	BlockName string
	Desc      string
	Data      []byte
	Acc       Access
}

func NewHostBlock(name, desc string, data []byte, acc Access) *HostBlock {
	return &HostBlock{BlockName: name, Desc: desc, Data: data, Acc: acc}
}

func (h *HostBlock) Kind() Kind          { return KindHostBlock }
func (h *HostBlock) Name() string        { return h.BlockName }
func (h *HostBlock) Description() string { return h.Desc }
func (h *HostBlock) Len() uint32         { return uint32(len(h.Data)) }

func (h *HostBlock) CanRead() bool  { return h.Acc&Read != 0 }
func (h *HostBlock) CanWrite() bool { return h.Acc&Write != 0 }

// MMIO is satisfied by memory-mapped devices. Read and Write are always
// called at 4-byte-aligned offsets within the region's span; AddressMap's
// helpers enforce this before dispatching, but implementations should treat
// a misaligned offset defensively.
type MMIO interface {
	Region
	Read(offset uint32) (uint32, error)
	Write(offset uint32, value uint32) error
}

// ErrUnaligned is returned by an MMIO device (or by the address map helpers
// on its behalf) when an access offset is not a multiple of 4.
type ErrUnaligned struct {
	Device string
	Offset uint32
}

func (e *ErrUnaligned) Error() string {
	return fmt.Sprintf("unaligned MMIO access to %q at offset 0x%x", e.Device, e.Offset)
}
