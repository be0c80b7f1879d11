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

// Package translate implements the logical-to-physical address translation
// shim used when an MMU is present. Per spec, this is a coarse page lookup
// contract only: no TLB, no cache, no permission bits beyond presence.
package translate

// PageFlags carries access information about a page mapping.
type PageFlags uint8

const (
	IsPresent PageFlags = 1 << iota
)

// PageMapping describes the logical page a translation resolved to. A zero
// PageSize signifies no mapping.
type PageMapping struct {
	VirtualBase  uint32
	PhysicalBase uint32
	PageSize     uint32
	Flags        PageFlags
}

func (p PageMapping) Present() bool {
	return p.Flags&IsPresent != 0
}

// Translator resolves a logical address to the page mapping that backs it.
type Translator interface {
	Translate(logicalAddr uint32) PageMapping
}

// IdentityTranslator is used when no MMU is configured: every logical
// address maps directly to the same physical address, and the whole 32-bit
// space is considered a single present page.
type IdentityTranslator struct{}

func (IdentityTranslator) Translate(logicalAddr uint32) PageMapping {
	return PageMapping{
		VirtualBase:  0,
		PhysicalBase: 0,
		PageSize:     0xFFFFFFFF,
		Flags:        IsPresent,
	}
}

// PagedTranslator models a coarse MMU: a flat table of fixed-size pages,
// keyed by page-aligned virtual base address.
type PagedTranslator struct {
	pageSize uint32
	pages    map[uint32]PageMapping
}

// NewPagedTranslator creates a translator with the given page size (must be
// a power of two; defaults to 4096 if zero).
func NewPagedTranslator(pageSize uint32) *PagedTranslator {
	if pageSize == 0 {
		pageSize = 4096
	}
	return &PagedTranslator{pageSize: pageSize, pages: make(map[uint32]PageMapping)}
}

// MapPage installs a translation for the page containing virtualBase.
func (p *PagedTranslator) MapPage(virtualBase, physicalBase uint32) {
	base := virtualBase &^ (p.pageSize - 1)
	p.pages[base] = PageMapping{
		VirtualBase:  base,
		PhysicalBase: physicalBase &^ (p.pageSize - 1),
		PageSize:     p.pageSize,
		Flags:        IsPresent,
	}
}

// UnmapPage removes any translation for the page containing virtualBase.
func (p *PagedTranslator) UnmapPage(virtualBase uint32) {
	base := virtualBase &^ (p.pageSize - 1)
	delete(p.pages, base)
}

func (p *PagedTranslator) Translate(logicalAddr uint32) PageMapping {
	base := logicalAddr &^ (p.pageSize - 1)
	if m, ok := p.pages[base]; ok {
		return m
	}
	return PageMapping{VirtualBase: base, PageSize: 0}
}
