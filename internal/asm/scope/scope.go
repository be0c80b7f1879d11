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

// Package scope implements the assembler's nested symbol tables: a small
// arena of scopes linked by parent index, plus the fixed and based constant
// sets (registers, coprocessor numbers) that resolve before any user symbol
// lookup.
package scope

import (
	"fmt"

	"github.com/armcore/armemu/internal/asm/messages"
)

// Value is a resolved symbol value: either a known number, or unresolved
// (forward reference still pending during pass one).
type Value struct {
	Number   uint32
	Resolved bool
}

// Symbol is one named entry in a scope.
type Symbol struct {
	Name         string
	Loc          messages.Location
	Value        Value
	IsAddressTag bool
}

// noParent marks the root scope's Parent field.
const noParent = -1

// Scope is one lexical scope: its own symbol table and a parent index into
// the owning Arena. The root scope additionally records the block list's
// base address; the running assembly offset is kept by the block list.
type Scope struct {
	Parent  int
	symbols map[string]Symbol
	Base    uint32 // only meaningful on the root scope
}

// Arena owns every Scope created during assembly, indexed by position so a
// Scope can refer to its parent without holding a pointer.
type Arena struct {
	scopes []*Scope
}

// NewArena returns an arena seeded with a root scope at index 0.
func NewArena(base uint32) *Arena {
	return &Arena{scopes: []*Scope{{Parent: noParent, symbols: make(map[string]Symbol), Base: base}}}
}

// Root returns the index of the root scope.
func (a *Arena) Root() int { return 0 }

// Push creates a new child scope of parent and returns its index.
func (a *Arena) Push(parent int) int {
	a.scopes = append(a.scopes, &Scope{Parent: parent, symbols: make(map[string]Symbol)})
	return len(a.scopes) - 1
}

// At returns the scope at index idx.
func (a *Arena) At(idx int) *Scope { return a.scopes[idx] }

// Define adds a new symbol to the scope at idx, rejecting redefinition with
// the original location in the error.
func (a *Arena) Define(idx int, sym Symbol) error {
	s := a.scopes[idx]
	if existing, ok := s.symbols[sym.Name]; ok {
		return fmt.Errorf("symbol %q already defined at %s:%d:%d", sym.Name, existing.Loc.File, existing.Loc.Line, existing.Loc.Column)
	}
	s.symbols[sym.Name] = sym
	return nil
}

// Lookup walks from idx to the root looking for name.
func (a *Arena) Lookup(idx int, name string) (Symbol, bool) {
	for idx != noParent {
		s := a.scopes[idx]
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
		idx = s.Parent
	}
	return Symbol{}, false
}

// ConstantSet resolves the fixed names (R0-R15, PC, SP, LR, CP0-CP15) and
// "based constant" families (a prefix plus a numeric range mapped to
// base+index) that take priority over user-defined symbols.
type ConstantSet struct {
	literals map[string]uint32
	based    []basedFamily
}

type basedFamily struct {
	prefix   string
	base     uint32
	minIndex int
	maxIndex int
}

// NewConstantSet returns the standard register and coprocessor constant set.
func NewConstantSet() *ConstantSet {
	cs := &ConstantSet{literals: make(map[string]uint32)}
	for i := 0; i <= 15; i++ {
		cs.literals[fmt.Sprintf("R%d", i)] = uint32(i)
	}
	cs.literals["SP"] = 13
	cs.literals["LR"] = 14
	cs.literals["PC"] = 15
	cs.based = append(cs.based, basedFamily{prefix: "CP", base: 0, minIndex: 0, maxIndex: 15})
	return cs
}

// Lookup resolves name against the literal table, then the based-constant
// families.
func (cs *ConstantSet) Lookup(name string) (uint32, bool) {
	if v, ok := cs.literals[name]; ok {
		return v, true
	}
	for _, fam := range cs.based {
		if len(name) <= len(fam.prefix) || name[:len(fam.prefix)] != fam.prefix {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(name[len(fam.prefix):], "%d", &idx); err != nil {
			continue
		}
		if idx < fam.minIndex || idx > fam.maxIndex {
			continue
		}
		return fam.base + uint32(idx), true
	}
	return 0, false
}
