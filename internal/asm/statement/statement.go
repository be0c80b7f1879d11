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

// Package statement holds the assembler's second-pass object: one Statement
// per source construct (label, instruction, data directive, ...), each able
// to report its predicted size before a symbol table is fully resolved and
// to emit final object code once it is. Operation-class instruction
// encoders live together in instruction.go and mirror
// the opcode-class bit layout internal/armcpu's decoder expects, so encoding
// a decoded instruction reproduces the original word.
package statement

import (
	"fmt"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/scope"
)

// Location is a re-export of messages.Location for convenience in this
// package's constructors.
type Location = messages.Location

// AssembleContext carries what a Statement needs to resolve symbols and
// compute PC-relative fields during the second pass.
type AssembleContext struct {
	Offset    uint32 // address this statement will be placed at
	Scopes    *scope.Arena
	ScopeIdx  int
	Constants *scope.ConstantSet
}

// Resolve looks up name against the constant set first, then the scope
// chain, matching the assembler's symbol-priority rule.
func (c *AssembleContext) Resolve(name string) (uint32, bool) {
	if v, ok := c.Constants.Lookup(name); ok {
		return v, true
	}
	if sym, ok := c.Scopes.Lookup(c.ScopeIdx, name); ok && sym.Value.Resolved {
		return sym.Value.Number, true
	}
	return 0, false
}

// Statement is one assembled source construct.
type Statement interface {
	Loc() messages.Location
	PredictedSize() uint32
	Assemble(ctx *AssembleContext) (code []byte, resolved bool, err error)
}

// baseStatement factors out the Loc() accessor shared by every variant.
type baseStatement struct {
	loc messages.Location
}

func (b baseStatement) Loc() messages.Location { return b.loc }

// EmptyStatement corresponds to a blank or comment-only source line; it
// contributes nothing to the object code.
type EmptyStatement struct {
	baseStatement
}

func NewEmptyStatement(loc messages.Location) *EmptyStatement {
	return &EmptyStatement{baseStatement{loc}}
}

func (e *EmptyStatement) PredictedSize() uint32 { return 0 }

func (e *EmptyStatement) Assemble(*AssembleContext) ([]byte, bool, error) {
	return nil, true, nil
}

// LabelStatement defines a symbol equal to the current assembly offset. It
// contributes no bytes of its own; the blocklist resolves its value from
// the offset the block list assigns it.
type LabelStatement struct {
	baseStatement
	Name string
}

func NewLabelStatement(loc messages.Location, name string) *LabelStatement {
	return &LabelStatement{baseStatement{loc}, name}
}

func (l *LabelStatement) PredictedSize() uint32 { return 0 }

func (l *LabelStatement) Assemble(ctx *AssembleContext) ([]byte, bool, error) {
	sym := scope.Symbol{
		Name:         l.Name,
		Loc:          l.loc,
		Value:        scope.Value{Number: ctx.Offset, Resolved: true},
		IsAddressTag: true,
	}
	if err := ctx.Scopes.Define(ctx.ScopeIdx, sym); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}

// DataDirective emits a literal span of bytes (DCB/DCW/DCD-style data), with
// the width describing the directive that produced it.
type DataDirective struct {
	baseStatement
	Width int // 1, 2 or 4
	Words []uint32
}

func NewDataDirective(loc messages.Location, width int, words []uint32) *DataDirective {
	return &DataDirective{baseStatement{loc}, width, words}
}

func (d *DataDirective) PredictedSize() uint32 {
	return uint32(len(d.Words) * d.Width)
}

func (d *DataDirective) Assemble(*AssembleContext) ([]byte, bool, error) {
	out := make([]byte, 0, len(d.Words)*d.Width)
	for _, w := range d.Words {
		switch d.Width {
		case 1:
			out = append(out, byte(w))
		case 2:
			out = append(out, byte(w), byte(w>>8))
		case 4:
			out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
		default:
			return nil, false, fmt.Errorf("statement: unsupported data directive width %d", d.Width)
		}
	}
	return out, true, nil
}

// AssemblyDirective models directives that affect assembler state rather
// than emitting bytes (ORG, ALIGN, ...). Effect is a closure so the
// blocklist does not need a directive-specific switch.
type AssemblyDirective struct {
	baseStatement
	Name   string
	Effect func(ctx *AssembleContext) error
}

func NewAssemblyDirective(loc messages.Location, name string, effect func(ctx *AssembleContext) error) *AssemblyDirective {
	return &AssemblyDirective{baseStatement{loc}, name, effect}
}

func (a *AssemblyDirective) PredictedSize() uint32 { return 0 }

func (a *AssemblyDirective) Assemble(ctx *AssembleContext) ([]byte, bool, error) {
	if a.Effect != nil {
		if err := a.Effect(ctx); err != nil {
			return nil, false, err
		}
	}
	return nil, true, nil
}

// MacroMarker and ProcMarker are accepted as no-op placeholders: the
// assembler recognises MACRO/ENDM and PROC/ENDP as balanced brackets around
// a block of statements but does not expand or re-emit them specially
// (open question, see spec's macro/proc note).
type MacroMarker struct {
	baseStatement
	Start bool
	Name  string
}

func NewMacroMarker(loc messages.Location, start bool, name string) *MacroMarker {
	return &MacroMarker{baseStatement{loc}, start, name}
}

func (m *MacroMarker) PredictedSize() uint32 { return 0 }
func (m *MacroMarker) Assemble(*AssembleContext) ([]byte, bool, error) {
	return nil, true, nil
}

type ProcMarker struct {
	baseStatement
	Start bool
	Name  string
}

func NewProcMarker(loc messages.Location, start bool, name string) *ProcMarker {
	return &ProcMarker{baseStatement{loc}, start, name}
}

func (p *ProcMarker) PredictedSize() uint32 { return 0 }
func (p *ProcMarker) Assemble(*AssembleContext) ([]byte, bool, error) {
	return nil, true, nil
}

// IncludeStatement represents an %INCLUDE directive. The blocklist resolves
// and splices the included statements itself (via its InputSet collaborator)
// before the second pass runs, so by the time Assemble is called this is a
// no-op marker kept only for diagnostics and source mapping.
type IncludeStatement struct {
	baseStatement
	Path string
}

func NewIncludeStatement(loc messages.Location, path string) *IncludeStatement {
	return &IncludeStatement{baseStatement{loc}, path}
}

func (i *IncludeStatement) PredictedSize() uint32 { return 0 }
func (i *IncludeStatement) Assemble(*AssembleContext) ([]byte, bool, error) {
	return nil, true, nil
}
