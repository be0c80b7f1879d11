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

// Package blocklist drives the assembler's two passes: it feeds lexed source
// lines through parsetree nodes to build a flat list of statement.Statement
// values, then lays each one out at a concrete offset and asks it to emit
// object code. A Branch whose target is still an unresolved label is the
// reason this needs two passes at all: pass one discovers every label's
// address, pass two re-visits every statement now that the whole symbol
// table is populated.
package blocklist

import (
	"fmt"
	"io"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/parsetree"
	"github.com/armcore/armemu/internal/asm/scope"
	"github.com/armcore/armemu/internal/asm/statement"
	"github.com/armcore/armemu/internal/asm/token"
)

// InputSet resolves an %include path to a readable source and a display
// name, so the block list never has to know whether source lives on disk,
// in an embedded archive, or somewhere else entirely.
type InputSet interface {
	HasRoot() bool
	Resolve(id string, from messages.Location) (r io.Reader, displayName string, err error)
}

// ObjectCode is the final product of a successful (or partially successful)
// assembly: a contiguous byte image starting at Base. Bytes for a statement
// that failed to resolve are left zero, matching the size it predicted.
type ObjectCode struct {
	Base  uint32
	Bytes []byte
}

// entry wraps one compiled statement; its source location comes from the
// statement's own Loc(). The block list needs nothing else to replay pass two.
type entry struct {
	stmt statement.Statement
}

// BlockList accumulates statements line by line and then assembles them.
type BlockList struct {
	base      uint32
	arena     *scope.Arena
	constants *scope.ConstantSet
	rootScope int
	inputs    InputSet

	entries []entry
	depth   int // include nesting depth, to catch runaway recursion

	msgs    *messages.Messages
	ordinal int
}

const maxIncludeDepth = 32

// New returns an empty block list with statements laid out starting at base.
// inputs may be nil if %include is never used.
func New(base uint32, inputs InputSet) *BlockList {
	arena := scope.NewArena(base)
	return &BlockList{
		base:      base,
		arena:     arena,
		constants: scope.NewConstantSet(),
		rootScope: arena.Root(),
		inputs:    inputs,
		msgs:      &messages.Messages{},
	}
}

// Messages returns the diagnostics accumulated so far (both from source
// ingestion and, after Assemble runs, from the assembly passes).
func (b *BlockList) Messages() *messages.Messages { return b.msgs }

// AddSource lexes and compiles every line of r under the given file name,
// appending one statement per non-empty construct. A line that fails to
// compile is recorded as an Error diagnostic and contributes an
// EmptyStatement so later offsets stay consistent with what a fully correct
// assembly would have produced.
func (b *BlockList) AddSource(file string, r io.Reader) error {
	lines, err := readLines(r)
	if err != nil {
		return fmt.Errorf("blocklist: reading %s: %w", file, err)
	}
	for i, line := range lines {
		if err := b.addLine(file, i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func (b *BlockList) addLine(file string, lineNo int, line string) error {
	loc := messages.Location{File: file, Line: lineNo, Ordinal: b.nextOrdinal()}
	toks, err := token.LexLine(line, file, lineNo)
	if err != nil {
		b.msgs.Add(messages.Error, loc, err.Error())
		b.entries = append(b.entries, entry{stmt: statement.NewEmptyStatement(loc)})
		return nil
	}

	node, rest, err := startNode(loc, toks)
	if err != nil {
		b.msgs.Add(messages.Error, loc, err.Error())
		b.entries = append(b.entries, entry{stmt: statement.NewEmptyStatement(loc)})
		return nil
	}

	ctx := &parsetree.Context{Loc: loc, Scopes: b.arena, ScopeIdx: b.rootScope, Constants: b.constants}
	for _, t := range rest {
		if t.Class == token.ClassEOF {
			continue
		}
		node, err = node.ApplyToken(ctx, t)
		if err != nil {
			b.msgs.Add(messages.Error, loc, err.Error())
			break
		}
	}

	if !node.IsValid() {
		b.entries = append(b.entries, entry{stmt: statement.NewEmptyStatement(loc)})
		return nil
	}

	stmt, ok := node.Compile(b.msgs)
	if !ok {
		b.entries = append(b.entries, entry{stmt: statement.NewEmptyStatement(loc)})
		return nil
	}

	if inc, ok := stmt.(*statement.IncludeStatement); ok {
		return b.expandInclude(loc, inc)
	}

	b.entries = append(b.entries, entry{stmt: stmt})
	return nil
}

func (b *BlockList) nextOrdinal() int {
	b.ordinal++
	return b.ordinal
}

// expandInclude splices another source's statements in place of the
// IncludeStatement marker. The marker itself is still appended first so a
// disassembly or listing can report where the included text started.
func (b *BlockList) expandInclude(loc messages.Location, inc *statement.IncludeStatement) error {
	b.entries = append(b.entries, entry{stmt: inc})

	if b.inputs == nil {
		return fmt.Errorf("blocklist: %%include %q at %s:%d but no input set is configured", inc.Path, loc.File, loc.Line)
	}
	if b.depth >= maxIncludeDepth {
		return fmt.Errorf("blocklist: %%include nesting exceeds %d at %s:%d", maxIncludeDepth, loc.File, loc.Line)
	}

	r, name, err := b.inputs.Resolve(inc.Path, loc)
	if err != nil {
		b.msgs.Add(messages.Error, loc, err.Error())
		return nil
	}

	b.depth++
	defer func() { b.depth-- }()
	return b.AddSource(name, r)
}

// startNode looks at the first token of a line and returns the parse-tree
// node it starts, along with the remaining tokens still to be applied.
func startNode(loc messages.Location, toks []token.Token) (parsetree.Node, []token.Token, error) {
	if len(toks) == 0 || toks[0].Class == token.ClassEOF || toks[0].Class == token.ClassComment {
		return parsetree.NewEmpty(loc), nil, nil
	}

	first := toks[0]
	switch first.Class {
	case token.ClassIdentifier:
		if first.Text == "%include" {
			return parsetree.NewInclude(loc), toks[1:], nil
		}
		// A bare identifier starting a line names a label; ":" is not
		// part of the lexer's alphabet, so the label name is the whole
		// word and the rest of the line (if anything) must be empty.
		return parsetree.NewLabel(loc, first.Text), toks[1:], nil
	case token.ClassMnemonic:
		switch first.Text {
		case "DCB", "DCW", "DCD":
			d, ok := parsetree.NewDataDirective(loc, first.Text)
			if !ok {
				return nil, nil, fmt.Errorf("blocklist: unrecognised data directive %q", first.Text)
			}
			return d, toks[1:], nil
		case "ORG", "ALIGN":
			a, ok := parsetree.NewAssemblyDirective(loc, first.Text)
			if !ok {
				return nil, nil, fmt.Errorf("blocklist: unrecognised assembly directive %q", first.Text)
			}
			return a, toks[1:], nil
		case "MACRO":
			return parsetree.NewMacroMarker(loc, true, operandName(toks[1:])), nil, nil
		case "ENDM":
			return parsetree.NewMacroMarker(loc, false, ""), toks[1:], nil
		case "PROC":
			return parsetree.NewProcMarker(loc, true, operandName(toks[1:])), nil, nil
		case "ENDP":
			return parsetree.NewProcMarker(loc, false, ""), toks[1:], nil
		case "INCLUDE", "%INCLUDE":
			return parsetree.NewInclude(loc), toks[1:], nil
		default:
			inst, err := parsetree.NewInstruction(loc, first)
			if err != nil {
				return nil, nil, err
			}
			return inst, toks[1:], nil
		}
	default:
		return nil, nil, fmt.Errorf("blocklist: unexpected token %q starting a line", first.Text)
	}
}

func operandName(toks []token.Token) string {
	for _, t := range toks {
		if t.Class == token.ClassIdentifier || t.Class == token.ClassMnemonic {
			return t.Text
		}
	}
	return ""
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	var cur []byte
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i] == '\n' {
				lines = append(lines, string(cur))
				cur = nil
				continue
			}
			cur = append(cur, buf[i])
		}
		if err == io.EOF {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
			}
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
