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

// Package parsetree implements the assembler's first-pass syntax nodes: one
// node per source construct, fed tokens one at a time until it reports
// itself complete, at which point it compiles down to a statement.Statement
// for the second pass. Modelled on a token-driven state machine per node
// rather than a single recursive-descent grammar: a node that rejects a
// token marks itself invalid and keeps accepting so the rest of the line
// produces one coherent diagnostic instead of a cascade of them.
package parsetree

import (
	"fmt"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/scope"
	"github.com/armcore/armemu/internal/asm/statement"
	"github.com/armcore/armemu/internal/asm/token"
)

// Context is the shared state every node's ApplyToken/Compile sees.
type Context struct {
	Loc       messages.Location
	Scopes    *scope.Arena
	ScopeIdx  int
	Constants *scope.ConstantSet
}

// Node is one in-progress (or complete) syntax construct.
type Node interface {
	// IsComplete reports whether the node has consumed enough tokens to
	// compile, i.e. the statement terminator (end of line) is valid here.
	IsComplete() bool
	// IsValid reports whether every token consumed so far was accepted;
	// a node that has seen a rejected token is kept around only so the
	// caller can report one coherent error instead of a cascade.
	IsValid() bool
	// ApplyToken feeds the next token to the node. It returns the node to
	// continue with (usually the receiver) and an error if t cannot
	// follow what has been seen so far.
	ApplyToken(ctx *Context, t token.Token) (Node, error)
	// Compile finalises the node into a Statement. ok is false if the
	// node never reached a valid, complete state.
	Compile(msgs *messages.Messages) (statement.Statement, bool)
}

// Empty is a blank or comment-only line.
type Empty struct {
	loc messages.Location
}

func NewEmpty(loc messages.Location) *Empty { return &Empty{loc} }

func (e *Empty) IsComplete() bool { return true }
func (e *Empty) IsValid() bool    { return true }
func (e *Empty) ApplyToken(_ *Context, t token.Token) (Node, error) {
	return nil, fmt.Errorf("parsetree: unexpected token %q after empty statement", t.Text)
}
func (e *Empty) Compile(*messages.Messages) (statement.Statement, bool) {
	return statement.NewEmptyStatement(e.loc), true
}

// Label is `name:` starting a line.
type Label struct {
	loc   messages.Location
	name  string
	valid bool
}

func NewLabel(loc messages.Location, name string) *Label {
	return &Label{loc: loc, name: name, valid: true}
}

func (l *Label) IsComplete() bool { return true }
func (l *Label) IsValid() bool    { return l.valid }
func (l *Label) ApplyToken(_ *Context, t token.Token) (Node, error) {
	l.valid = false
	return l, fmt.Errorf("parsetree: unexpected token %q after label %q", t.Text, l.name)
}
func (l *Label) Compile(*messages.Messages) (statement.Statement, bool) {
	if !l.valid {
		return nil, false
	}
	return statement.NewLabelStatement(l.loc, l.name), true
}

// Include is `%include "path"`.
type Include struct {
	loc      messages.Location
	path     string
	gotPath  bool
	valid    bool
}

func NewInclude(loc messages.Location) *Include {
	return &Include{loc: loc, valid: true}
}

func (i *Include) IsComplete() bool { return i.gotPath }
func (i *Include) IsValid() bool    { return i.valid }

func (i *Include) ApplyToken(_ *Context, t token.Token) (Node, error) {
	if i.gotPath {
		i.valid = false
		return i, fmt.Errorf("parsetree: unexpected token %q after include path", t.Text)
	}
	if t.Class != token.ClassString {
		i.valid = false
		return i, fmt.Errorf("parsetree: include expects a quoted path, got %q", t.Text)
	}
	i.path = t.Text
	i.gotPath = true
	return i, nil
}

func (i *Include) Compile(*messages.Messages) (statement.Statement, bool) {
	if !i.valid || !i.gotPath {
		return nil, false
	}
	return statement.NewIncludeStatement(i.loc, i.path), true
}

// MacroMarker and ProcMarker accept MACRO/ENDM and PROC/ENDP as balanced,
// otherwise-inert brackets (spec's open question on macro/proc expansion).
type MacroMarker struct {
	loc   messages.Location
	start bool
	name  string
}

func NewMacroMarker(loc messages.Location, start bool, name string) *MacroMarker {
	return &MacroMarker{loc, start, name}
}
func (m *MacroMarker) IsComplete() bool { return true }
func (m *MacroMarker) IsValid() bool    { return true }
func (m *MacroMarker) ApplyToken(_ *Context, t token.Token) (Node, error) {
	return nil, fmt.Errorf("parsetree: unexpected token %q after macro marker", t.Text)
}
func (m *MacroMarker) Compile(*messages.Messages) (statement.Statement, bool) {
	return statement.NewMacroMarker(m.loc, m.start, m.name), true
}

type ProcMarker struct {
	loc   messages.Location
	start bool
	name  string
}

func NewProcMarker(loc messages.Location, start bool, name string) *ProcMarker {
	return &ProcMarker{loc, start, name}
}
func (p *ProcMarker) IsComplete() bool { return true }
func (p *ProcMarker) IsValid() bool    { return true }
func (p *ProcMarker) ApplyToken(_ *Context, t token.Token) (Node, error) {
	return nil, fmt.Errorf("parsetree: unexpected token %q after proc marker", t.Text)
}
func (p *ProcMarker) Compile(*messages.Messages) (statement.Statement, bool) {
	return statement.NewProcMarker(p.loc, p.start, p.name), true
}
