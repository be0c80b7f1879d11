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

package parsetree

import (
	"fmt"
	"strconv"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/statement"
	"github.com/armcore/armemu/internal/asm/token"
)

// dataDirectiveWidths maps a DCx mnemonic to its element width in bytes.
var dataDirectiveWidths = map[string]int{
	"DCB": 1,
	"DCW": 2,
	"DCD": 4,
}

// DataDirective accumulates comma-separated literal values following a
// DCB/DCW/DCD mnemonic.
type DataDirective struct {
	loc    messages.Location
	width  int
	values []uint32
	valid  bool
}

// NewDataDirective starts a DataDirective node; ok is false if name is not
// a recognised data directive.
func NewDataDirective(loc messages.Location, name string) (*DataDirective, bool) {
	width, ok := dataDirectiveWidths[name]
	if !ok {
		return nil, false
	}
	return &DataDirective{loc: loc, width: width, valid: true}, true
}

func (d *DataDirective) IsComplete() bool { return true }
func (d *DataDirective) IsValid() bool    { return d.valid }

func (d *DataDirective) ApplyToken(_ *Context, t token.Token) (Node, error) {
	switch t.Class {
	case token.ClassEOF, token.ClassComment, token.ClassSeparator:
		return d, nil
	case token.ClassLiteral:
		v, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			d.valid = false
			return d, fmt.Errorf("parsetree: invalid data literal %q", t.Text)
		}
		d.values = append(d.values, uint32(v))
		return d, nil
	default:
		d.valid = false
		return d, fmt.Errorf("parsetree: unexpected token %q in data directive", t.Text)
	}
}

func (d *DataDirective) Compile(*messages.Messages) (statement.Statement, bool) {
	if !d.valid {
		return nil, false
	}
	return statement.NewDataDirective(d.loc, d.width, d.values), true
}

// AssemblyDirective handles ORG (reposition the running offset) and ALIGN
// (pad to a boundary); other assembler-state directives can be added the
// same way without touching the block list.
type AssemblyDirective struct {
	loc   messages.Location
	name  string
	value uint32
	valid bool
}

var assemblyDirectiveNames = map[string]bool{"ORG": true, "ALIGN": true}

func NewAssemblyDirective(loc messages.Location, name string) (*AssemblyDirective, bool) {
	if !assemblyDirectiveNames[name] {
		return nil, false
	}
	return &AssemblyDirective{loc: loc, name: name, valid: true}, true
}

func (a *AssemblyDirective) IsComplete() bool { return true }
func (a *AssemblyDirective) IsValid() bool    { return a.valid }

func (a *AssemblyDirective) ApplyToken(_ *Context, t token.Token) (Node, error) {
	switch t.Class {
	case token.ClassEOF, token.ClassComment:
		return a, nil
	case token.ClassLiteral:
		v, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			a.valid = false
			return a, fmt.Errorf("parsetree: invalid %s operand %q", a.name, t.Text)
		}
		a.value = uint32(v)
		return a, nil
	default:
		a.valid = false
		return a, fmt.Errorf("parsetree: unexpected token %q in %s directive", t.Text, a.name)
	}
}

func (a *AssemblyDirective) Compile(*messages.Messages) (statement.Statement, bool) {
	if !a.valid {
		return nil, false
	}
	name, value := a.name, a.value
	return statement.NewAssemblyDirective(a.loc, name, func(ctx *statement.AssembleContext) error {
		switch name {
		case "ORG":
			ctx.Offset = value
		case "ALIGN":
			if value == 0 {
				return fmt.Errorf("statement: ALIGN 0 is not a valid boundary")
			}
			if rem := ctx.Offset % value; rem != 0 {
				ctx.Offset += value - rem
			}
		}
		return nil
	}), true
}
