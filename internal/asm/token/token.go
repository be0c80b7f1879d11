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

// Package token classifies the lexical units the assembler's syntax nodes
// consume: mnemonics, registers, literals and punctuation. Each token has a
// small bag of scalar properties (condition code, register index, PSR field
// mask, ...); LexLine leaves it empty, and the parse tree derives what it
// needs from the token text.
package token

import "github.com/armcore/armemu/internal/asm/messages"

// Class categorises a token.
type Class int

const (
	ClassEOF Class = iota
	ClassMnemonic
	ClassRegister
	ClassLiteral
	ClassIdentifier
	ClassSeparator // comma
	ClassOperator  // !, #, =, [, ]
	ClassString
	ClassComment
)

func (c Class) String() string {
	switch c {
	case ClassEOF:
		return "eof"
	case ClassMnemonic:
		return "mnemonic"
	case ClassRegister:
		return "register"
	case ClassLiteral:
		return "literal"
	case ClassIdentifier:
		return "identifier"
	case ClassSeparator:
		return "separator"
	case ClassOperator:
		return "operator"
	case ClassString:
		return "string"
	case ClassComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Property names a scalar carried alongside a token's text.
type Property int

const (
	PropCondition Property = iota
	PropMnemonicID
	PropUpdatesPSR
	PropPSRFieldMask
	PropRegisterIndex
	PropImmediateValue
)

// Token is one lexical unit.
type Token struct {
	Class Class
	Text  string
	Loc   messages.Location
	Props map[Property]int
}

// New returns a Token with an initialised property map.
func New(class Class, text string, loc messages.Location) Token {
	return Token{Class: class, Text: text, Loc: loc, Props: make(map[Property]int)}
}

// Prop reads a scalar property, returning 0, false if unset.
func (t Token) Prop(p Property) (int, bool) {
	v, ok := t.Props[p]
	return v, ok
}

// WithProp returns a copy of t with p set to v.
func (t Token) WithProp(p Property, v int) Token {
	out := t
	out.Props = make(map[Property]int, len(t.Props)+1)
	for k, val := range t.Props {
		out.Props[k] = val
	}
	out.Props[p] = v
	return out
}

// IsEOF reports whether t is the end-of-input sentinel.
func (t Token) IsEOF() bool { return t.Class == ClassEOF }
