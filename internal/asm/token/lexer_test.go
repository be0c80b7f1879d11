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

package token

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/asm/messages"
)

func TestLexLineInstructionWithOperands(t *testing.T) {
	toks, err := LexLine("MOV R0, #42 ; load answer", "t.s", 1)
	require.NoError(t, err)

	require.Equal(t, ClassMnemonic, toks[0].Class)
	require.Equal(t, "MOV", toks[0].Text)
	require.Equal(t, ClassRegister, toks[1].Class)
	require.Equal(t, ClassSeparator, toks[2].Class)
	require.Equal(t, ClassOperator, toks[3].Class)
	require.Equal(t, "#", toks[3].Text)
	require.Equal(t, ClassLiteral, toks[4].Class)
	require.Equal(t, "42", toks[4].Text)
	require.Equal(t, ClassComment, toks[5].Class)
	require.Equal(t, ClassEOF, toks[len(toks)-1].Class)
}

func TestLexLineBracketOperandWithWriteback(t *testing.T) {
	toks, err := LexLine("LDR R1, [R2, #4]!", "t.s", 2)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		if tok.Class != ClassEOF {
			texts = append(texts, tok.Text)
		}
	}
	require.Equal(t, []string{"LDR", "R1", ",", "[", "R2", ",", "#", "4", "]", "!"}, texts)
}

func TestLexLineUnterminatedStringErrors(t *testing.T) {
	_, err := LexLine(`%include "foo.s`, "t.s", 3)
	require.Error(t, err)
}

func TestWithPropRoundTrip(t *testing.T) {
	tok := New(ClassRegister, "R3", messages.Location{File: "t.s", Line: 1})
	tok = tok.WithProp(PropRegisterIndex, 3)
	v, ok := tok.Prop(PropRegisterIndex)
	require.True(t, ok)
	require.Equal(t, 3, v)
}
