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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/scope"
	"github.com/armcore/armemu/internal/asm/statement"
	"github.com/armcore/armemu/internal/asm/token"
)

// compileLine lexes a full instruction line and drives it through an
// Instruction node exactly as the block list's statement-arrival loop would:
// the first token starts the node, every following token (up to but
// excluding EOF) is applied, then Compile is called.
func compileLine(t *testing.T, line string) (statement.Statement, bool) {
	t.Helper()
	toks, err := token.LexLine(line, "t.s", 1)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	require.Equal(t, token.ClassMnemonic, toks[0].Class)

	inst, err := NewInstruction(toks[0].Loc, toks[0])
	require.NoError(t, err)

	var node Node = inst
	for _, tok := range toks[1:] {
		node, err = node.ApplyToken(&Context{}, tok)
		require.NoError(t, err)
	}

	msgs := &messages.Messages{}
	stmt, ok := node.Compile(msgs)
	if !ok {
		return nil, false
	}
	return stmt, true
}

func TestCompileMOVImmediate(t *testing.T) {
	stmt, ok := compileLine(t, "MOV R0, #42")
	require.True(t, ok)
	dp, ok := stmt.(*statement.DataProcessing)
	require.True(t, ok)
	require.Equal(t, statement.OpMOV, dp.Op)
	require.Equal(t, 0, dp.Rd)
	require.True(t, dp.Immediate)
	require.Equal(t, uint32(42), dp.ImmValue)
	require.Equal(t, statement.CondAL, dp.Cond)
	require.False(t, dp.SetFlags)
}

func TestCompileMOVSSetsFlagsSuffix(t *testing.T) {
	stmt, ok := compileLine(t, "MOVS R1, R2")
	require.True(t, ok)
	dp := stmt.(*statement.DataProcessing)
	require.True(t, dp.SetFlags)
	require.Equal(t, 2, dp.Rm)
}

func TestCompileConditionalAdd(t *testing.T) {
	stmt, ok := compileLine(t, "ADDEQ R0, R1, R2")
	require.True(t, ok)
	dp := stmt.(*statement.DataProcessing)
	require.Equal(t, statement.CondEQ, dp.Cond)
	require.Equal(t, statement.OpADD, dp.Op)
	require.Equal(t, 0, dp.Rd)
	require.Equal(t, 1, dp.Rn)
	require.Equal(t, 2, dp.Rm)
}

func TestCompileBranchWithLinkLeavesLabelUnresolved(t *testing.T) {
	stmt, ok := compileLine(t, "BL done")
	require.True(t, ok)
	br := stmt.(*statement.Branch)
	require.True(t, br.Link)
	require.Equal(t, "done", br.Label)
}

func TestCompileLDRImmediateOffset(t *testing.T) {
	stmt, ok := compileLine(t, "LDR R0, [R1, #4]")
	require.True(t, ok)
	st := stmt.(*statement.SingleTransfer)
	require.True(t, st.Load)
	require.False(t, st.Byte)
	require.Equal(t, 1, st.Rn)
	require.Equal(t, 0, st.Rd)
	require.True(t, st.ImmediateOffset)
	require.Equal(t, uint32(4), st.ImmOffset)
	require.False(t, st.Writeback)
}

func TestCompileLDRWriteback(t *testing.T) {
	stmt, ok := compileLine(t, "LDR R0, [R1, #4]!")
	require.True(t, ok)
	st := stmt.(*statement.SingleTransfer)
	require.True(t, st.Writeback)
}

func TestCompileBKPT(t *testing.T) {
	stmt, ok := compileLine(t, "BKPT #256")
	require.True(t, ok)
	bk := stmt.(*statement.BKPT)
	require.Equal(t, uint16(256), bk.Comment)
}

func TestCompileSTMWithWritebackRegisterList(t *testing.T) {
	stmt, ok := compileLine(t, "STM R13!, R0")
	require.True(t, ok)
	bt := stmt.(*statement.BlockTransfer)
	require.False(t, bt.Load)
	require.Equal(t, 13, bt.Rn)
	require.True(t, bt.Writeback)
	require.Equal(t, uint16(1), bt.RegisterList)
}

func TestCompileUnknownMnemonicFails(t *testing.T) {
	toks, err := token.LexLine("FROB R0, R1", "t.s", 1)
	require.NoError(t, err)
	_, err = NewInstruction(toks[0].Loc, toks[0])
	require.Error(t, err)
}

func TestCompileMRSReadsSPSR(t *testing.T) {
	stmt, ok := compileLine(t, "MRS R0, SPSR")
	require.True(t, ok)
	mrs := stmt.(*statement.MRS)
	require.True(t, mrs.UseSPSR)
	require.Equal(t, 0, mrs.Rd)
}

func TestLabelNodeCompile(t *testing.T) {
	l := NewLabel(messages.Location{File: "t.s", Line: 1}, "loop")
	stmt, ok := l.Compile(&messages.Messages{})
	require.True(t, ok)
	ls := stmt.(*statement.LabelStatement)
	require.Equal(t, "loop", ls.Name)
}

func TestLabelNodeRejectsTrailingToken(t *testing.T) {
	l := NewLabel(messages.Location{File: "t.s", Line: 1}, "loop")
	_, err := l.ApplyToken(&Context{}, token.New(token.ClassMnemonic, "MOV", messages.Location{}))
	require.Error(t, err)
	require.False(t, l.IsValid())
}

func TestIncludeNodeRequiresQuotedPath(t *testing.T) {
	i := NewInclude(messages.Location{File: "t.s", Line: 1})
	_, err := i.ApplyToken(&Context{}, token.New(token.ClassIdentifier, "foo.s", messages.Location{}))
	require.Error(t, err)
	require.False(t, i.IsValid())
}

func TestIncludeNodeAcceptsQuotedPath(t *testing.T) {
	i := NewInclude(messages.Location{File: "t.s", Line: 1})
	node, err := i.ApplyToken(&Context{}, token.New(token.ClassString, "sub.s", messages.Location{}))
	require.NoError(t, err)
	require.True(t, node.IsComplete())
	stmt, ok := node.Compile(&messages.Messages{})
	require.True(t, ok)
	require.Equal(t, "sub.s", stmt.(*statement.IncludeStatement).Path)
}

func TestDataDirectiveAccumulatesWords(t *testing.T) {
	d, ok := NewDataDirective(messages.Location{File: "t.s", Line: 1}, "DCW")
	require.True(t, ok)
	var node Node = d
	for _, text := range []string{"1", "2", "3"} {
		tok := token.New(token.ClassLiteral, text, messages.Location{})
		var err error
		node, err = node.ApplyToken(&Context{}, tok)
		require.NoError(t, err)
	}
	stmt, ok := node.Compile(&messages.Messages{})
	require.True(t, ok)
	dd := stmt.(*statement.DataDirective)
	require.Equal(t, 2, dd.Width)
	require.Equal(t, []uint32{1, 2, 3}, dd.Words)
}

func TestAssemblyDirectiveORGSetsOffset(t *testing.T) {
	a, ok := NewAssemblyDirective(messages.Location{File: "t.s", Line: 1}, "ORG")
	require.True(t, ok)
	node, err := a.ApplyToken(&Context{}, token.New(token.ClassLiteral, "0x8000", messages.Location{}))
	require.NoError(t, err)
	stmt, ok := node.Compile(&messages.Messages{})
	require.True(t, ok)

	ctx := &statement.AssembleContext{Offset: 0, Scopes: scope.NewArena(0), ScopeIdx: 0, Constants: scope.NewConstantSet()}
	_, resolved, err := stmt.Assemble(ctx)
	require.NoError(t, err)
	require.True(t, resolved)
	require.Equal(t, uint32(0x8000), ctx.Offset)
}

func TestNewAssemblyDirectiveRejectsUnknownName(t *testing.T) {
	_, ok := NewAssemblyDirective(messages.Location{}, "NOTADIRECTIVE")
	require.False(t, ok)
}
