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

package blocklist

import (
	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/statement"
)

// Assemble lays out every accumulated statement and emits its object code.
// Pass one walks the entries in source order assigning each the offset it
// predicts it will occupy and defining every label's address at the offset
// it lands on; pass two re-walks them now that the whole symbol table (and
// every branch's label) is resolvable, calling Assemble for real. A
// statement that still fails to resolve in pass two is zero-padded to its
// predicted size rather than shifting everything after it, so an error in
// one statement never corrupts the addresses of its neighbours.
func (b *BlockList) Assemble() (ObjectCode, *messages.Messages) {
	offsets := make([]uint32, len(b.entries))
	offset := b.base
	for idx, e := range b.entries {
		offsets[idx] = offset
		switch s := e.stmt.(type) {
		case *statement.LabelStatement:
			ctx := b.contextAt(offset)
			if _, _, err := s.Assemble(ctx); err != nil {
				b.msgs.Add(messages.Error, s.Loc(), err.Error())
			}
		case *statement.AssemblyDirective:
			// ORG/ALIGN reposition the running offset itself, so pass one
			// must apply their effect before laying out what follows;
			// pass two re-applies it harmlessly against a throwaway
			// context when it calls Assemble on every statement.
			ctx := b.contextAt(offset)
			if _, _, err := s.Assemble(ctx); err != nil {
				b.msgs.Add(messages.Error, s.Loc(), err.Error())
			} else {
				offset = ctx.Offset
			}
		}
		offset += e.stmt.PredictedSize()
	}

	total := offset - b.base
	out := make([]byte, 0, total)

	for idx, e := range b.entries {
		stmt := e.stmt
		if _, ok := stmt.(*statement.LabelStatement); ok {
			// Already defined while assigning offsets above; Assemble
			// would reject the symbol as a redefinition if called again.
			continue
		}
		ctx := b.contextAt(offsets[idx])

		if br, ok := stmt.(*statement.Branch); ok && br.Label != "" {
			target, found := ctx.Resolve(br.Label)
			if !found {
				b.msgs.Add(messages.Error, br.Loc(), "blocklist: undefined label "+br.Label)
				out = append(out, make([]byte, stmt.PredictedSize())...)
				continue
			}
			br.Target = target
		}

		code, resolved, err := stmt.Assemble(ctx)
		if err != nil {
			b.msgs.Add(messages.Error, stmt.Loc(), err.Error())
			out = append(out, make([]byte, stmt.PredictedSize())...)
			continue
		}
		if !resolved {
			out = append(out, make([]byte, stmt.PredictedSize())...)
			continue
		}
		out = append(out, code...)
	}

	return ObjectCode{Base: b.base, Bytes: out}, b.msgs
}

func (b *BlockList) contextAt(offset uint32) *statement.AssembleContext {
	return &statement.AssembleContext{
		Offset:    offset,
		Scopes:    b.arena,
		ScopeIdx:  b.rootScope,
		Constants: b.constants,
	}
}
