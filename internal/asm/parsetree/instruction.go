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
	"strings"

	"github.com/armcore/armemu/internal/asm/messages"
	"github.com/armcore/armemu/internal/asm/statement"
	"github.com/armcore/armemu/internal/asm/token"
)

// opClass identifies which statement encoder an Instruction compiles to.
type opClass int

const (
	classDataProc opClass = iota
	classBranch
	classMultiply
	classSWI
	classBKPT
	classMRS
	classMSR
	classSingleTransfer
	classBlockTransfer
)

type mnemonicInfo struct {
	class opClass
	// dpOp is only meaningful for classDataProc.
	dpOp   statement.DataProcOp
	link   bool // only for classBranch (BL vs B)
	accum  bool // only for classMultiply (MLA vs MUL)
	load   bool // only for classSingleTransfer/classBlockTransfer
	byte_  bool // only for classSingleTransfer (LDRB/STRB)
}

var mnemonicTable = map[string]mnemonicInfo{
	"AND": {class: classDataProc, dpOp: statement.OpAND},
	"EOR": {class: classDataProc, dpOp: statement.OpEOR},
	"SUB": {class: classDataProc, dpOp: statement.OpSUB},
	"RSB": {class: classDataProc, dpOp: statement.OpRSB},
	"ADD": {class: classDataProc, dpOp: statement.OpADD},
	"ADC": {class: classDataProc, dpOp: statement.OpADC},
	"SBC": {class: classDataProc, dpOp: statement.OpSBC},
	"RSC": {class: classDataProc, dpOp: statement.OpRSC},
	"TST": {class: classDataProc, dpOp: statement.OpTST},
	"TEQ": {class: classDataProc, dpOp: statement.OpTEQ},
	"CMP": {class: classDataProc, dpOp: statement.OpCMP},
	"CMN": {class: classDataProc, dpOp: statement.OpCMN},
	"ORR": {class: classDataProc, dpOp: statement.OpORR},
	"MOV": {class: classDataProc, dpOp: statement.OpMOV},
	"BIC": {class: classDataProc, dpOp: statement.OpBIC},
	"MVN": {class: classDataProc, dpOp: statement.OpMVN},
	"B":   {class: classBranch, link: false},
	"BL":  {class: classBranch, link: true},
	"MUL": {class: classMultiply, accum: false},
	"MLA": {class: classMultiply, accum: true},
	"SWI": {class: classSWI},
	"SVC": {class: classSWI},
	"BKPT": {class: classBKPT},
	"MRS":  {class: classMRS},
	"MSR":  {class: classMSR},
	"LDR":  {class: classSingleTransfer, load: true},
	"STR":  {class: classSingleTransfer, load: false},
	"LDRB": {class: classSingleTransfer, load: true, byte_: true},
	"STRB": {class: classSingleTransfer, load: false, byte_: true},
	"LDM":  {class: classBlockTransfer, load: true},
	"STM":  {class: classBlockTransfer, load: false},
}

var conditionSuffixes = map[string]statement.Condition{
	"EQ": statement.CondEQ, "NE": statement.CondNE, "CS": statement.CondCS, "CC": statement.CondCC,
	"MI": statement.CondMI, "PL": statement.CondPL, "VS": statement.CondVS, "VC": statement.CondVC,
	"HI": statement.CondHI, "LS": statement.CondLS, "GE": statement.CondGE, "LT": statement.CondLT,
	"GT": statement.CondGT, "LE": statement.CondLE, "AL": statement.CondAL, "NV": statement.CondNV,
}

// splitMnemonic separates the base mnemonic from a trailing condition code
// and/or "S" (set-flags) suffix. A bare trailing "S" means set-flags; a
// trailing two-letter code is a condition; a condition followed by "S"
// means both (e.g. "ADDGTS"). Only cond-then-S is accepted, matching real
// ARM assembler mnemonic order: "ADDSGT" is rejected.
func splitMnemonic(word string) (base string, cond statement.Condition, setFlags bool, ok bool) {
	for candidate := range mnemonicTable {
		if !strings.HasPrefix(word, candidate) {
			continue
		}
		rest := word[len(candidate):]
		switch {
		case rest == "":
			return candidate, statement.CondAL, false, true
		case rest == "S":
			return candidate, statement.CondAL, true, true
		}
		if c, found := conditionSuffixes[rest]; found {
			return candidate, c, false, true
		}
		if strings.HasSuffix(rest, "S") {
			if c, found := conditionSuffixes[strings.TrimSuffix(rest, "S")]; found {
				return candidate, c, true, true
			}
		}
	}
	return "", statement.CondAL, false, false
}

// operand is one comma-separated operand: either a register, a `#imm`
// literal, an identifier (label/symbol), or a bracketed memory operand.
type operand struct {
	isRegister bool
	register   int
	isImm      bool
	imm        uint32
	isIdent    bool
	ident      string
	isBracket  bool
	bracket    []operand
	writeback  bool
}

// Instruction is the parse-tree node for a single ARM instruction mnemonic
// plus its operand list. It accumulates raw tokens and defers all
// interpretation to Compile, where the operand shape is checked against the
// mnemonic's operation class.
type Instruction struct {
	loc       messages.Location
	mnemonic  string
	cond      statement.Condition
	setFlags  bool
	info      mnemonicInfo
	toks      []token.Token
	valid     bool
	lastWasOp bool
}

// NewInstruction starts an Instruction node from its mnemonic token.
func NewInstruction(loc messages.Location, mnemonicToken token.Token) (*Instruction, error) {
	base, cond, setFlags, ok := splitMnemonic(mnemonicToken.Text)
	if !ok {
		return nil, fmt.Errorf("parsetree: unknown mnemonic %q", mnemonicToken.Text)
	}
	return &Instruction{
		loc:      loc,
		mnemonic: base,
		cond:     cond,
		setFlags: setFlags,
		info:     mnemonicTable[base],
		valid:    true,
	}, nil
}

func (i *Instruction) IsComplete() bool { return true }
func (i *Instruction) IsValid() bool    { return i.valid }

func (i *Instruction) ApplyToken(_ *Context, t token.Token) (Node, error) {
	if t.Class == token.ClassEOF || t.Class == token.ClassComment {
		return i, nil
	}
	i.toks = append(i.toks, t)
	return i, nil
}

func (i *Instruction) Compile(msgs *messages.Messages) (statement.Statement, bool) {
	if !i.valid {
		return nil, false
	}
	ops, err := parseOperands(i.toks)
	if err != nil {
		msgs.Add(messages.Error, i.loc, err.Error())
		return nil, false
	}

	switch i.info.class {
	case classDataProc:
		return i.compileDataProc(ops, msgs)
	case classBranch:
		return i.compileBranch(ops, msgs)
	case classMultiply:
		return i.compileMultiply(ops, msgs)
	case classSWI:
		return i.compileSWI(ops, msgs)
	case classBKPT:
		return i.compileBKPT(ops, msgs)
	case classMRS:
		return i.compileMRS(ops, msgs)
	case classMSR:
		return i.compileMSR(ops, msgs)
	case classSingleTransfer:
		return i.compileSingleTransfer(ops, msgs)
	case classBlockTransfer:
		return i.compileBlockTransfer(ops, msgs)
	default:
		msgs.Add(messages.Fatal, i.loc, "parsetree: unhandled instruction class")
		return nil, false
	}
}

func (i *Instruction) fail(msgs *messages.Messages, format string, args ...any) (statement.Statement, bool) {
	msgs.Add(messages.Error, i.loc, fmt.Sprintf(format, args...))
	return nil, false
}

func (i *Instruction) compileDataProc(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	s := statement.NewDataProcessing(i.loc)
	s.Cond = i.cond
	s.Op = i.info.dpOp
	s.SetFlags = i.setFlags

	switch i.info.dpOp {
	case statement.OpCMP, statement.OpCMN, statement.OpTST, statement.OpTEQ:
		if len(ops) != 2 || !ops[0].isRegister {
			return i.fail(msgs, "%s expects Rn, operand2", i.mnemonic)
		}
		s.Rn = ops[0].register
		return i.fillOperand2(s, ops[1], msgs)
	case statement.OpMOV, statement.OpMVN:
		if len(ops) != 2 || !ops[0].isRegister {
			return i.fail(msgs, "%s expects Rd, operand2", i.mnemonic)
		}
		s.Rd = ops[0].register
		return i.fillOperand2(s, ops[1], msgs)
	default:
		if len(ops) != 3 || !ops[0].isRegister || !ops[1].isRegister {
			return i.fail(msgs, "%s expects Rd, Rn, operand2", i.mnemonic)
		}
		s.Rd = ops[0].register
		s.Rn = ops[1].register
		return i.fillOperand2(s, ops[2], msgs)
	}
}

func (i *Instruction) fillOperand2(s *statement.DataProcessing, op operand, msgs *messages.Messages) (statement.Statement, bool) {
	switch {
	case op.isImm:
		s.Immediate = true
		s.ImmValue = op.imm & 0xFF
		return s, true
	case op.isRegister:
		s.Rm = op.register
		return s, true
	default:
		return i.fail(msgs, "%s: operand2 must be a register or #immediate", i.mnemonic)
	}
}

func (i *Instruction) compileBranch(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 1 || !ops[0].isIdent {
		return i.fail(msgs, "%s expects a label operand", i.mnemonic)
	}
	s := statement.NewBranch(i.loc)
	s.Cond = i.cond
	s.Link = i.info.link
	// Target resolution against the symbol table happens in the second
	// pass (blocklist.Assemble), which looks up Label and fills Target
	// before calling Assemble.
	s.Label = ops[0].ident
	return s, true
}

func (i *Instruction) compileMultiply(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) < 3 || len(ops) > 4 {
		return i.fail(msgs, "%s expects Rd, Rm, Rs[, Rn]", i.mnemonic)
	}
	for _, op := range ops {
		if !op.isRegister {
			return i.fail(msgs, "%s: all operands must be registers", i.mnemonic)
		}
	}
	s := statement.NewMultiply(i.loc)
	s.Cond = i.cond
	s.SetFlags = i.setFlags
	s.Accumulate = i.info.accum
	s.Rd = ops[0].register
	s.Rm = ops[1].register
	s.Rs = ops[2].register
	if len(ops) == 4 {
		s.Rn = ops[3].register
	}
	return s, true
}

func (i *Instruction) compileSWI(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 1 || !ops[0].isImm {
		return i.fail(msgs, "%s expects a #comment operand", i.mnemonic)
	}
	s := statement.NewSWI(i.loc)
	s.Cond = i.cond
	s.Comment = ops[0].imm
	return s, true
}

func (i *Instruction) compileBKPT(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 1 || !ops[0].isImm {
		return i.fail(msgs, "%s expects a #comment operand", i.mnemonic)
	}
	s := statement.NewBKPT(i.loc)
	s.Comment = uint16(ops[0].imm)
	return s, true
}

func (i *Instruction) compileMRS(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 2 || !ops[0].isRegister || !ops[1].isIdent {
		return i.fail(msgs, "%s expects Rd, CPSR|SPSR", i.mnemonic)
	}
	s := statement.NewMRS(i.loc)
	s.Cond = i.cond
	s.Rd = ops[0].register
	s.UseSPSR = strings.EqualFold(ops[1].ident, "SPSR")
	return s, true
}

func (i *Instruction) compileMSR(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 2 || !ops[0].isIdent {
		return i.fail(msgs, "%s expects CPSR_<fields>|SPSR_<fields>, operand", i.mnemonic)
	}
	dest := ops[0].ident
	s := statement.NewMSR(i.loc)
	s.Cond = i.cond
	s.UseSPSR = strings.HasPrefix(strings.ToUpper(dest), "SPSR")
	if idx := strings.IndexByte(dest, '_'); idx >= 0 {
		for _, f := range strings.ToLower(dest[idx+1:]) {
			switch f {
			case 'c':
				s.FieldMask |= 1
			case 'x':
				s.FieldMask |= 2
			case 's':
				s.FieldMask |= 4
			case 'f':
				s.FieldMask |= 8
			}
		}
	} else {
		s.FieldMask = 1 | 8
	}
	switch {
	case ops[1].isImm:
		s.Immediate = true
		s.ImmValue = ops[1].imm & 0xFF
	case ops[1].isRegister:
		s.Rm = ops[1].register
	default:
		return i.fail(msgs, "%s: operand must be a register or #immediate", i.mnemonic)
	}
	return s, true
}

func (i *Instruction) compileSingleTransfer(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) != 2 || !ops[0].isRegister || !ops[1].isBracket || len(ops[1].bracket) == 0 {
		return i.fail(msgs, "%s expects Rd, [Rn{, #offset}]", i.mnemonic)
	}
	s := statement.NewSingleTransfer(i.loc)
	s.Cond = i.cond
	s.Load = i.info.load
	s.Byte = i.info.byte_
	s.Rd = ops[0].register
	s.Up = true
	s.PreIndex = true

	inner := ops[1].bracket
	if !inner[0].isRegister {
		return i.fail(msgs, "%s: base register expected inside []", i.mnemonic)
	}
	s.Rn = inner[0].register
	if len(inner) == 1 {
		s.ImmediateOffset = true
		s.ImmOffset = 0
		return s, true
	}
	if len(inner) != 2 {
		return i.fail(msgs, "%s: unsupported addressing mode", i.mnemonic)
	}
	s.Writeback = ops[1].writeback
	switch {
	case inner[1].isImm:
		s.ImmediateOffset = true
		if inner[1].imm < 0 {
			s.Up = false
		}
		s.ImmOffset = inner[1].imm
	case inner[1].isRegister:
		s.ImmediateOffset = false
		s.Rm = inner[1].register
	default:
		return i.fail(msgs, "%s: offset must be a register or #immediate", i.mnemonic)
	}
	return s, true
}

func (i *Instruction) compileBlockTransfer(ops []operand, msgs *messages.Messages) (statement.Statement, bool) {
	if len(ops) < 2 || !ops[0].isRegister {
		return i.fail(msgs, "%s expects Rn{!}, {regs}", i.mnemonic)
	}
	s := statement.NewBlockTransfer(i.loc)
	s.Cond = i.cond
	s.Load = i.info.load
	s.Rn = ops[0].register
	s.Writeback = ops[0].writeback
	s.Up = true
	s.PreIndex = false
	for _, op := range ops[1:] {
		if !op.isRegister {
			return i.fail(msgs, "%s: register list must contain only registers", i.mnemonic)
		}
		s.RegisterList |= 1 << uint(op.register)
	}
	return s, true
}

// parseOperands groups a flat token stream (already stripped of the
// mnemonic) into comma-separated operands, recognising `#imm`, `[...]`
// bracket groups (with an optional trailing `!` writeback marker) and bare
// register/identifier operands.
func parseOperands(toks []token.Token) ([]operand, error) {
	var ops []operand
	idx := 0
	for idx < len(toks) {
		op, next, err := parseOneOperand(toks, idx)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		idx = next
		if idx < len(toks) && toks[idx].Class == token.ClassSeparator {
			idx++
		}
	}
	return ops, nil
}

func parseOneOperand(toks []token.Token, idx int) (operand, int, error) {
	t := toks[idx]
	switch {
	case t.Class == token.ClassOperator && t.Text == "#":
		if idx+1 >= len(toks) {
			return operand{}, idx, fmt.Errorf("parsetree: #immediate with no value")
		}
		v, err := parseImmediate(toks[idx+1].Text)
		if err != nil {
			return operand{}, idx, err
		}
		return operand{isImm: true, imm: v}, idx + 2, nil
	case t.Class == token.ClassOperator && t.Text == "[":
		end := idx + 1
		var inner []operand
		for end < len(toks) && !(toks[end].Class == token.ClassOperator && toks[end].Text == "]") {
			op, next, err := parseOneOperand(toks, end)
			if err != nil {
				return operand{}, idx, err
			}
			inner = append(inner, op)
			end = next
			if end < len(toks) && toks[end].Class == token.ClassSeparator {
				end++
			}
		}
		if end >= len(toks) {
			return operand{}, idx, fmt.Errorf("parsetree: unterminated [ operand")
		}
		end++ // consume ]
		writeback := false
		if end < len(toks) && toks[end].Class == token.ClassOperator && toks[end].Text == "!" {
			writeback = true
			end++
		}
		return operand{isBracket: true, bracket: inner, writeback: writeback}, end, nil
	case t.Class == token.ClassRegister:
		// CPSR/SPSR lex as registers by shape but name a status register,
		// not a general-purpose one; MRS/MSR want them as plain identifiers.
		if up := strings.ToUpper(t.Text); up == "CPSR" || up == "SPSR" {
			return operand{isIdent: true, ident: t.Text}, idx + 1, nil
		}
		reg, err := registerIndex(t.Text)
		if err != nil {
			return operand{}, idx, err
		}
		next := idx + 1
		writeback := false
		if next < len(toks) && toks[next].Class == token.ClassOperator && toks[next].Text == "!" {
			writeback = true
			next++
		}
		return operand{isRegister: true, register: reg, writeback: writeback}, next, nil
	case t.Class == token.ClassIdentifier:
		return operand{isIdent: true, ident: t.Text}, idx + 1, nil
	case t.Class == token.ClassMnemonic:
		// A second all-uppercase word in operand position (e.g. an
		// MSR field-qualified destination CPSR_cxsf) is never actually a
		// mnemonic; the lexer has no context to tell it apart from one.
		return operand{isIdent: true, ident: t.Text}, idx + 1, nil
	default:
		return operand{}, idx, fmt.Errorf("parsetree: unexpected token %q in operand list", t.Text)
	}
}

func parseImmediate(text string) (uint32, error) {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsetree: invalid immediate %q", text)
	}
	return uint32(v), nil
}

func registerIndex(name string) (int, error) {
	switch strings.ToUpper(name) {
	case "SP":
		return 13, nil
	case "LR":
		return 14, nil
	case "PC":
		return 15, nil
	}
	if len(name) < 2 {
		return 0, fmt.Errorf("parsetree: %q is not a register", name)
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n > 15 {
		return 0, fmt.Errorf("parsetree: %q is not a register", name)
	}
	return n, nil
}
