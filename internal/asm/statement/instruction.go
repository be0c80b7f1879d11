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

package statement

import "fmt"

// Condition mirrors internal/armcpu's 4-bit condition field. Duplicated
// here rather than imported since the encoding is architecturally fixed,
// not an armcpu implementation detail, and the assembler must not depend on
// the emulator's internal package.
type Condition uint8

const (
	CondEQ Condition = iota
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	CondNV
)

func littleEndian(word uint32) []byte {
	return []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
}

// DataProcOp is the 4-bit ALU opcode field, bits 24-21.
type DataProcOp uint8

const (
	OpAND DataProcOp = iota
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
)

// DataProcessing is MOV/ADD/CMP/... with an immediate or register operand-2.
type DataProcessing struct {
	baseStatement
	Cond        Condition
	Op          DataProcOp
	SetFlags    bool
	Rn, Rd      int
	Immediate   bool
	ImmValue    uint32 // pre-rotated 8-bit immediate, 0-255
	ImmRotate   uint32 // rotate amount / 2, 0-15
	Rm          int
	ShiftType   uint8
	ShiftAmount uint8
	ShiftByReg  bool
	Rs          int
}

func NewDataProcessing(loc Location) *DataProcessing {
	return &DataProcessing{baseStatement: baseStatement{loc}}
}

func (d *DataProcessing) PredictedSize() uint32 { return 4 }

func (d *DataProcessing) Assemble(*AssembleContext) ([]byte, bool, error) {
	if d.ImmValue > 0xFF {
		return nil, false, fmt.Errorf("statement: data-processing immediate %#x exceeds 8 bits", d.ImmValue)
	}
	word := uint32(d.Cond)<<28 | uint32(d.Op)<<21
	if d.SetFlags {
		word |= 1 << 20
	}
	word |= uint32(d.Rn&0xF) << 16
	word |= uint32(d.Rd&0xF) << 12
	if d.Immediate {
		word |= 1 << 25
		word |= (d.ImmRotate & 0xF) << 8
		word |= d.ImmValue & 0xFF
	} else {
		word |= uint32(d.ShiftType&0x3) << 5
		if d.ShiftByReg {
			word |= 1 << 4
			word |= uint32(d.Rs&0xF) << 8
		} else {
			word |= uint32(d.ShiftAmount&0x1F) << 7
		}
		word |= uint32(d.Rm & 0xF)
	}
	return littleEndian(word), true, nil
}

// Branch is B/BL: a signed 24-bit word offset computed relative to the
// instruction's own address (PC+8 per the pipelined read convention).
type Branch struct {
	baseStatement
	Cond   Condition
	Link   bool
	Target uint32 // resolved absolute target address
	// Label, when non-empty, names a symbol the block list must resolve
	// into Target before calling Assemble (a forward or backward branch
	// target is rarely known at parse time).
	Label string
}

func NewBranch(loc Location) *Branch {
	return &Branch{baseStatement: baseStatement{loc}}
}

func (b *Branch) PredictedSize() uint32 { return 4 }

func (b *Branch) Assemble(ctx *AssembleContext) ([]byte, bool, error) {
	pcRead := ctx.Offset + 8
	delta := int32(b.Target) - int32(pcRead)
	if delta&0x3 != 0 {
		return nil, false, fmt.Errorf("statement: branch target %#x is not word-aligned relative to %#x", b.Target, pcRead)
	}
	field := uint32(delta>>2) & 0x00FFFFFF
	word := uint32(b.Cond)<<28 | 0x5<<25 | field
	if b.Link {
		word |= 1 << 24
	}
	return littleEndian(word), true, nil
}

// Multiply is MUL/MLA.
type Multiply struct {
	baseStatement
	Cond                 Condition
	Accumulate, SetFlags bool
	Rd, Rn, Rs, Rm       int
}

func NewMultiply(loc Location) *Multiply {
	return &Multiply{baseStatement: baseStatement{loc}}
}

func (m *Multiply) PredictedSize() uint32 { return 4 }

func (m *Multiply) Assemble(*AssembleContext) ([]byte, bool, error) {
	word := uint32(m.Cond)<<28 | uint32(m.Rd&0xF)<<16 | uint32(m.Rn&0xF)<<12 |
		uint32(m.Rs&0xF)<<8 | 0x9<<4 | uint32(m.Rm&0xF)
	if m.Accumulate {
		word |= 1 << 21
	}
	if m.SetFlags {
		word |= 1 << 20
	}
	return littleEndian(word), true, nil
}

// SWI is the software interrupt instruction, carrying a 24-bit comment
// field.
type SWI struct {
	baseStatement
	Cond    Condition
	Comment uint32
}

func NewSWI(loc Location) *SWI {
	return &SWI{baseStatement: baseStatement{loc}}
}

func (s *SWI) PredictedSize() uint32 { return 4 }

func (s *SWI) Assemble(*AssembleContext) ([]byte, bool, error) {
	word := uint32(s.Cond)<<28 | 0xF<<24 | (s.Comment & 0x00FFFFFF)
	return littleEndian(word), true, nil
}

// BKPT is the debug breakpoint instruction, always unconditional, carrying
// a 16-bit comment field split across bits 19:8 and 3:0.
type BKPT struct {
	baseStatement
	Comment uint16
}

func NewBKPT(loc Location) *BKPT {
	return &BKPT{baseStatement: baseStatement{loc}}
}

func (b *BKPT) PredictedSize() uint32 { return 4 }

func (b *BKPT) Assemble(*AssembleContext) ([]byte, bool, error) {
	hi := uint32(b.Comment>>4) & 0xFFF
	lo := uint32(b.Comment) & 0xF
	word := uint32(CondAL)<<28 | 0x12<<20 | hi<<8 | 0x7<<4 | lo
	return littleEndian(word), true, nil
}

// MRS copies CPSR or SPSR into a register.
type MRS struct {
	baseStatement
	Cond    Condition
	UseSPSR bool
	Rd      int
}

func NewMRS(loc Location) *MRS {
	return &MRS{baseStatement: baseStatement{loc}}
}

func (m *MRS) PredictedSize() uint32 { return 4 }

func (m *MRS) Assemble(*AssembleContext) ([]byte, bool, error) {
	word := uint32(m.Cond)<<28 | 0x02<<23 | 0x0F<<16 | uint32(m.Rd&0xF)<<12
	if m.UseSPSR {
		word |= 1 << 22
	}
	return littleEndian(word), true, nil
}

// MSR writes CPSR or SPSR, from a register or a rotated 8-bit immediate,
// under a field mask (control/flags).
type MSR struct {
	baseStatement
	Cond      Condition
	UseSPSR   bool
	FieldMask uint8 // bit0=control(c), bit1=extension(x), bit2=status(s), bit3=flags(f)
	Immediate bool
	ImmValue  uint32
	ImmRotate uint32
	Rm        int
}

func NewMSR(loc Location) *MSR {
	return &MSR{baseStatement: baseStatement{loc}}
}

func (m *MSR) PredictedSize() uint32 { return 4 }

func (m *MSR) Assemble(*AssembleContext) ([]byte, bool, error) {
	word := uint32(m.Cond)<<28 | 0x02<<23 | 0x02<<20 | uint32(m.FieldMask&0xF)<<16 | 0xF<<12
	if m.UseSPSR {
		word |= 1 << 22
	}
	if m.Immediate {
		word |= 1 << 25
		word |= (m.ImmRotate & 0xF) << 8
		word |= m.ImmValue & 0xFF
	} else {
		word |= 0x28F << 4
		word |= uint32(m.Rm & 0xF)
	}
	return littleEndian(word), true, nil
}

// SingleTransfer is LDR/STR/LDRB/STRB.
type SingleTransfer struct {
	baseStatement
	Cond                                      Condition
	Load, Byte, PreIndex, Up, Writeback       bool
	Rn, Rd                                    int
	ImmediateOffset                           bool
	ImmOffset                                 uint32
	Rm                                        int
	ShiftType                                 uint8
	ShiftAmount                               uint8
}

func NewSingleTransfer(loc Location) *SingleTransfer {
	return &SingleTransfer{baseStatement: baseStatement{loc}}
}

func (s *SingleTransfer) PredictedSize() uint32 { return 4 }

func (s *SingleTransfer) Assemble(*AssembleContext) ([]byte, bool, error) {
	if s.ImmediateOffset && s.ImmOffset > 0xFFF {
		return nil, false, fmt.Errorf("statement: load/store immediate offset %#x exceeds 12 bits", s.ImmOffset)
	}
	word := uint32(s.Cond)<<28 | 0x1<<26
	if !s.ImmediateOffset {
		word |= 1 << 25
	}
	if s.PreIndex {
		word |= 1 << 24
	}
	if s.Up {
		word |= 1 << 23
	}
	if s.Byte {
		word |= 1 << 22
	}
	if s.Writeback {
		word |= 1 << 21
	}
	if s.Load {
		word |= 1 << 20
	}
	word |= uint32(s.Rn&0xF) << 16
	word |= uint32(s.Rd&0xF) << 12
	if s.ImmediateOffset {
		word |= s.ImmOffset & 0xFFF
	} else {
		word |= uint32(s.ShiftType&0x3) << 5
		word |= uint32(s.ShiftAmount&0x1F) << 7
		word |= uint32(s.Rm & 0xF)
	}
	return littleEndian(word), true, nil
}

// BlockTransfer is LDM/STM over a register list.
type BlockTransfer struct {
	baseStatement
	Cond                           Condition
	Load, PreIndex, Up, Writeback bool
	Rn                             int
	RegisterList                   uint16 // bit i set => register i included
}

func NewBlockTransfer(loc Location) *BlockTransfer {
	return &BlockTransfer{baseStatement: baseStatement{loc}}
}

func (b *BlockTransfer) PredictedSize() uint32 { return 4 }

func (b *BlockTransfer) Assemble(*AssembleContext) ([]byte, bool, error) {
	word := uint32(b.Cond)<<28 | 0x4<<25
	if b.PreIndex {
		word |= 1 << 24
	}
	if b.Up {
		word |= 1 << 23
	}
	if b.Writeback {
		word |= 1 << 21
	}
	if b.Load {
		word |= 1 << 20
	}
	word |= uint32(b.Rn&0xF) << 16
	word |= uint32(b.RegisterList)
	return littleEndian(word), true, nil
}
