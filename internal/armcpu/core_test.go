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

package armcpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/addrmap"
	"github.com/armcore/armemu/internal/region"
)

func newTestCore(t *testing.T, program []uint32) *Core {
	t.Helper()

	data := make([]byte, len(program)*4+64)
	for i, word := range program {
		data[i*4] = byte(word)
		data[i*4+1] = byte(word >> 8)
		data[i*4+2] = byte(word >> 16)
		data[i*4+3] = byte(word >> 24)
	}

	ram := region.NewHostBlock("ram", "test RAM", data, region.ReadWrite)
	readMap := addrmap.New()
	writeMap := addrmap.New()
	require.True(t, readMap.TryInsert(0, ram))
	require.True(t, writeMap.TryInsert(0, ram))

	regs := NewRegisters()
	return NewCore(regs, readMap, writeMap, nil, nil)
}

func TestConditionEvaluationScenario(t *testing.T) {
	psr := PSR{Z: true}
	require.True(t, ConditionPasses(CondEQ, psr))
	require.False(t, ConditionPasses(CondNE, psr))
	require.True(t, ConditionPasses(CondAL, psr))
	require.False(t, ConditionPasses(CondNV, psr))

	gePsr := PSR{N: true, V: true}
	require.True(t, ConditionPasses(CondGE, gePsr))
	require.False(t, ConditionPasses(CondLT, gePsr))
}

func TestExceptionEntryPreservesCPSRAndBanksLR(t *testing.T) {
	c := newTestCore(t, nil)
	c.Regs.SetCPSR(PSR{Mode: User32, N: true, C: true})
	c.Regs.SetPC(0x1000)

	priorCPSR := c.Regs.CPSR()
	c.enterException(SVC32, vectorSWI, offsetSWI)

	require.Equal(t, priorCPSR, c.Regs.SPSR(SVC32))
	require.EqualValues(t, 0x1000+offsetSWI, c.Regs.Read(LR, false))
	require.Equal(t, SVC32, c.Regs.CPSR().Mode)
	require.True(t, c.Regs.CPSR().IRQDisable)
	require.EqualValues(t, vectorSWI, c.Regs.PC())
}

func TestExceptionEntryFIQDisablesFIQOnly(t *testing.T) {
	c := newTestCore(t, nil)
	c.Regs.SetCPSR(PSR{Mode: User32})
	c.enterException(FIQ32, vectorFIQ, offsetFIQ)
	require.True(t, c.Regs.CPSR().FIQDisable)

	c2 := newTestCore(t, nil)
	c2.Regs.SetCPSR(PSR{Mode: User32})
	c2.enterException(SVC32, vectorSWI, offsetSWI)
	require.False(t, c2.Regs.CPSR().FIQDisable)
}

func TestBKPTEncodeDecodeRoundTrip(t *testing.T) {
	word := EncodeBKPT(0xABCD)
	require.True(t, isBKPT(word))
	require.EqualValues(t, 0xABCD, DecodeBKPTComment(word))
}

func TestRunStopsOnBKPTReportingDebugIRQ(t *testing.T) {
	bkpt := EncodeBKPT(1)
	c := newTestCore(t, []uint32{bkpt})
	c.Regs.SetCPSR(PSR{Mode: SVC32})

	metrics := c.Run()
	require.Equal(t, DebugIRQ, metrics.Result)
	require.EqualValues(t, 1, metrics.InstructionCount)
	require.EqualValues(t, 4, c.Regs.PC())
}

func TestStepRetiresCleanlyOverBKPT(t *testing.T) {
	bkpt := EncodeBKPT(1)
	c := newTestCore(t, []uint32{bkpt})
	c.Regs.SetCPSR(PSR{Mode: SVC32})

	ok := c.Step()
	require.True(t, ok)
	require.EqualValues(t, 4, c.Regs.PC())
}

func TestDataProcessingMovImmediateAndFlags(t *testing.T) {
	// MOVS r0, #0  (cond AL, opMOV, S bit set, Rd=r0, imm=0)
	word := uint32(CondAL)<<28 | 0x3B<<20 | uint32(R0)<<12 | 0
	c := newTestCore(t, []uint32{word})
	c.Regs.SetCPSR(PSR{Mode: SVC32})

	ok := c.Step()
	require.True(t, ok)
	require.EqualValues(t, 0, c.Regs.Read(R0, false))
	require.True(t, c.Regs.CPSR().Z)
}

func TestBranchWithLinkSetsLR(t *testing.T) {
	// BL #0 (offset field 0, so target == address of the instruction after
	// the pipelined PC adjustment); cond AL, bits 27:24 = 1011 (link).
	word := uint32(CondAL)<<28 | 0xB<<24
	c := newTestCore(t, []uint32{word})
	c.Regs.SetCPSR(PSR{Mode: SVC32})
	c.Regs.SetPC(0)

	ok := c.Step()
	require.True(t, ok)
	require.EqualValues(t, 4, c.Regs.Read(LR, false))
}
