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

package debugger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/armcpu"
)

func movImmediate(rd int, imm uint32) uint32 {
	return uint32(armcpu.CondAL)<<28 | 0x3A<<20 | uint32(rd)<<12 | imm
}

func TestBreakpointApplyInstallsAndRemoveRestores(t *testing.T) {
	original := movImmediate(0, 7)
	sys := newTestSystem(t, []uint32{original})

	bp := newBreakpoint(sys, 0, firstBreakpointID, false)
	require.True(t, bp.IsValid())
	require.EqualValues(t, original, bp.Instruction())
	require.False(t, bp.IsEnabled())

	require.True(t, bp.Apply())
	require.True(t, bp.IsEnabled())

	installed := readWord(bp.block.Data, bp.blockOffset)
	require.Equal(t, armcpu.EncodeBKPT(firstBreakpointID), installed)

	bp.Remove()
	require.False(t, bp.IsEnabled())
	require.EqualValues(t, original, readWord(bp.block.Data, bp.blockOffset))
}

func TestBreakpointInvalidOnUnmappedAddress(t *testing.T) {
	sys := newTestSystem(t, nil)
	bp := newBreakpoint(sys, 0x9000_0000, firstBreakpointID, false)
	require.False(t, bp.IsValid())
	require.False(t, bp.Apply())
}

func TestBreakpointAddressIsWordAligned(t *testing.T) {
	sys := newTestSystem(t, []uint32{movImmediate(0, 1)})
	bp := newBreakpoint(sys, 3, firstBreakpointID, false)
	require.EqualValues(t, 0, bp.Address())
}

func TestByAddressOrdersLogicalBeforePhysicalThenByAddress(t *testing.T) {
	a := &Breakpoint{isLogical: true, address: 100}
	b := &Breakpoint{isLogical: false, address: 4}
	c := &Breakpoint{isLogical: true, address: 8}

	require.True(t, byAddress(c, a))
	require.True(t, byAddress(a, b))
	require.False(t, byAddress(b, a))
}
