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

package armsys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/region"
)

func TestNewRejectsDuplicateDeviceName(t *testing.T) {
	ram := region.NewHostBlock("ram", "", make([]byte, 16), region.ReadWrite)
	other := region.NewHostBlock("ram", "", make([]byte, 16), region.ReadWrite)

	_, err := New(Options{Regions: []RegionPlacement{
		{Base: 0, Region: ram, Readable: true, Writable: true},
		{Base: 0x1000, Region: other, Readable: true, Writable: true},
	}})
	require.Error(t, err)
}

func TestNewAcceptsSameRegionMappedToBothMaps(t *testing.T) {
	ram := region.NewHostBlock("ram", "", make([]byte, 16), region.ReadWrite)
	sys, err := New(Options{Regions: []RegionPlacement{
		{Base: 0, Region: ram, Readable: true, Writable: true},
	}})
	require.NoError(t, err)
	require.NotNil(t, sys)
}

func TestRunSingleStepAdvancesPC(t *testing.T) {
	nop := uint32(armcpu.CondAL)<<28 | 0x3B<<20 // MOVS r0, #0
	data := make([]byte, 64)
	data[0] = byte(nop)
	data[1] = byte(nop >> 8)
	data[2] = byte(nop >> 16)
	data[3] = byte(nop >> 24)
	ram := region.NewHostBlock("ram", "", data, region.ReadWrite)

	sys, err := New(Options{Regions: []RegionPlacement{
		{Base: 0, Region: ram, Readable: true, Writable: true},
	}})
	require.NoError(t, err)

	metrics, err := sys.RunSingleStep()
	require.NoError(t, err)
	require.EqualValues(t, 1, metrics.InstructionCount)
	require.EqualValues(t, 4, sys.Core().Regs.PC())
}

func TestTryGetNextMessageEmptyQueue(t *testing.T) {
	sys, err := New(Options{})
	require.NoError(t, err)
	_, ok := sys.TryGetNextMessage()
	require.False(t, ok)
}
