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

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/armsys"
	"github.com/armcore/armemu/internal/debugger"
	"github.com/armcore/armemu/internal/region"
)

func movImmediate(rd int, imm uint32) uint32 {
	return uint32(armcpu.CondAL)<<28 | 0x3A<<20 | uint32(rd)<<12 | imm
}

func newSession(t *testing.T, program []uint32) *debugger.Session {
	t.Helper()

	data := make([]byte, 4096)
	for i, word := range program {
		data[i*4] = byte(word)
		data[i*4+1] = byte(word >> 8)
		data[i*4+2] = byte(word >> 16)
		data[i*4+3] = byte(word >> 24)
	}
	ram := region.NewHostBlock("ram", "test RAM", data, region.ReadWrite)

	session := debugger.NewSession()
	require.NoError(t, session.Create(debugger.Options{
		System: armsys.Options{
			Regions: []armsys.RegionPlacement{
				{Base: 0, Region: ram, Readable: true, Writable: true},
			},
		},
	}))
	<-session.PausedCh
	return session
}

func TestProcessCommandSetsAndClearsBreakpoint(t *testing.T) {
	session := newSession(t, []uint32{movImmediate(0, 1)})

	quit, err := ProcessCommand("break 0", session)
	require.NoError(t, err)
	require.False(t, quit)
	require.Len(t, session.Breakpoints(), 1)

	id := session.Breakpoints()[0].ID()
	quit, err = ProcessCommand("clear "+formatHexID(id), session)
	require.NoError(t, err)
	require.False(t, quit)
	require.Empty(t, session.Breakpoints())
}

func formatHexID(id uint16) string {
	const hexDigits = "0123456789abcdef"
	out := []byte{0, 0, 0, 0}
	for i := 3; i >= 0; i-- {
		out[i] = hexDigits[id&0xf]
		id >>= 4
	}
	return string(out)
}

func TestProcessCommandStepExecutesOneInstruction(t *testing.T) {
	session := newSession(t, []uint32{movImmediate(0, 9)})

	quit, err := ProcessCommand("step", session)
	require.NoError(t, err)
	require.False(t, quit)

	<-session.PausedCh
	require.EqualValues(t, 9, session.System().CoreReg(armcpu.R0))
}

func TestProcessCommandRegsAndMemSucceed(t *testing.T) {
	session := newSession(t, []uint32{movImmediate(0, 1)})

	_, err := ProcessCommand("regs", session)
	require.NoError(t, err)

	_, err = ProcessCommand("mem 0 4", session)
	require.NoError(t, err)
}

func TestProcessCommandQuitStopsTheReadLoop(t *testing.T) {
	session := newSession(t, nil)

	quit, err := ProcessCommand("quit", session)
	require.NoError(t, err)
	require.True(t, quit)
}

func TestProcessCommandUnknownCommandFails(t *testing.T) {
	session := newSession(t, nil)

	_, err := ProcessCommand("bogus", session)
	require.Error(t, err)
}

func TestProcessCommandAmbiguousPrefixFails(t *testing.T) {
	session := newSession(t, nil)

	// "stepo" is long enough to match both stepover and stepout's minimum
	// unique-prefix length, so it is ambiguous.
	_, err := ProcessCommand("stepo", session)
	require.Error(t, err)
}

func TestCompleteCmdListsMatchingCommandNames(t *testing.T) {
	matches := CompleteCmd("stepo")
	require.ElementsMatch(t, []string{"stepover", "stepout"}, matches)
}
