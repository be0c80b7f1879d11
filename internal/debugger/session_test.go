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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/region"
)

func awaitPause(t *testing.T, s *Session) PauseInfo {
	t.Helper()
	select {
	case info := <-s.PausedCh:
		return info
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session to pause")
		return PauseInfo{}
	}
}

func TestCreateTransitionsToPausedAndNotifies(t *testing.T) {
	s := NewSession()
	require.Equal(t, Uninitialised, s.State())
	require.NoError(t, s.Create(Options{}))
	require.Equal(t, Paused, s.State())
	<-s.PausedCh
}

func TestResumeRunsUntilBreakpointAndRewindsPC(t *testing.T) {
	program := []uint32{
		movImmediate(0, 1),
		movImmediate(1, 2),
		movImmediate(2, 3),
	}
	s := newTestSession(t, program)

	id, err := s.SetBreakpoint(8, false)
	require.NoError(t, err)

	require.NoError(t, s.Resume())
	info := awaitPause(t, s)

	require.Equal(t, Paused, s.State())
	require.Equal(t, armcpu.DebugIRQ, info.Reason)
	require.Equal(t, id, info.BreakpointID)
	require.EqualValues(t, 8, info.PC)
	require.EqualValues(t, 8, s.sys.Core().Regs.PC())
}

func TestResumeFromOnBreakpointStepsOverItTransparently(t *testing.T) {
	program := []uint32{
		movImmediate(0, 1),
		movImmediate(1, 2),
		movImmediate(2, 3),
	}
	s := newTestSession(t, program)

	_, err := s.SetBreakpoint(0, false)
	require.NoError(t, err)
	idAt4, err := s.SetBreakpoint(4, false)
	require.NoError(t, err)

	// Paused exactly on the breakpoint at 0; Resume must execute that
	// instruction transparently (not refire the same breakpoint) and run on
	// to the next one.
	require.NoError(t, s.Resume())
	info := awaitPause(t, s)

	require.Equal(t, armcpu.DebugIRQ, info.Reason)
	require.Equal(t, idAt4, info.BreakpointID)
	require.EqualValues(t, 4, info.PC)
	require.EqualValues(t, 1, s.sys.Core().Regs.Read(armcpu.R0, false))
}

func TestStepExecutesExactlyOneInstruction(t *testing.T) {
	program := []uint32{movImmediate(0, 9), movImmediate(1, 1)}
	s := newTestSession(t, program)

	require.NoError(t, s.Step())
	<-s.PausedCh
	require.EqualValues(t, 9, s.sys.Core().Regs.Read(armcpu.R0, false))
	require.EqualValues(t, 4, s.sys.Core().Regs.PC())
}

func TestStepOverInstallsAndClearsTemporaryBreakpoint(t *testing.T) {
	program := []uint32{
		movImmediate(0, 1),
		movImmediate(1, 2),
		movImmediate(2, 3),
	}
	s := newTestSession(t, program)

	require.NoError(t, s.StepOver())
	info := awaitPause(t, s)

	require.EqualValues(t, 4, info.PC)
	require.Nil(t, s.tempBP)
}

func TestSetBreakpointRejectedWhileRunning(t *testing.T) {
	program := []uint32{movImmediate(0, 1), movImmediate(1, 1)}
	s := newTestSession(t, program)

	s.mu.Lock()
	s.state = Running
	s.mu.Unlock()

	_, err := s.SetBreakpoint(4, false)
	require.Error(t, err)
}

func TestClearBreakpointRestoresInstructionAndForgetsID(t *testing.T) {
	program := []uint32{movImmediate(0, 1)}
	s := newTestSession(t, program)

	id, err := s.SetBreakpoint(0, false)
	require.NoError(t, err)
	require.NoError(t, s.ClearBreakpoint(id))
	require.Empty(t, s.Breakpoints())
	require.Error(t, s.ClearBreakpoint(id))
}

func TestStopRemovesAllBreakpointsAndTransitionsToStopped(t *testing.T) {
	program := []uint32{movImmediate(0, 1), movImmediate(1, 1)}
	s := newTestSession(t, program)

	_, err := s.SetBreakpoint(0, false)
	require.NoError(t, err)
	_, err = s.SetBreakpoint(4, false)
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	require.Equal(t, Stopped, s.State())

	ram := s.sys.Core().ReadMap.Mappings()[0].Region.(*region.HostBlock)
	require.EqualValues(t, movImmediate(0, 1), readWord(ram.Data, 0))
	require.EqualValues(t, movImmediate(1, 1), readWord(ram.Data, 4))
}

func TestDestroyReleasesSystemAndReturnsToUninitialised(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.Destroy())
	require.Equal(t, Uninitialised, s.State())
	require.Nil(t, s.System())
}
