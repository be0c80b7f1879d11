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
	"github.com/armcore/armemu/internal/armsys"
	"github.com/armcore/armemu/internal/region"
)

// newTestSystem builds a System with a single 4KiB read/write RAM region at
// physical 0 preloaded with program, and the core's mode set to SVC32 so
// condition evaluation and exception entry behave the way a booted system
// would.
func newTestSystem(t *testing.T, program []uint32) *armsys.System {
	t.Helper()

	data := make([]byte, 4096)
	for i, word := range program {
		data[i*4] = byte(word)
		data[i*4+1] = byte(word >> 8)
		data[i*4+2] = byte(word >> 16)
		data[i*4+3] = byte(word >> 24)
	}
	ram := region.NewHostBlock("ram", "test RAM", data, region.ReadWrite)

	sys, err := armsys.New(armsys.Options{
		Regions: []armsys.RegionPlacement{
			{Base: 0, Region: ram, Readable: true, Writable: true},
		},
	})
	require.NoError(t, err)

	sys.Core().Regs.SetCPSR(armcpu.PSR{Mode: armcpu.SVC32})
	return sys
}

func newTestSession(t *testing.T, program []uint32) *Session {
	t.Helper()
	sys := newTestSystem(t, program)
	s := NewSession()
	s.mu.Lock()
	s.sys = sys
	s.state = Paused
	s.mu.Unlock()
	return s
}
