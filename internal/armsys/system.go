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

// Package armsys is the composition root that binds an address map, a
// translator, a processor core and a guest event queue into one runnable
// machine.
package armsys

import (
	"fmt"
	"sync/atomic"

	"github.com/armcore/armemu/internal/addrmap"
	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/guestevent"
	"github.com/armcore/armemu/internal/region"
	"github.com/armcore/armemu/internal/translate"
)

// RegionPlacement binds a region to a base physical address and the maps it
// should be visible through.
type RegionPlacement struct {
	Base     uint32
	Region   region.Region
	Readable bool
	Writable bool
}

// Options configures a new System.
type Options struct {
	Regions          []RegionPlacement
	Translator       translate.Translator
	EventQueueSize   int
	EventQueueSource int32
}

// System is an ARM machine: a core, its address maps, an address translator
// and an outbound guest event queue, plus a name->region index used to
// reject duplicate device names at construction.
type System struct {
	read    *addrmap.Map
	write   *addrmap.Map
	core    *armcpu.Core
	xlate   translate.Translator
	events  *guestevent.Queue
	devices map[string]region.Region

	running atomic.Bool
}

// New builds a System from opts, indexing every named region once and
// rejecting a name reused for two distinct regions.
func New(opts Options) (*System, error) {
	read := addrmap.New()
	write := addrmap.New()
	devices := make(map[string]region.Region)

	for _, p := range opts.Regions {
		if existing, ok := devices[p.Region.Name()]; ok && existing != p.Region {
			return nil, fmt.Errorf("armsys: device %q already mapped to a different region", p.Region.Name())
		}
		devices[p.Region.Name()] = p.Region

		if p.Readable {
			if !read.TryInsert(p.Base, p.Region) {
				return nil, fmt.Errorf("armsys: region %q overlaps an existing read mapping at 0x%08x", p.Region.Name(), p.Base)
			}
		}
		if p.Writable {
			if !write.TryInsert(p.Base, p.Region) {
				return nil, fmt.Errorf("armsys: region %q overlaps an existing write mapping at 0x%08x", p.Region.Name(), p.Base)
			}
		}
	}

	xlate := opts.Translator
	if xlate == nil {
		xlate = translate.IdentityTranslator{}
	}

	queueSize := opts.EventQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	events := guestevent.NewQueue(opts.EventQueueSource, queueSize)

	core := armcpu.NewCore(armcpu.NewRegisters(), read, write, xlate, events)

	return &System{
		read:    read,
		write:   write,
		core:    core,
		xlate:   xlate,
		events:  events,
		devices: devices,
	}, nil
}

// Mode returns the processor's current mode.
func (s *System) Mode() armcpu.Mode {
	return s.core.Regs.CPSR().Mode
}

// CoreReg reads logical register id as seen in the current mode, using the
// non-pipelined PC convention.
func (s *System) CoreReg(id int) uint32 {
	return s.core.Regs.Read(id, false)
}

// SetCoreReg writes logical register id.
func (s *System) SetCoreReg(id int, value uint32) {
	s.core.Regs.Write(id, value)
}

// ReadAddresses returns the map used for guest reads.
func (s *System) ReadAddresses() *addrmap.Map { return s.read }

// WriteAddresses returns the map used for guest writes.
func (s *System) WriteAddresses() *addrmap.Map { return s.write }

// LogicalToPhysical reports how addr translates under the current
// translator, without performing an access.
func (s *System) LogicalToPhysical(addr uint32) translate.PageMapping {
	return s.xlate.Translate(addr)
}

// errBusy is returned by methods that require the core to be paused while
// Run is active on another goroutine.
var errBusy = fmt.Errorf("armsys: core is running; pause before calling this method")

// Run executes instructions until a host interrupt or breakpoint trap stops
// it. Only RaiseHostInterrupt and TryGetNextMessage are safe to call
// concurrently with Run; every other method requires the core to be paused.
func (s *System) Run() (armcpu.ExecutionMetrics, error) {
	if !s.running.CompareAndSwap(false, true) {
		return armcpu.ExecutionMetrics{}, errBusy
	}
	defer s.running.Store(false)
	return s.core.Run(), nil
}

// RunSingleStep executes exactly one instruction.
func (s *System) RunSingleStep() (armcpu.ExecutionMetrics, error) {
	if !s.running.CompareAndSwap(false, true) {
		return armcpu.ExecutionMetrics{}, errBusy
	}
	defer s.running.Store(false)
	return s.core.RunSingleStep(), nil
}

// RaiseHostInterrupt asks a running core to stop at the next instruction
// boundary. Safe to call from any goroutine.
func (s *System) RaiseHostInterrupt() {
	s.core.RaiseHostInterrupt()
}

// TryGetNextMessage drains one event from the guest event queue, if any.
// Safe to call from any goroutine.
func (s *System) TryGetNextMessage() (guestevent.Event, bool) {
	return s.events.TryDequeue()
}

// Core exposes the underlying processor core for callers (the debugger)
// that need lower-level access than this composition root provides.
func (s *System) Core() *armcpu.Core { return s.core }
