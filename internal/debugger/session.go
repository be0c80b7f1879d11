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

// Package debugger implements DebuggerSession: the state machine that owns
// an armsys.System, installs and removes software breakpoints, and hands
// the system off to a worker goroutine while it runs free. Modelled on the
// worker-goroutine-plus-channel shape of the teacher's emu/core package,
// with breakpoint bookkeeping grounded on original_source's Breakpoint
// class.
package debugger

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/armcore/armemu/internal/armcpu"
	"github.com/armcore/armemu/internal/armsys"
	"github.com/armcore/armemu/internal/guestevent"
)

// State is one of the four states a Session moves through over its life.
type State int

const (
	Uninitialised State = iota
	Paused
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialised:
		return "uninitialised"
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PauseInfo is delivered on PausedCh every time the session settles back
// into the Paused state.
type PauseInfo struct {
	PC           uint32
	Reason       armcpu.ExecResult
	BreakpointID uint16 // 0 unless Reason == DebugIRQ and the hit BKPT matches a known breakpoint
}

// Options configures Create.
type Options struct {
	System armsys.Options
}

// firstBreakpointID is the first ID handed out; IDs only ever increase for
// the life of a session, so a stale ID from a removed breakpoint can never
// be confused with a newly created one.
const firstBreakpointID = 0xF001

// Session is a DebuggerSession: at most one armsys.System, a sorted set of
// breakpoints, and the worker goroutine that runs the system free between
// pauses.
type Session struct {
	mu sync.Mutex

	state State
	sys   *armsys.System

	breakpoints []*Breakpoint
	tempBP      *Breakpoint // installed by StepOver/StepOut, removed once hit
	nextID      uint16

	wg sync.WaitGroup

	PausedCh  chan PauseInfo
	MessageCh chan guestevent.Event
}

// NewSession returns a Session in the Uninitialised state.
func NewSession() *Session {
	return &Session{
		nextID:    firstBreakpointID,
		PausedCh:  make(chan PauseInfo, 1),
		MessageCh: make(chan guestevent.Event, 64),
	}
}

// State reports the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// System returns the underlying machine, or nil before Create or after
// Destroy.
func (s *Session) System() *armsys.System {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sys
}

// Create builds the ArmSystem and transitions Uninitialised -> Paused.
func (s *Session) Create(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uninitialised {
		return fmt.Errorf("debugger: create requires Uninitialised state, have %s", s.state)
	}

	sys, err := armsys.New(opts.System)
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}

	s.sys = sys
	s.state = Paused
	slog.Info("debugger session created", "state", s.state)
	s.notifyPausedLocked(armcpu.Unset, 0)
	return nil
}

// Resume steps over a breakpoint sitting at the current PC if one is
// enabled there, then hands the system to a worker goroutine and starts
// polling the event queue.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.state != Paused {
		s.mu.Unlock()
		return fmt.Errorf("debugger: resume requires Paused state, have %s", s.state)
	}

	pc := s.sys.Core().Regs.PC()
	if bp := s.breakpointAtLocked(pc); bp != nil && bp.IsEnabled() {
		bp.Remove()
		if _, err := s.sys.RunSingleStep(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("debugger: %w", err)
		}
		bp.Apply()
	}

	s.state = Running
	pollDone := make(chan struct{})
	s.wg.Add(1)
	go s.runWorker(pollDone)
	go s.pollMessages(pollDone)
	s.mu.Unlock()
	return nil
}

// runWorker calls System.Run on the emulator thread and, once it returns,
// applies the BKPT-PC-rewind rule, resolves which breakpoint (if any)
// caused the stop, and settles the session back into Paused.
func (s *Session) runWorker(pollDone chan struct{}) {
	defer s.wg.Done()

	metrics, err := s.sys.Run()

	s.mu.Lock()
	defer s.mu.Unlock()
	close(pollDone)
	s.drainMessagesLocked()

	if err != nil {
		s.state = Paused
		slog.Error("debugger: emulator thread exited abnormally", "error", err)
		s.notifyPausedLocked(armcpu.Failure, 0)
		return
	}

	var bpID uint16
	if metrics.Result == armcpu.DebugIRQ {
		// Run already advanced PC past the BKPT; rewind so the next resume
		// re-executes the original instruction transparently.
		regs := s.sys.Core().Regs
		regs.SetPC(regs.PC() - 4)

		if bp := s.breakpointAtLocked(regs.PC()); bp != nil {
			bpID = bp.ID()
			s.settleTempBreakpointLocked(bpID)
		}
	}

	s.state = Paused
	s.notifyPausedLocked(metrics.Result, bpID)
}

// settleTempBreakpointLocked removes the temporary step-over/step-out
// breakpoint once it is the one that caused the pause.
func (s *Session) settleTempBreakpointLocked(hitID uint16) {
	if s.tempBP == nil || s.tempBP.ID() != hitID {
		return
	}
	s.tempBP.Remove()
	s.tempBP = nil
}

// pollMessages forwards guest events to MessageCh every millisecond while
// the emulator thread runs, stopping as soon as pollDone is closed.
func (s *Session) pollMessages(pollDone chan struct{}) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-pollDone:
			return
		case <-ticker.C:
			for {
				ev, ok := s.sys.TryGetNextMessage()
				if !ok {
					break
				}
				select {
				case s.MessageCh <- ev:
				default:
				}
			}
		}
	}
}

func (s *Session) drainMessagesLocked() {
	for {
		ev, ok := s.sys.TryGetNextMessage()
		if !ok {
			return
		}
		select {
		case s.MessageCh <- ev:
		default:
		}
	}
}

// Pause sets the host-interrupt flag and joins the worker goroutine.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return fmt.Errorf("debugger: pause requires Running state, have %s", s.state)
	}
	sys := s.sys
	s.mu.Unlock()

	sys.RaiseHostInterrupt()
	s.joinWorker()
	return nil
}

// joinWorker waits for the worker goroutine to finish, logging (but not
// failing) if it takes unexpectedly long.
func (s *Session) joinWorker() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		slog.Warn("debugger: timed out waiting for emulator thread to pause")
		<-done
	}
}

// Step executes exactly one instruction from Paused, stepping transparently
// over a breakpoint installed at the current PC.
func (s *Session) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Paused {
		return fmt.Errorf("debugger: step requires Paused state, have %s", s.state)
	}

	pc := s.sys.Core().Regs.PC()
	bp := s.breakpointAtLocked(pc)
	if bp != nil && bp.IsEnabled() {
		bp.Remove()
	}

	if _, err := s.sys.RunSingleStep(); err != nil {
		return fmt.Errorf("debugger: %w", err)
	}

	if bp != nil {
		bp.Apply()
	}

	s.drainMessagesLocked()
	s.notifyPausedLocked(armcpu.SingleStep, 0)
	return nil
}

// StepOver installs a temporary breakpoint at the instruction following the
// current one and resumes, so a BL's callee runs to completion uninterrupted.
func (s *Session) StepOver() error {
	s.mu.Lock()
	if s.state != Paused {
		s.mu.Unlock()
		return fmt.Errorf("debugger: stepover requires Paused state, have %s", s.state)
	}
	target := s.sys.Core().Regs.PC() + 4
	s.mu.Unlock()
	return s.resumeWithTemp(target)
}

// StepOut installs a temporary breakpoint at the current procedure's return
// address (the banked LR) and resumes.
func (s *Session) StepOut() error {
	s.mu.Lock()
	if s.state != Paused {
		s.mu.Unlock()
		return fmt.Errorf("debugger: stepout requires Paused state, have %s", s.state)
	}
	target := s.sys.Core().Regs.Read(armcpu.LR, false)
	s.mu.Unlock()
	return s.resumeWithTemp(target)
}

func (s *Session) resumeWithTemp(addr uint32) error {
	s.mu.Lock()
	if s.state != Paused {
		s.mu.Unlock()
		return fmt.Errorf("debugger: step requires Paused state, have %s", s.state)
	}
	if s.tempBP != nil {
		s.tempBP.Remove()
		s.tempBP = nil
	}

	tmp := newBreakpoint(s.sys, addr, s.allocIDLocked(), false)
	if !tmp.IsValid() {
		s.mu.Unlock()
		return fmt.Errorf("debugger: cannot place a temporary breakpoint at 0x%08x", addr)
	}
	tmp.Apply()
	s.tempBP = tmp
	s.mu.Unlock()

	return s.Resume()
}

// Stop pauses a running session (if any), restores every breakpoint's
// original instruction, and transitions to Stopped.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state == Running {
		sys := s.sys
		s.mu.Unlock()
		sys.RaiseHostInterrupt()
		s.joinWorker()
		s.mu.Lock()
	}

	if s.state == Uninitialised {
		s.mu.Unlock()
		return fmt.Errorf("debugger: stop requires an active session")
	}

	for _, bp := range s.breakpoints {
		bp.Remove()
	}
	if s.tempBP != nil {
		s.tempBP.Remove()
		s.tempBP = nil
	}

	s.state = Stopped
	s.mu.Unlock()
	return nil
}

// Destroy stops the session if it hasn't already been, and releases the
// underlying system.
func (s *Session) Destroy() error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != Stopped && state != Uninitialised {
		if err := s.Stop(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sys = nil
	s.breakpoints = nil
	s.state = Uninitialised
	slog.Info("debugger session destroyed")
	return nil
}

// SetBreakpoint installs a breakpoint at address and returns its ID. address
// is a logical address unless isLogical is false.
func (s *Session) SetBreakpoint(address uint32, isLogical bool) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Paused {
		return 0, fmt.Errorf("debugger: breakpoints can only be set while paused, have %s", s.state)
	}

	id := s.allocIDLocked()
	bp := newBreakpoint(s.sys, address, id, isLogical)
	if !bp.IsValid() {
		return 0, fmt.Errorf("debugger: address 0x%08x is not backed by writable host memory", address)
	}
	bp.Apply()

	s.breakpoints = append(s.breakpoints, bp)
	sort.Slice(s.breakpoints, func(i, j int) bool {
		return byAddress(s.breakpoints[i], s.breakpoints[j])
	})
	return id, nil
}

// ClearBreakpoint removes the breakpoint with the given ID, restoring its
// original instruction.
func (s *Session) ClearBreakpoint(id uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, bp := range s.breakpoints {
		if bp.ID() != id {
			continue
		}
		bp.Remove()
		s.breakpoints = append(s.breakpoints[:i], s.breakpoints[i+1:]...)
		return nil
	}
	return fmt.Errorf("debugger: no breakpoint with id %d", id)
}

// Breakpoints returns a snapshot of the session's breakpoints, ordered by
// (is_logical, address).
func (s *Session) Breakpoints() []*Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Breakpoint, len(s.breakpoints))
	copy(out, s.breakpoints)
	return out
}

func (s *Session) allocIDLocked() uint16 {
	id := s.nextID
	s.nextID++
	return id
}

// breakpointAtLocked finds the breakpoint (real or temporary) whose address
// matches pc, resolving logical addresses against the current mapping so a
// breakpoint set on either side of the logical/physical divide is found.
func (s *Session) breakpointAtLocked(pc uint32) *Breakpoint {
	phys := pc
	if mapping := s.sys.LogicalToPhysical(pc); mapping.Present() {
		phys = mapping.PhysicalBase + (pc - mapping.VirtualBase)
	}

	for _, bp := range s.breakpoints {
		if bp.isLogical && bp.address == pc {
			return bp
		}
		if !bp.isLogical && bp.address == phys {
			return bp
		}
	}
	if s.tempBP != nil && !s.tempBP.isLogical && s.tempBP.address == phys {
		return s.tempBP
	}
	return nil
}

// notifyPausedLocked delivers the latest pause to PausedCh, dropping a
// stale undelivered one rather than blocking the worker goroutine on a
// controller that isn't listening.
func (s *Session) notifyPausedLocked(reason armcpu.ExecResult, bpID uint16) {
	info := PauseInfo{PC: s.sys.Core().Regs.PC(), Reason: reason, BreakpointID: bpID}
	select {
	case s.PausedCh <- info:
		return
	default:
	}
	select {
	case <-s.PausedCh:
	default:
	}
	select {
	case s.PausedCh <- info:
	default:
	}
}
