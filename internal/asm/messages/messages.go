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

// Package messages accumulates location-tagged assembler diagnostics.
package messages

import "sort"

// Severity ranks a diagnostic. Fatal abandons the statement that raised it
// while the remaining statements are still assembled; every diagnostic is
// collected and surfaced to the caller alongside the object code.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Location identifies where a diagnostic (or token, or statement) came from.
type Location struct {
	File    string
	Line    int
	Column  int
	Ordinal int // source-arrival order, used to keep Sorted() stable across files
}

// Message is one diagnostic.
type Message struct {
	Severity Severity
	Loc      Location
	Text     string
}

// Messages accumulates diagnostics in arrival order and can report them
// sorted by source position.
type Messages struct {
	items []Message
}

// Add appends a diagnostic.
func (m *Messages) Add(sev Severity, loc Location, text string) {
	m.items = append(m.items, Message{Severity: sev, Loc: loc, Text: text})
}

// HasErrors reports whether any Error or Fatal diagnostic was recorded.
func (m *Messages) HasErrors() bool {
	for _, item := range m.items {
		if item.Severity >= Error {
			return true
		}
	}
	return false
}

// HasFatal reports whether any Fatal diagnostic was recorded.
func (m *Messages) HasFatal() bool {
	for _, item := range m.items {
		if item.Severity == Fatal {
			return true
		}
	}
	return false
}

// Len reports how many diagnostics have been recorded.
func (m *Messages) Len() int { return len(m.items) }

// Sorted returns the diagnostics ordered by (Ordinal, Line, Column).
func (m *Messages) Sorted() []Message {
	out := make([]Message, len(m.items))
	copy(out, m.items)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Loc, out[j].Loc
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}
