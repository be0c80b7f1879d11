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

// Package parser turns console input lines into debugger.Session calls.
package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/armcore/armemu/internal/debugger"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *debugger.Session) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "break", min: 2, process: doBreak},
	{name: "clear", min: 2, process: doClear},
	{name: "continue", min: 1, process: doContinue},
	{name: "resume", min: 1, process: doContinue},
	{name: "step", min: 2, process: doStep},
	{name: "stepover", min: 5, process: doStepOver},
	{name: "stepout", min: 5, process: doStepOut},
	{name: "regs", min: 2, process: doRegs},
	{name: "mem", min: 1, process: doMem},
	{name: "load", min: 2, process: doLoad, complete: completeFile},
	{name: "quit", min: 1, process: doQuit},
}

// ProcessCommand parses commandLine and dispatches it against session. The
// bool result reports whether the caller should stop reading further
// commands.
func ProcessCommand(commandLine string, session *debugger.Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)
	if name == "" {
		return false, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}

	return match[0].process(&line, session)
}

// CompleteCmd returns the completions offered to the line editor for
// commandLine, matching command names and, where a command defines one, its
// own argument completer.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	out := make([]string, len(match))
	for i, m := range match {
		out[i] = m.name
	}
	return out
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) {
		return false
	}
	l := 0
	for l = range len(name) {
		if c.name[l] != name[l] {
			return false
		}
	}
	return (l + 1) >= c.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

// getWord reads the next run of non-space characters (stopping early at '='
// when stopAtEqual is set) and returns it lower-cased, the same convention
// the command name itself follows.
func (l *cmdLine) getWord(stopAtEqual bool) string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		if stopAtEqual && l.line[l.pos] == '=' {
			break
		}
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// getToken reads a whitespace-delimited token without restricting its
// character set, for addresses, counts and breakpoint IDs.
func (l *cmdLine) getToken() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// parseQuoteString reads either a "quoted string" (with "" as an escaped
// quote) or a bare token running to the next space.
func (l *cmdLine) parseQuoteString() (string, bool) {
	l.skipSpace()
	if l.isEOL() {
		return "", false
	}
	if l.line[l.pos] != '"' {
		return l.getToken(), true
	}

	l.pos++
	var b strings.Builder
	for {
		if l.pos >= len(l.line) {
			return b.String(), true
		}
		if l.line[l.pos] == '"' {
			l.pos++
			if l.pos < len(l.line) && l.line[l.pos] == '"' {
				b.WriteByte('"')
				l.pos++
				continue
			}
			return b.String(), true
		}
		b.WriteByte(l.line[l.pos])
		l.pos++
	}
}
