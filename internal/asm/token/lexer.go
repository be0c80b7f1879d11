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

package token

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/armcore/armemu/internal/asm/messages"
)

// LexLine splits one source line into tokens. It recognises a leading `;`
// comment, quoted strings, `,` `!` `#` `=` `[` `]` punctuation, and
// otherwise-bare words classified as mnemonic/register/literal/identifier by
// shape; the parse tree (not the lexer) is responsible for deciding what a
// bare word means in context (e.g. a label vs. an instruction mnemonic).
func LexLine(line string, file string, lineNo int) ([]Token, error) {
	var out []Token
	col := 0
	n := len(line)

	for col < n {
		ch := line[col]

		if ch == ' ' || ch == '\t' {
			col++
			continue
		}
		if ch == ';' {
			out = append(out, New(ClassComment, line[col:], loc(file, lineNo, col)))
			break
		}
		if ch == ',' || ch == '!' || ch == '#' || ch == '=' || ch == '[' || ch == ']' {
			cls := ClassOperator
			if ch == ',' {
				cls = ClassSeparator
			}
			out = append(out, New(cls, string(ch), loc(file, lineNo, col)))
			col++
			continue
		}
		if ch == '"' {
			end := strings.IndexByte(line[col+1:], '"')
			if end < 0 {
				return nil, &LexError{File: file, Line: lineNo, Column: col, Msg: "unterminated string literal"}
			}
			text := line[col+1 : col+1+end]
			out = append(out, New(ClassString, text, loc(file, lineNo, col)))
			col += end + 2
			continue
		}

		start := col
		for col < n && !isBreak(line[col]) {
			col++
		}
		word := line[start:col]
		out = append(out, classifyWord(word, loc(file, lineNo, start)))
	}

	out = append(out, New(ClassEOF, "", loc(file, lineNo, n)))
	return out, nil
}

func loc(file string, line, col int) messages.Location {
	return messages.Location{File: file, Line: line, Column: col}
}

func isBreak(b byte) bool {
	switch b {
	case ' ', '\t', ',', '!', '#', '=', '[', ']', ';', '"':
		return true
	default:
		return false
	}
}

func classifyWord(word string, l messages.Location) Token {
	if _, err := strconv.ParseInt(word, 0, 64); err == nil {
		return New(ClassLiteral, word, l)
	}
	if isRegisterName(word) {
		return New(ClassRegister, word, l)
	}
	if isAllUpper(word) {
		return New(ClassMnemonic, word, l)
	}
	return New(ClassIdentifier, word, l)
}

func isAllUpper(word string) bool {
	seenLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			seenLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return seenLetter
}

func isRegisterName(word string) bool {
	switch strings.ToUpper(word) {
	case "SP", "LR", "PC", "CPSR", "SPSR":
		return true
	}
	if len(word) < 2 || (word[0] != 'R' && word[0] != 'r') {
		return false
	}
	n, err := strconv.Atoi(word[1:])
	return err == nil && n >= 0 && n <= 15
}

// LexError reports a lexical failure with its source position.
type LexError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *LexError) Error() string {
	return e.File + ":" + strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) + ": " + e.Msg
}
