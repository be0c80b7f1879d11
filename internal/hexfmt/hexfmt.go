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

// Package hexfmt renders words and byte runs as upper-case hex for the
// debugger's console commands.
package hexfmt

import "strings"

var hexDigits = "0123456789ABCDEF"

// FormatWord renders words as space-separated 8-digit hex groups.
func FormatWord(words []uint32) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		shift := 28
		for range 8 {
			b.WriteByte(hexDigits[(w>>shift)&0xf])
			shift -= 4
		}
	}
	return b.String()
}

// FormatBytes renders data as 2-digit hex pairs, optionally space separated.
func FormatBytes(data []byte, space bool) string {
	var b strings.Builder
	for _, by := range data {
		b.WriteByte(hexDigits[(by>>4)&0xf])
		b.WriteByte(hexDigits[by&0xf])
		if space {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
