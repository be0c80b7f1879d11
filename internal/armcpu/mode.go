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

package armcpu

// Mode identifies a processor mode. The low four bits being zero indicates
// an unprivileged (User) mode, per the ARM architecture's mode encoding.
type Mode uint8

const (
	User26     Mode = 0x00
	FIQ26      Mode = 0x01
	IRQ26      Mode = 0x02
	SVC26      Mode = 0x03
	User32     Mode = 0x10
	FIQ32      Mode = 0x11
	IRQ32      Mode = 0x12
	SVC32      Mode = 0x13
	Abort      Mode = 0x17
	Undefined  Mode = 0x1B
	System     Mode = 0x1F
)

// modeInfo records the architecture version a mode first appeared in, and
// whether it packs PC+PSR into a single 26-bit register.
type modeInfo struct {
	minArch int
	is26Bit bool
}

var modeTable = map[Mode]modeInfo{
	User26:    {2, true},
	FIQ26:     {2, true},
	IRQ26:     {2, true},
	SVC26:     {2, true},
	User32:    {3, false},
	FIQ32:     {3, false},
	IRQ32:     {3, false},
	SVC32:     {3, false},
	Abort:     {3, false},
	Undefined: {3, false},
	System:    {4, false},
}

// MinArchVersion returns the minimum ARM architecture version (2, 3 or 4)
// that supports m.
func (m Mode) MinArchVersion() int {
	return modeTable[m].minArch
}

// Is26Bit reports whether m packs PC and PSR flags into r15.
func (m Mode) Is26Bit() bool {
	return modeTable[m].is26Bit
}

// IsPrivileged reports whether m is anything other than User.
func (m Mode) IsPrivileged() bool {
	return m&0xF != 0
}

// IsValid reports whether m is one of the known processor modes.
func (m Mode) IsValid() bool {
	_, ok := modeTable[m]
	return ok
}

func (m Mode) String() string {
	switch m {
	case User26:
		return "User26"
	case FIQ26:
		return "FIQ26"
	case IRQ26:
		return "IRQ26"
	case SVC26:
		return "SVC26"
	case User32:
		return "User32"
	case FIQ32:
		return "FIQ32"
	case IRQ32:
		return "IRQ32"
	case SVC32:
		return "SVC32"
	case Abort:
		return "Abort"
	case Undefined:
		return "Undefined"
	case System:
		return "System"
	default:
		return "Unknown"
	}
}
