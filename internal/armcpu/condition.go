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

// Condition is the 4-bit ARM condition code carried by every instruction.
type Condition uint8

const (
	CondEQ Condition = iota
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	CondNV
)

var conditionNames = [...]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "AL", "NV",
}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return "??"
}

// ConditionPasses evaluates cond against the NZCV flags carried by psr,
// following the standard ARM truth table.
func ConditionPasses(cond Condition, psr PSR) bool {
	switch cond {
	case CondEQ:
		return psr.Z
	case CondNE:
		return !psr.Z
	case CondCS:
		return psr.C
	case CondCC:
		return !psr.C
	case CondMI:
		return psr.N
	case CondPL:
		return !psr.N
	case CondVS:
		return psr.V
	case CondVC:
		return !psr.V
	case CondHI:
		return psr.C && !psr.Z
	case CondLS:
		return !psr.C || psr.Z
	case CondGE:
		return psr.N == psr.V
	case CondLT:
		return psr.N != psr.V
	case CondGT:
		return !psr.Z && psr.N == psr.V
	case CondLE:
		return psr.Z || psr.N != psr.V
	case CondAL:
		return true
	case CondNV:
		return false
	default:
		return false
	}
}
