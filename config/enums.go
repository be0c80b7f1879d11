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

package config

import (
	"encoding/json"
	"fmt"
)

// Architecture names an emulated hardware architecture version, matching
// the ARMv2...v4 span this project emulates.
type Architecture int

const (
	ARMv2 Architecture = iota
	ARMv3
	ARMv4
)

var architectureNames = map[string]Architecture{
	"ARMv2": ARMv2,
	"ARMv3": ARMv3,
	"ARMv4": ARMv4,
}

func (a Architecture) String() string {
	for name, v := range architectureNames {
		if v == a {
			return name
		}
	}
	return fmt.Sprintf("Architecture(%d)", int(a))
}

func (a Architecture) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Architecture) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := architectureNames[name]
	if !ok {
		return fmt.Errorf("config: unknown Architecture %q", name)
	}
	*a = v
	return nil
}

// Processor names the emulated processor core variant.
type Processor int

const (
	ARM2 Processor = iota
	ARM3
	ARM6
	ARM7
	StrongARM
)

var processorNames = map[string]Processor{
	"ARM2":      ARM2,
	"ARM3":      ARM3,
	"ARM6":      ARM6,
	"ARM7":      ARM7,
	"StrongARM": StrongARM,
}

func (p Processor) String() string {
	for name, v := range processorNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Processor(%d)", int(p))
}

func (p Processor) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Processor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := processorNames[name]
	if !ok {
		return fmt.Errorf("config: unknown Processor %q", name)
	}
	*p = v
	return nil
}

// SystemROMPreset selects a bundled ROM image, or Custom to load one from
// SystemROMPath.
type SystemROMPreset int

const (
	ROMNone SystemROMPreset = iota
	ROMStandard
	ROMCustom
)

var systemROMNames = map[string]SystemROMPreset{
	"None":     ROMNone,
	"Standard": ROMStandard,
	"Custom":   ROMCustom,
}

func (s SystemROMPreset) String() string {
	for name, v := range systemROMNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("SystemROMPreset(%d)", int(s))
}

func (s SystemROMPreset) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SystemROMPreset) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := systemROMNames[name]
	if !ok {
		return fmt.Errorf("config: unknown SystemROM %q", name)
	}
	*s = v
	return nil
}
