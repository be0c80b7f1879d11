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

// Package config reads and writes the debugger's session file: emulator
// options, memory annotations, SWI/label name tables and memory-view
// display preferences.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EmulatorOptions selects the hardware configuration a session was
// recorded against.
type EmulatorOptions struct {
	Architecture   Architecture    `json:"Architecture"`
	Processor      Processor       `json:"Processor"`
	ProcessorSpeed int             `json:"ProcessorSpeed"`
	RAMSize        int             `json:"RAMSize"`
	SystemROM      SystemROMPreset `json:"SystemROM"`
	SystemROMPath  string          `json:"SystemROMPath,omitempty"`
}

// MemoryViewOptions records the debugger's memory and disassembly view
// preferences.
type MemoryViewOptions struct {
	FormatFlags  int `json:"FormatFlags"`
	DisasmFlags  int `json:"DisasmFlags"`
	DisplayFlags int `json:"DisplayFlags"`
}

// Annotation marks a region of memory with debugger metadata, such as a
// comment or a data-type hint. Type-specific fields beyond Type, Start and
// Length are preserved verbatim in Extra so an unrecognised annotation type
// round-trips without loss.
type Annotation struct {
	Type   string
	Start  uint32
	Length uint32
	Extra  map[string]json.RawMessage
}

func (a *Annotation) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["Type"]; ok {
		if err := json.Unmarshal(v, &a.Type); err != nil {
			return err
		}
		delete(raw, "Type")
	}
	if v, ok := raw["Start"]; ok {
		if err := json.Unmarshal(v, &a.Start); err != nil {
			return err
		}
		delete(raw, "Start")
	}
	if v, ok := raw["Length"]; ok {
		if err := json.Unmarshal(v, &a.Length); err != nil {
			return err
		}
		delete(raw, "Length")
	}
	a.Extra = raw
	return nil
}

func (a Annotation) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Extra)+3)
	for k, v := range a.Extra {
		out[k] = v
	}
	var err error
	if out["Type"], err = json.Marshal(a.Type); err != nil {
		return nil, err
	}
	if out["Start"], err = json.Marshal(a.Start); err != nil {
		return nil, err
	}
	if out["Length"], err = json.Marshal(a.Length); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// OrdinalEntry binds a 32-bit address key, written as "0xNNNNNNNN", to a
// symbolic name. It backs both the SWIs and Labels tables.
type OrdinalEntry struct {
	Key   uint32
	Value string
}

type ordinalEntryJSON struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

func (o *OrdinalEntry) UnmarshalJSON(data []byte) error {
	var raw ordinalEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw.Key, "0x"), "0X")
	key, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return fmt.Errorf("config: invalid key %q: %w", raw.Key, err)
	}
	o.Key = uint32(key)
	o.Value = raw.Value
	return nil
}

func (o OrdinalEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordinalEntryJSON{
		Key:   fmt.Sprintf("0x%08X", o.Key),
		Value: o.Value,
	})
}

// SessionFile is the top-level shape of a saved debugger session.
type SessionFile struct {
	EmulatorOptions   EmulatorOptions   `json:"EmulatorOptions"`
	Annotations       []Annotation      `json:"Annotations"`
	SWIs              []OrdinalEntry    `json:"SWIs"`
	Labels            []OrdinalEntry    `json:"Labels"`
	MemoryViewOptions MemoryViewOptions `json:"MemoryViewOptions"`
}

// Load reads and decodes a session file from path.
func Load(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var sf SessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if sf.EmulatorOptions.SystemROM == ROMCustom && sf.EmulatorOptions.SystemROMPath == "" {
		return nil, fmt.Errorf("config: SystemROM Custom requires SystemROMPath")
	}
	return &sf, nil
}

// Save encodes sf as indented JSON and writes it to path.
func Save(path string, sf *SessionFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
