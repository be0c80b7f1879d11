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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSession = `{
  "EmulatorOptions": {
    "Architecture": "ARMv3",
    "Processor": "ARM6",
    "ProcessorSpeed": 25,
    "RAMSize": 4096,
    "SystemROM": "Standard"
  },
  "Annotations": [
    {"Type": "comment", "Start": 32768, "Length": 4, "Text": "entry point"}
  ],
  "SWIs": [
    {"Key": "0x00000011", "Value": "OS_Exit"}
  ],
  "Labels": [
    {"Key": "0x00008000", "Value": "_start"}
  ],
  "MemoryViewOptions": {
    "FormatFlags": 1,
    "DisasmFlags": 2,
    "DisplayFlags": 3
  }
}`

func writeSample(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadDecodesEmulatorOptionsAndTables(t *testing.T) {
	path := writeSample(t, sampleSession)

	sf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ARMv3, sf.EmulatorOptions.Architecture)
	require.Equal(t, ARM6, sf.EmulatorOptions.Processor)
	require.Equal(t, 25, sf.EmulatorOptions.ProcessorSpeed)
	require.Equal(t, 4096, sf.EmulatorOptions.RAMSize)
	require.Equal(t, ROMStandard, sf.EmulatorOptions.SystemROM)

	require.Len(t, sf.SWIs, 1)
	require.EqualValues(t, 0x11, sf.SWIs[0].Key)
	require.Equal(t, "OS_Exit", sf.SWIs[0].Value)

	require.Len(t, sf.Labels, 1)
	require.EqualValues(t, 0x8000, sf.Labels[0].Key)

	require.Len(t, sf.Annotations, 1)
	require.Equal(t, "comment", sf.Annotations[0].Type)
	require.EqualValues(t, 0x8000, sf.Annotations[0].Start)
	require.Contains(t, string(sf.Annotations[0].Extra["Text"]), "entry point")
}

func TestLoadRejectsCustomROMWithoutPath(t *testing.T) {
	path := writeSample(t, `{
  "EmulatorOptions": {
    "Architecture": "ARMv2",
    "Processor": "ARM2",
    "ProcessorSpeed": 8,
    "RAMSize": 512,
    "SystemROM": "Custom"
  },
  "MemoryViewOptions": {"FormatFlags": 0, "DisasmFlags": 0, "DisplayFlags": 0}
}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownArchitecture(t *testing.T) {
	path := writeSample(t, `{
  "EmulatorOptions": {
    "Architecture": "ARMv9",
    "Processor": "ARM2",
    "ProcessorSpeed": 8,
    "RAMSize": 512,
    "SystemROM": "None"
  },
  "MemoryViewOptions": {"FormatFlags": 0, "DisasmFlags": 0, "DisplayFlags": 0}
}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTripsThroughLoad(t *testing.T) {
	sf := &SessionFile{
		EmulatorOptions: EmulatorOptions{
			Architecture:   ARMv4,
			Processor:      StrongARM,
			ProcessorSpeed: 33,
			RAMSize:        16384,
			SystemROM:      ROMCustom,
			SystemROMPath:  "/roms/custom.rom",
		},
		SWIs: []OrdinalEntry{{Key: 0x20, Value: "OS_WriteC"}},
	}

	path := filepath.Join(t.TempDir(), "roundtrip.json")
	require.NoError(t, Save(path, sf))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, sf.EmulatorOptions, got.EmulatorOptions)
	require.Equal(t, sf.SWIs, got.SWIs)
}
