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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/armcore/armemu/command/parser"
	"github.com/armcore/armemu/command/reader"
	armconfig "github.com/armcore/armemu/config"
	"github.com/armcore/armemu/internal/armsys"
	"github.com/armcore/armemu/internal/debugger"
	"github.com/armcore/armemu/internal/region"
	"github.com/armcore/armemu/util/logger"
)

var defaultRAMSize = 1 << 20 // 1 MiB, used when no -session file supplies RAMSize

func main() {
	optSession := getopt.StringLong("session", 's', "", "Session file describing the emulated machine")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optBatch := getopt.StringLong("batch", 'b', "", "Assembly source to load and run non-interactively")
	optDebug := getopt.BoolLong("debug", 'd', "Enable debug logging to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "armemu: cannot create log file:", err)
			os.Exit(1)
		}
		logFile = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	slog.SetDefault(slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optDebug)))

	ramSize := defaultRAMSize
	if *optSession != "" {
		sf, err := armconfig.Load(*optSession)
		if err != nil {
			slog.Error("armemu: failed to load session file", "error", err)
			os.Exit(1)
		}
		if sf.EmulatorOptions.RAMSize > 0 {
			ramSize = sf.EmulatorOptions.RAMSize * 1024
		}
		slog.Info("armemu: session loaded",
			"architecture", sf.EmulatorOptions.Architecture,
			"processor", sf.EmulatorOptions.Processor,
			"ramSizeKB", sf.EmulatorOptions.RAMSize)
	}

	ram := region.NewHostBlock("ram", "system RAM", make([]byte, ramSize), region.ReadWrite)

	session := debugger.NewSession()
	err := session.Create(debugger.Options{
		System: armsys.Options{
			Regions: []armsys.RegionPlacement{
				{Base: 0, Region: ram, Readable: true, Writable: true},
			},
		},
	})
	if err != nil {
		slog.Error("armemu: failed to create session", "error", err)
		os.Exit(1)
	}
	<-session.PausedCh

	slog.Info("armemu started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("armemu: interrupt received, shutting down")
		if session.State() == debugger.Running {
			if err := session.Pause(); err != nil {
				slog.Error("armemu: error pausing on interrupt", "error", err)
			}
		}
		if err := session.Destroy(); err != nil {
			slog.Error("armemu: error during shutdown", "error", err)
		}
		os.Exit(0)
	}()

	if *optBatch != "" {
		runBatch(session, *optBatch)
		return
	}

	reader.Console(session)

	slog.Info("armemu: shutting down")
	if err := session.Destroy(); err != nil {
		slog.Error("armemu: error during shutdown", "error", err)
	}
}

// runBatch loads an assembly source file and runs it to completion
// non-interactively, reusing the interactive load/continue commands.
func runBatch(session *debugger.Session, path string) {
	if _, err := parser.ProcessCommand(fmt.Sprintf("load %q", path), session); err != nil {
		slog.Error("armemu: batch load failed", "error", err)
		os.Exit(1)
	}
	if err := session.Resume(); err != nil {
		slog.Error("armemu: batch run failed", "error", err)
		os.Exit(1)
	}
	<-session.PausedCh
}
