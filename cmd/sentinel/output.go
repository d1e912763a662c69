// Copyright 2024 The Sentinel Authors
// This file is part of the Sentinel bytecode analyzer.
//
// Sentinel is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sentinel is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Sentinel. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"github.com/sentinel-sh/evmscan/core/vm/report"
	"github.com/sentinel-sh/evmscan/core/vm/security"
	"github.com/sentinel-sh/evmscan/internal/bytecodeinput"
)

// analyzeOnce decodes hexBytecode, runs the decompiler once, and renders
// the result to stdout in the requested format. It returns a non-zero exit
// error on an input-encoding failure, never on an analysis failure — the
// core pipeline is total.
func analyzeOnce(hexBytecode, format string) error {
	bytecode, err := bytecodeinput.Decode(hexBytecode)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	rep := report.Decompile(bytecode)

	switch format {
	case "text":
		printText(rep)
	default:
		if err := printJSON(rep); err != nil {
			return cli.NewExitError(fmt.Sprintf("encoding report: %v", err), 1)
		}
	}
	return nil
}

func printJSON(rep report.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func printText(rep report.Report) {
	bold := color.New(color.Bold)
	bold.Println("Sentinel bytecode report")
	fmt.Printf("  bytecode size:     %d bytes\n", rep.BytecodeSize)
	fmt.Printf("  instructions:      %d\n", rep.InstructionCount)
	fmt.Printf("  basic blocks:      %d\n", rep.BlockCount)
	fmt.Printf("  hash:              %s\n", rep.BytecodeHash)
	fmt.Printf("  complexity score:  %d\n", rep.Security.ComplexityScore)
	fmt.Printf("  external calls:    %d\n", rep.Security.ExternalCalls)
	fmt.Printf("  storage writes:    %d\n", rep.Security.StorageWrites)

	if len(rep.Security.Selectors) > 0 {
		fmt.Println("\n  selectors:")
		for _, sel := range rep.Security.Selectors {
			fmt.Printf("    %s\n", sel)
		}
	}

	if len(rep.Security.DangerousOpcodes) > 0 {
		fmt.Println("\n  dangerous opcodes:")
		for _, d := range rep.Security.DangerousOpcodes {
			fmt.Printf("    [%d] %-14s %s\n", d.Offset, d.Opcode, d.Risk)
		}
	}

	if len(rep.Security.RiskIndicators) > 0 {
		fmt.Println("\n  risk indicators:")
		for _, ri := range rep.Security.RiskIndicators {
			severityColor(ri.Severity).Printf("    [%s] %s", ri.Severity, ri.Name)
			fmt.Printf(" — %s\n", ri.Description)
		}
	}

	if len(rep.Security.LargeConstants) > 0 {
		fmt.Println("\n  large constants:")
		for _, lc := range rep.Security.LargeConstants {
			fmt.Printf("    [%d] %-9s %s\n", lc.Offset, lc.Opcode, lc.Value)
		}
	}

	if rep.Security.HasSelfdestruct {
		severityColor(security.SeverityCritical).Println("\n  CRITICAL: Contract has SELFDESTRUCT capability!")
	}
}

func severityColor(s security.Severity) *color.Color {
	switch s {
	case security.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case security.SeverityHigh:
		return color.New(color.FgRed)
	case security.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
