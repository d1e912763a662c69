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

// Package report composes the disassembler, CFG builder, and security
// analyzer into the single top-level value external callers — the CLI and
// the HTTP façade — actually consume.
package report

import (
	"github.com/sentinel-sh/evmscan/core/vm/cfg"
	"github.com/sentinel-sh/evmscan/core/vm/disasm"
	"github.com/sentinel-sh/evmscan/core/vm/security"
	"github.com/sentinel-sh/evmscan/crypto/keccak"
)

// Report is the top-level decompilation output.
type Report struct {
	BytecodeSize     int
	InstructionCount int
	BlockCount       int
	BytecodeHash     string
	Security         security.Report
}

// Decompile runs the full pipeline — disassembly, CFG construction, and
// security analysis — over bytecode and returns the composed report. It
// never fails; callers needing to reject malformed input (empty bytes,
// invalid hex encoding) do so before calling Decompile, per the error
// taxonomy at the CLI/HTTP boundary.
func Decompile(bytecode []byte) Report {
	instructions := disasm.Disassemble(bytecode)
	graph := cfg.Build(instructions)
	sec := security.Analyze(instructions)

	return Report{
		BytecodeSize:     len(bytecode),
		InstructionCount: len(instructions),
		BlockCount:       graph.BlockCount(),
		BytecodeHash:     keccak.HexDigest(bytecode),
		Security:         sec,
	}
}
