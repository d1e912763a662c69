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

// Package disasm performs linear disassembly of EVM bytecode into an ordered
// instruction sequence. It never fails: truncated PUSH immediates and
// unassigned opcodes are represented rather than rejected.
package disasm

import (
	"github.com/holiman/uint256"

	"github.com/sentinel-sh/evmscan/core/vm/opcode"
)

// Instruction is one decoded EVM instruction.
//
// Immediate holds the raw, unpadded immediate bytes that followed the
// opcode. For a PUSH whose immediate was truncated by the end of the byte
// stream, len(Immediate) < opcode.ImmediateWidth(RawByte); every other
// instruction satisfies len(Immediate) == opcode.ImmediateWidth(RawByte).
type Instruction struct {
	Offset    int
	Op        opcode.Opcode
	RawByte   byte
	Immediate []byte
}

// Truncated reports whether this instruction's immediate was cut short by
// the end of the byte stream.
func (in Instruction) Truncated() bool {
	want := opcode.ImmediateWidth(in.RawByte)
	return want > 0 && len(in.Immediate) < want
}

// Uint256 interprets Immediate as a big-endian unsigned integer, zero-padded
// on the left. security.Analyze uses it to render the values of wide PUSH
// constants (Report.LargeConstants) without reaching for math/big.
func (in Instruction) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes(in.Immediate)
}

// Disassemble walks bytecode from offset 0, producing instructions in
// strictly increasing offset order. It is a total function: every byte
// sequence, including malformed ones, yields some sequence of instructions
// and the call returns without panicking or failing.
func Disassemble(bytecode []byte) []Instruction {
	var out []Instruction
	i := 0
	n := len(bytecode)

	for i < n {
		raw := bytecode[i]
		width := opcode.ImmediateWidth(raw)

		var imm []byte
		switch {
		case width == 0:
			// no immediate

		case i+width < n:
			imm = bytecode[i+1 : i+1+width]

		case i+1 < n:
			// Truncated: fewer than `width` bytes remain. Preserve exactly
			// what's left rather than zero-padding in storage.
			imm = bytecode[i+1:]

		default:
			// Opcode is the very last byte; no immediate bytes remain at all.
		}

		out = append(out, Instruction{
			Offset:    i,
			Op:        opcode.Classify(raw),
			RawByte:   raw,
			Immediate: imm,
		})

		i += 1 + len(imm)
		if len(imm) < width {
			// Truncated or absent immediate: the stream is exhausted.
			break
		}
	}

	return out
}
