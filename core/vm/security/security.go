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

// Package security runs pattern and single-opcode detectors over a
// disassembled instruction sequence, producing the report the rest of the
// analyzer surfaces to callers: dispatcher selectors, dangerous-opcode
// findings, aggregate counters, and severity-ranked risk indicators.
package security

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/sentinel-sh/evmscan/core/vm/cfg"
	"github.com/sentinel-sh/evmscan/core/vm/disasm"
	"github.com/sentinel-sh/evmscan/core/vm/opcode"
)

// Severity ranks how urgently a RiskIndicator should be triaged.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// DangerousOpcode records one occurrence of a security-sensitive opcode.
type DangerousOpcode struct {
	Offset int
	Opcode string
	Risk   string
}

// LargeConstant records a full-width, non-zero PUSH immediate wide enough to
// plausibly encode an address or hash (PUSH20 and up) rather than a small
// arithmetic literal — the kind of hardcoded value worth a reviewer's eye
// (a hardcoded admin address, a magic selector, a baked-in hash).
type LargeConstant struct {
	Offset int
	Opcode string
	Value  string
}

// largeConstantMinWidth is PUSH20's immediate width, the shortest push wide
// enough to hold a full 20-byte account address.
const largeConstantMinWidth = 20

// RiskIndicator is a synthesized, human-facing finding.
type RiskIndicator struct {
	Name        string
	Severity    Severity
	Description string
}

// Report is the full output of the security analyzer.
type Report struct {
	Selectors        []string
	DangerousOpcodes []DangerousOpcode
	ExternalCalls    int
	StorageWrites    int
	HasSelfdestruct  bool
	HasDelegatecall  bool
	HasCreate        bool
	// HasCallcode is not part of the original report shape but is kept
	// alongside it to drive the HTTP façade's deprecated-opcode warning
	// (spec §6) without overloading HasDelegatecall. CALLCODE is otherwise
	// handled like CALL: it counts as an external call and adds a
	// DangerousOpcodes finding.
	HasCallcode     bool
	ComplexityScore int
	RiskIndicators  []RiskIndicator
	LargeConstants  []LargeConstant
}

// DistinctOpcodes returns the sorted, distinct opcode mnemonics observed in
// instructions — the "opcodes" field of the HTTP façade's response.
func DistinctOpcodes(instructions []disasm.Instruction) []string {
	seen := mapset.NewSet()
	for _, in := range instructions {
		seen.Add(in.Op.String())
	}
	out := make([]string, 0, seen.Cardinality())
	for _, v := range seen.ToSlice() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}

// Analyze runs every detector over instructions and returns the aggregate
// report. It is deterministic and total: it never fails, regardless of how
// malformed the originating bytecode was. It always builds its own control
// flow graph internally (the complexity score needs a block count), so a
// caller that already ran cfg.Build on the same instructions builds the graph
// a second time here.
func Analyze(instructions []disasm.Instruction) Report {
	var r Report
	blocks := cfg.Build(instructions)

	detectSelectors(instructions, &r)

	for _, in := range instructions {
		if w := opcode.ImmediateWidth(in.RawByte); w >= largeConstantMinWidth && !in.Truncated() {
			if v := in.Uint256(); !v.IsZero() {
				r.LargeConstants = append(r.LargeConstants, LargeConstant{
					Offset: in.Offset,
					Opcode: in.Op.String(),
					Value:  v.Hex(),
				})
			}
		}

		switch in.Op {
		case opcode.CALL, opcode.CALLCODE, opcode.STATICCALL:
			r.ExternalCalls++
			r.DangerousOpcodes = append(r.DangerousOpcodes, DangerousOpcode{
				Offset: in.Offset,
				Opcode: in.Op.String(),
				Risk:   "External call — potential reentrancy",
			})
			if in.Op == opcode.CALLCODE {
				r.HasCallcode = true
			}

		case opcode.DELEGATECALL:
			r.HasDelegatecall = true
			r.ExternalCalls++
			r.DangerousOpcodes = append(r.DangerousOpcodes, DangerousOpcode{
				Offset: in.Offset,
				Opcode: in.Op.String(),
				Risk:   "Delegatecall — storage manipulation risk",
			})

		case opcode.SSTORE:
			r.StorageWrites++

		case opcode.SELFDESTRUCT:
			r.HasSelfdestruct = true
			r.DangerousOpcodes = append(r.DangerousOpcodes, DangerousOpcode{
				Offset: in.Offset,
				Opcode: in.Op.String(),
				Risk:   "Contract can be destroyed",
			})
			r.RiskIndicators = append(r.RiskIndicators, RiskIndicator{
				Name:        "Self-destruct capability",
				Severity:    SeverityCritical,
				Description: "Contract can be destroyed, all funds sent to owner",
			})

		case opcode.CREATE, opcode.CREATE2:
			r.HasCreate = true
			r.DangerousOpcodes = append(r.DangerousOpcodes, DangerousOpcode{
				Offset: in.Offset,
				Opcode: in.Op.String(),
				Risk:   "Creates new contract",
			})
		}
	}

	r.ComplexityScore = complexityScore(blocks.BlockCount(), r.ExternalCalls, r.StorageWrites)

	if r.HasDelegatecall {
		r.RiskIndicators = append(r.RiskIndicators, RiskIndicator{
			Name:        "Delegatecall usage",
			Severity:    SeverityHigh,
			Description: "Contract uses delegatecall - verify upgrade mechanism",
		})
	}
	if r.ExternalCalls > 5 {
		r.RiskIndicators = append(r.RiskIndicators, RiskIndicator{
			Name:        "Multiple external calls",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d external calls - check for reentrancy", r.ExternalCalls),
		})
	}

	return r
}

// complexityScore combines block count, external-call count, and
// storage-write count into a single saturating score.
func complexityScore(blocks, externalCalls, storageWrites int) int {
	const maxScore = 1<<31 - 1
	score := 10*int64(blocks) + 20*int64(externalCalls) + 5*int64(storageWrites)
	if score > maxScore {
		return maxScore
	}
	return int(score)
}

// detectSelectors finds every PUSH4-then-EQ pair in instructions, the
// canonical dispatcher idiom for matching calldata[0:4] against a known ABI
// selector, and appends each match's selector to r.Selectors in discovery
// order. Duplicates are retained deliberately: a dispatcher may test the
// same selector more than once.
func detectSelectors(instructions []disasm.Instruction, r *Report) {
	const pushFourByte = 0x63 // PUSH4
	const eqByte = 0x14       // EQ

	for i := 0; i+1 < len(instructions); i++ {
		cur, next := instructions[i], instructions[i+1]
		if cur.RawByte != pushFourByte || next.RawByte != eqByte {
			continue
		}
		r.Selectors = append(r.Selectors, selectorHex(cur.Immediate))
	}
}

// selectorHex left-pads imm to 4 bytes and renders it as "0x" followed by
// eight lowercase hex digits.
func selectorHex(imm []byte) string {
	var buf [4]byte
	start := 4 - len(imm)
	if start < 0 {
		start = 0
	}
	copy(buf[start:], imm)
	return fmt.Sprintf("0x%08x", uint32(buf[0])<<24|uint32(buf[1])<<16|uint32(buf[2])<<8|uint32(buf[3]))
}
