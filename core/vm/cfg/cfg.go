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

// Package cfg partitions a disassembled instruction sequence into basic
// blocks and exposes a byte-offset-indexed control flow graph over them.
//
// Edge construction is intentionally out of scope: the source this analyzer
// is modeled on never computes successor edges, so reachability queries over
// unlinked blocks are a documented limitation, not a bug. See Block.Successors.
package cfg

import (
	"sort"

	"github.com/sentinel-sh/evmscan/core/vm/disasm"
	"github.com/sentinel-sh/evmscan/core/vm/opcode"
)

// Block is a maximal straight-line run of instructions with a single leader.
// A block ends either at a terminator or just before the next leader, so a
// block that falls through into a JUMPDEST (or the last block in the stream)
// may end without a terminator.
type Block struct {
	StartOffset  int
	EndOffset    int
	Instructions []disasm.Instruction
	IsEntry      bool
	IsRevert     bool
	IsReturn     bool
}

// Successors is a forward-compatibility hook reserved for a future edge
// pass (see spec's CFG-edges design note). It always returns nil today.
func (b *Block) Successors() []*Block { return nil }

// CFG is a directed graph of basic blocks. Blocks never overlap. The ByOffset
// index is keyed by each block's StartOffset, so it finds a block in O(1)
// only from the offset of its first instruction; FindBlock scans for any
// other address.
type CFG struct {
	Blocks   []*Block
	ByOffset map[int]*Block
	Entry    *Block
}

// BlockCount returns the number of basic blocks in the graph.
func (c *CFG) BlockCount() int { return len(c.Blocks) }

// BlockAt returns the block whose first instruction is at byte offset off,
// or nil if no block starts there. Callers that need "block containing any address" (not just a leader
// offset) should use FindBlock instead.
func (c *CFG) BlockAt(off int) *Block {
	return c.ByOffset[off]
}

// FindBlock returns the block whose instruction range contains byte offset
// off, or nil if none does.
func (c *CFG) FindBlock(off int) *Block {
	for _, b := range c.Blocks {
		if off >= b.StartOffset && off <= b.EndOffset {
			return b
		}
	}
	return nil
}

// Build partitions instructions into basic blocks and returns the resulting
// graph. An empty instruction sequence yields a CFG with zero blocks and no
// entry.
func Build(instructions []disasm.Instruction) *CFG {
	graph := &CFG{
		ByOffset: make(map[int]*Block),
	}
	if len(instructions) == 0 {
		return graph
	}

	leaders := findLeaders(instructions)

	for i, start := range leaders {
		end := len(instructions)
		if i+1 < len(leaders) {
			end = leaders[i+1]
		}

		blockInstrs := instructions[start:end]
		last := blockInstrs[len(blockInstrs)-1]

		block := &Block{
			StartOffset:  instructions[start].Offset,
			EndOffset:    last.Offset,
			Instructions: blockInstrs,
			IsEntry:      start == 0,
			IsRevert:     last.Op == opcode.REVERT,
			IsReturn:     last.Op == opcode.RETURN || last.Op == opcode.STOP,
		}

		graph.Blocks = append(graph.Blocks, block)
		graph.ByOffset[block.StartOffset] = block
		if block.IsEntry {
			graph.Entry = block
		}
	}

	return graph
}

// findLeaders returns the sorted sequence indices that begin a basic block:
// index 0, every JUMPDEST, and every instruction immediately following a
// block terminator (JUMP, JUMPI, STOP, RETURN, REVERT, SELFDESTRUCT).
func findLeaders(instructions []disasm.Instruction) []int {
	isLeader := make(map[int]bool, len(instructions))
	isLeader[0] = true

	for idx, instr := range instructions {
		switch instr.Op {
		case opcode.JUMPDEST:
			isLeader[idx] = true
		case opcode.JUMP, opcode.JUMPI, opcode.STOP, opcode.RETURN, opcode.REVERT, opcode.SELFDESTRUCT:
			if idx+1 < len(instructions) {
				isLeader[idx+1] = true
			}
		}
	}

	leaders := make([]int, 0, len(isLeader))
	for idx := range isLeader {
		leaders = append(leaders, idx)
	}
	sort.Ints(leaders)
	return leaders
}
