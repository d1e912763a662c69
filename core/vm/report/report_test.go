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

package report

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompileEmptyInput(t *testing.T) {
	r := Decompile(nil)
	assert.Equal(t, 0, r.BytecodeSize)
	assert.Equal(t, 0, r.InstructionCount)
	assert.Equal(t, 0, r.BlockCount)
	assert.Empty(t, r.Security.Selectors)
}

func TestDecompileMinimalStop(t *testing.T) {
	r := Decompile([]byte{0x00})
	assert.Equal(t, 1, r.BytecodeSize)
	assert.Equal(t, 1, r.InstructionCount)
	assert.Equal(t, 1, r.BlockCount)
	assert.Equal(t, 10, r.Security.ComplexityScore)
	require.Len(t, r.BytecodeHash, 2+64)
	assert.Equal(t, "0x", r.BytecodeHash[:2])
}

func TestDecompileIsDeterministic(t *testing.T) {
	bytecode := []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0xF1, 0x55, 0x00}
	first := Decompile(bytecode)
	second := Decompile(bytecode)
	assert.Equal(t, first, second)
}

func TestDecompileERC20DispatcherSnippet(t *testing.T) {
	bytecode := mustHex(t, "6080604052348015600f57600080fd5b5060043610603c5760003560e01c806340c10f1914604157806370a082311460655780638456cb591460b4575b600080fd5b")
	r := Decompile(bytecode)

	assert.Contains(t, r.Security.Selectors, "0x40c10f19")
	assert.Contains(t, r.Security.Selectors, "0x8456cb59")
	assert.Greater(t, r.Security.ComplexityScore, 0)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
