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

package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownBytes(t *testing.T) {
	cases := []struct {
		b    byte
		want Opcode
	}{
		{0x00, STOP},
		{0x01, ADD},
		{0x20, SHA3},
		{0x55, SSTORE},
		{0x5B, JUMPDEST},
		{0x60, PUSH1},
		{0x7F, PUSH32},
		{0x80, DUP1},
		{0x8F, DUP16},
		{0x90, SWAP1},
		{0x9F, SWAP16},
		{0xA0, LOG0},
		{0xA4, LOG4},
		{0xF0, CREATE},
		{0xF1, CALL},
		{0xF4, DELEGATECALL},
		{0xFA, STATICCALL},
		{0xFE, INVALID},
		{0xFF, SELFDESTRUCT},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.b), "byte 0x%02x", c.b)
	}
}

func TestClassifyUnassignedIsUnknown(t *testing.T) {
	for _, b := range []byte{0x0C, 0x1E, 0x21, 0x49, 0xB0, 0xFB, 0xFC} {
		got := Classify(b)
		require.Equal(t, Unknown, got, "byte 0x%02x should classify to Unknown", b)
	}
}

func TestInvalidAndUnknownAreDistinct(t *testing.T) {
	assert.Equal(t, INVALID, Classify(0xFE), "0xFE must classify to Invalid, not Unknown")
	assert.NotEqual(t, INVALID, Unknown)
}

func TestStringRoundTrip(t *testing.T) {
	assert.Equal(t, "STOP", STOP.String())
	assert.Equal(t, "PUSH1", PUSH1.String())
	assert.Equal(t, "PUSH32", PUSH32.String())
	assert.Equal(t, "DUP16", DUP16.String())
	assert.Equal(t, "SWAP16", SWAP16.String())
	assert.Equal(t, "LOG4", LOG4.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}

func TestImmediateWidth(t *testing.T) {
	assert.Equal(t, 0, ImmediateWidth(0x00))
	assert.Equal(t, 1, ImmediateWidth(0x60))
	assert.Equal(t, 32, ImmediateWidth(0x7F))
	assert.Equal(t, 0, ImmediateWidth(0x80))
	assert.Equal(t, 0, ImmediateWidth(0xFF))
}

func TestIsDangerous(t *testing.T) {
	for _, o := range []Opcode{CALL, CALLCODE, DELEGATECALL, STATICCALL, CREATE, CREATE2, SSTORE, SELFDESTRUCT} {
		assert.True(t, IsDangerous(o), "%s should be dangerous", o)
	}
	for _, o := range []Opcode{STOP, ADD, JUMP, JUMPDEST, PUSH1} {
		assert.False(t, IsDangerous(o), "%s should not be dangerous", o)
	}
}

func TestIsControlFlow(t *testing.T) {
	for _, o := range []Opcode{JUMP, JUMPI, STOP, RETURN, REVERT, SELFDESTRUCT} {
		assert.True(t, IsControlFlow(o), "%s should be control-flow", o)
	}
	for _, o := range []Opcode{ADD, SSTORE, CALL, JUMPDEST} {
		assert.False(t, IsControlFlow(o), "%s should not be control-flow", o)
	}
}
