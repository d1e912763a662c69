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

// Package keccak wraps the Keccak-256 primitive used to fingerprint analyzed
// bytecode. It is the only cryptographic primitive the analyzer depends on.
package keccak

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a Keccak-256 digest.
const Size = 32

// Sum256 returns the Keccak-256 digest of data. Identical input bytes always
// produce an identical 32-byte output.
func Sum256(data []byte) [Size]byte {
	var out [Size]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

// HexDigest returns the "0x"-prefixed, lowercase hex encoding of the
// Keccak-256 digest of data.
func HexDigest(data []byte) string {
	sum := Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}
