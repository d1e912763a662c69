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

// Package bytecodeinput decodes the hex-encoded bytecode strings accepted
// by both the CLI and HTTP shells, sharing the one input-encoding boundary
// so the core pipeline never has to think about strings at all.
package bytecodeinput

import (
	"encoding/hex"
	"strings"

	"github.com/sentinel-sh/evmscan/internal/sentinelerr"
)

// Decode strips an optional "0x"/"0X" prefix and decodes the remainder as
// hex. It returns sentinelerr.ErrInvalidHex for malformed hex and
// sentinelerr.ErrEmptyBytecode for an empty (post-decode) result.
func Decode(s string) ([]byte, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, sentinelerr.ErrInvalidHex
	}
	if len(b) == 0 {
		return nil, sentinelerr.ErrEmptyBytecode
	}
	return b, nil
}
