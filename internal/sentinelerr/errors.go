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

// Package sentinelerr names the small error taxonomy used at the CLI/HTTP
// boundary. The core pipeline (disasm, cfg, security, report) never returns
// an error — it is total by construction — so every sentinel defined here
// is raised only by the shells that decode untrusted input before handing
// bytes to the core.
package sentinelerr

import "errors"

// ErrInvalidHex is returned when a bytecode argument isn't valid hex, with
// or without a "0x" prefix.
var ErrInvalidHex = errors.New("invalid bytecode: not a hex string")

// ErrEmptyBytecode is returned when the decoded bytecode has zero length
// but the caller required non-empty input.
var ErrEmptyBytecode = errors.New("invalid bytecode: empty")

// ErrInternalDisassembly is reserved for a strict-mode reimplementation
// that rejects invalid opcodes rather than promoting them to Unknown. The
// disassembler specified here is total and never produces this error; it
// exists only so the error taxonomy has a forward-compatible slot, matching
// the original engine's DecompilerError::InvalidOpcode variant which the
// Rust implementation also never constructs.
var ErrInternalDisassembly = errors.New("internal disassembly error")
