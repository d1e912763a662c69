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

package sentinelapi

import (
	"encoding/json"
	"net/http"

	"github.com/sentinel-sh/evmscan/core/vm/security"
)

// analyzeRequest is the POST /analyze request body.
type analyzeRequest struct {
	Bytecode string `json:"bytecode"`
}

// analyzeResponse is the success shape of POST /analyze.
type analyzeResponse struct {
	Success          bool                     `json:"success"`
	Opcodes          []string                 `json:"opcodes"`
	Functions        []string                 `json:"functions"`
	Selectors        []string                 `json:"selectors"`
	IsProxy          bool                     `json:"is_proxy"`
	HasSstore        bool                     `json:"has_sstore"`
	HasCall          bool                     `json:"has_call"`
	HasDelegatecall  bool                     `json:"has_delegatecall"`
	HasSelfdestruct  bool                     `json:"has_selfdestruct"`
	Complexity       int                      `json:"complexity"`
	Warnings         []string                 `json:"warnings"`
	RiskIndicators   []security.RiskIndicator `json:"risk_indicators"`
	InstructionCount int                      `json:"instruction_count"`
	BlockCount       int                      `json:"block_count"`
}

// errorResponse is the shape returned for 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, summary, details string) {
	writeJSON(w, status, errorResponse{Error: summary, Details: details})
}

// warnings derives the HTTP façade's human-facing capability warnings from
// the security report's flags, per the documented derivation order:
// selfdestruct, then delegatecall, then deprecated CALLCODE usage.
func warnings(sec security.Report) []string {
	var out []string
	if sec.HasSelfdestruct {
		out = append(out, "Contract contains SELFDESTRUCT - can be destroyed")
	}
	if sec.HasDelegatecall {
		out = append(out, "Contract uses DELEGATECALL - potential proxy or upgrade pattern")
	}
	if sec.HasCallcode {
		out = append(out, "Contract uses deprecated CALLCODE opcode")
	}
	return out
}
