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
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/sentinel-sh/evmscan/core/vm/cfg"
	"github.com/sentinel-sh/evmscan/core/vm/disasm"
	"github.com/sentinel-sh/evmscan/core/vm/security"
	"github.com/sentinel-sh/evmscan/crypto/keccak"
	"github.com/sentinel-sh/evmscan/internal/bytecodeinput"
	"github.com/sentinel-sh/evmscan/internal/sentinelerr"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	l := loggerFromContext(r.Context())

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req analyzeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := s.analyzeHex(req.Bytecode)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sentinelerr.ErrInternalDisassembly) {
			status = http.StatusInternalServerError
		}
		l.Warn("analyze rejected", "error", err)
		writeError(w, status, "analysis failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// analyzeHex decodes hex, runs the decompiler, and renders the HTTP
// response shape. It is shared by the POST /analyze handler and the
// streaming websocket handler so both surfaces apply identical caching and
// warning derivation.
func (s *Server) analyzeHex(hexBytecode string) (analyzeResponse, error) {
	return s.analyzeHexStaged(hexBytecode, nil)
}

// stageDisassembling, stageBuildingCFG, and stageAnalyzing name the
// progress frames the websocket handler emits while a cache-miss request
// works its way through the pipeline.
const (
	stageDisassembling = "disassembling"
	stageBuildingCFG   = "building_cfg"
	stageAnalyzing     = "analyzing"
)

// analyzeHexStaged is analyzeHex's staged variant: onStage, when non-nil, is
// invoked with each pipeline stage name immediately before that stage runs,
// letting the websocket handler stream liveness on a bytecode too large to
// analyze instantly. A cache hit short-circuits before any stage runs, so no
// progress frame is emitted for an already-known result.
func (s *Server) analyzeHexStaged(hexBytecode string, onStage func(string)) (analyzeResponse, error) {
	bytecode, err := bytecodeinput.Decode(hexBytecode)
	if err != nil {
		return analyzeResponse{}, err
	}

	hash := keccak.HexDigest(bytecode)
	if cached, ok := s.cache.Get(hash); ok {
		return cached.(analyzeResponse), nil
	}

	if onStage != nil {
		onStage(stageDisassembling)
	}
	instructions := disasm.Disassemble(bytecode)

	if onStage != nil {
		onStage(stageBuildingCFG)
	}
	graph := cfg.Build(instructions)

	if onStage != nil {
		onStage(stageAnalyzing)
	}
	sec := security.Analyze(instructions)

	resp := analyzeResponse{
		Success:          true,
		Opcodes:          security.DistinctOpcodes(instructions),
		Functions:        []string{},
		Selectors:        sec.Selectors,
		IsProxy:          sec.HasDelegatecall,
		HasSstore:        sec.StorageWrites > 0,
		HasCall:          sec.ExternalCalls > 0,
		HasDelegatecall:  sec.HasDelegatecall,
		HasSelfdestruct:  sec.HasSelfdestruct,
		Complexity:       sec.ComplexityScore,
		Warnings:         warnings(sec),
		RiskIndicators:   sec.RiskIndicators,
		InstructionCount: len(instructions),
		BlockCount:       graph.BlockCount(),
	}
	if resp.Selectors == nil {
		resp.Selectors = []string{}
	}
	if resp.RiskIndicators == nil {
		resp.RiskIndicators = []security.RiskIndicator{}
	}

	s.cache.Add(hash, resp)
	return resp, nil
}
