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

package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-sh/evmscan/core/vm/report"
	"github.com/sentinel-sh/evmscan/core/vm/security"
)

func TestAnalyzeOnceRejectsInvalidHex(t *testing.T) {
	err := analyzeOnce("not-hex", "json")
	assert.Error(t, err)
}

func TestAnalyzeOnceAcceptsValidHex(t *testing.T) {
	err := analyzeOnce("0x00", "json")
	assert.NoError(t, err)
}

func TestAnalyzeOnceTextFormat(t *testing.T) {
	err := analyzeOnce("0xFF", "text")
	assert.NoError(t, err)
}

func TestSeverityColorCoversAllSeverities(t *testing.T) {
	for _, s := range []security.Severity{security.SeverityCritical, security.SeverityHigh, security.SeverityMedium, security.SeverityLow} {
		assert.NotNil(t, severityColor(s))
	}
}

// captureStdout redirects os.Stdout, and color.Output (which the colorized
// lines of printText write to), for the duration of fn and returns
// everything written to them, so printText's output can be asserted on
// directly instead of only checking that it ran without error.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig, origColor := os.Stdout, color.Output
	os.Stdout, color.Output = w, w
	defer func() { os.Stdout, color.Output = orig, origColor }()

	fn()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestPrintTextShowsSelfdestructBanner(t *testing.T) {
	rep := report.Decompile([]byte{0xFF}) // SELFDESTRUCT
	out := captureStdout(t, func() { printText(rep) })
	assert.Contains(t, out, "CRITICAL: Contract has SELFDESTRUCT capability!")
}

func TestPrintTextOmitsSelfdestructBannerWhenAbsent(t *testing.T) {
	rep := report.Decompile([]byte{0x00}) // STOP only
	out := captureStdout(t, func() { printText(rep) })
	assert.NotContains(t, out, "SELFDESTRUCT capability")
}

func TestPrintTextShowsLargeConstants(t *testing.T) {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	bytecode := append([]byte{0x73}, addr...) // PUSH20
	bytecode = append(bytecode, 0x00)

	rep := report.Decompile(bytecode)
	out := captureStdout(t, func() { printText(rep) })
	assert.Contains(t, out, "large constants:")
	assert.Contains(t, out, "PUSH20")
}
