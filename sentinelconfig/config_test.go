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

package sentinelconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreProductionSane(t *testing.T) {
	assert.Equal(t, 3000, Defaults.Port)
	assert.Equal(t, "json", Defaults.OutputFormat)
	assert.False(t, Defaults.Verbose)
	assert.Equal(t, []string{"*"}, Defaults.CORSOrigins)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel.toml")
	contents := "Port = 9090\nVerbose = true\nOutputFormat = \"text\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := Defaults
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, Defaults.Host, cfg.Host, "fields absent from the file keep their default")
}

func TestLoadFileMissingFileErrors(t *testing.T) {
	cfg := Defaults
	err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.toml"), &cfg)
	assert.Error(t, err)
}

func TestLoadFileUnknownFieldErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel.toml")
	require.NoError(t, os.WriteFile(path, []byte("NotAField = 1\n"), 0o644))

	cfg := Defaults
	err := LoadFile(path, &cfg)
	assert.Error(t, err)
}
