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

// Package sentinelconfig holds the analyzer's runtime configuration, loaded
// from an optional TOML file and layered under CLI flag overrides, the same
// two-stage pattern cmd/gprobe uses for its node configuration.
package sentinelconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"
	"unicode"

	"github.com/naoina/toml"

	"github.com/sentinel-sh/evmscan/log"
)

// Config is the analyzer's full runtime configuration.
type Config struct {
	// Host and Port are the HTTP façade's listen address.
	Host string
	Port int

	// CORSOrigins lists allowed CORS origins for the HTTP façade. A single
	// "*" allows any origin, matching the original server's permissive
	// tower_http CorsLayer::new().allow_origin(Any).
	CORSOrigins []string

	// MaxBodyBytes caps the size of a POST /analyze request body, so a
	// pathological upload can't force an unbounded disassembly pass.
	MaxBodyBytes int64

	// RequestTimeout bounds how long one HTTP request may run.
	RequestTimeout time.Duration

	// OutputFormat is the CLI's default --output value when the flag is
	// omitted ("json" or "text").
	OutputFormat string

	// Verbose enables debug-level logging.
	Verbose bool
}

// Defaults mirrors probeconfig.Defaults: a ready-to-use configuration with
// conservative, production-sane values.
var Defaults = Config{
	Host:           "0.0.0.0",
	Port:           3000,
	CORSOrigins:    []string{"*"},
	MaxBodyBytes:   10 << 20, // 10 MiB of hex-encoded bytecode
	RequestTimeout: 30 * time.Second,
	OutputFormat:   "json",
	Verbose:        false,
}

// tomlSettings keeps TOML keys identical to Go struct field names, the same
// convention cmd/gprobe/config.go uses so config files read like the struct
// they populate.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// LoadFile decodes the TOML file at path into cfg, which should already
// hold Defaults so that unset fields keep their default value.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = fmt.Errorf("%s, %w", path, err)
	}
	return err
}

// ApplyEnv reads no environment variables and leaves cfg unchanged; when
// cfg.Verbose is set it logs the resolved host, port and output format at
// debug level. The analyzer intentionally keeps all configuration in the TOML
// file and CLI flags rather than environment variables, to match the
// teacher's node configuration, which treats env vars as out of scope.
func ApplyEnv(cfg *Config) {
	if cfg.Verbose {
		log.Debug("configuration loaded", "host", cfg.Host, "port", cfg.Port, "outputFormat", cfg.OutputFormat)
	}
}
