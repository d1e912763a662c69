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

package log

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var root = NewRoot(defaultHandler())

// defaultHandler wires stderr through a colorable writer when it's a real
// terminal (including on Windows consoles, via go-colorable) and disables
// color otherwise, e.g. when output is piped to a file or another process.
func defaultHandler() Handler {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	w := colorable.NewColorableStderr()
	return StreamHandler(w, TerminalFormat(useColor))
}

// Root returns the package-level root logger.
func Root() Logger { return root }

// SetRootHandler replaces the root logger's handler, e.g. to switch to
// JSONFormat under --output json or --server.
func SetRootHandler(h Handler) { root.SetHandler(h) }

// New returns a child of the root logger carrying bound context, e.g.
// log.New("reqID", id) to stamp every subsequent line for one request.
func New(ctx ...interface{}) Logger { return root.New(ctx...) }

func Trace(msg string, ctx ...interface{}) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }
