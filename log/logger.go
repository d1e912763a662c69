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

// Package log is a minimal structured, leveled logger in the vein of
// go-ethereum's log package: key/value pairs rather than format strings, a
// package-level root logger, and child loggers that carry bound context.
package log

import (
	"os"
	"time"

	"github.com/go-stack/stack"
)

// Lvl is a logging severity level, ordered from most to least severe.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "crit"
	case LvlError:
		return "eror"
	case LvlWarn:
		return "warn"
	case LvlInfo:
		return "info"
	case LvlDebug:
		return "dbug"
	case LvlTrace:
		return "trce"
	default:
		return "unkn"
	}
}

// Record is a single log event.
type Record struct {
	Time  time.Time
	Lvl   Lvl
	Msg   string
	Ctx   []interface{}
	Call  stack.Call
}

// Logger writes structured records through an installed Handler.
type Logger interface {
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})

	GetHandler() Handler
	SetHandler(h Handler)
}

type logger struct {
	ctx []interface{}
	h   *swapHandler
}

// swapHandler lets SetHandler replace the active handler without requiring
// every child logger to be rebuilt (children share the parent's *swapHandler).
type swapHandler struct {
	handler Handler
}

func (s *swapHandler) Log(r *Record) error { return s.handler.Log(r) }

// NewRoot returns a fresh root logger with no bound context, writing
// through h. Most callers want the package-level Root() singleton instead;
// NewRoot exists for tests and for embedding the logger in another binary.
func NewRoot(h Handler) Logger {
	return &logger{h: &swapHandler{handler: h}}
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}) {
	r := &Record{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  msg,
		Ctx:  newContext(l.ctx, ctx),
	}
	if lvl <= LvlWarn {
		r.Call = stack.Caller(2)
	}
	_ = l.h.Log(r)
}

func (l *logger) New(ctx ...interface{}) Logger {
	child := &logger{h: l.h, ctx: newContext(l.ctx, ctx)}
	return child
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(msg, LvlCrit, ctx)
	os.Exit(1)
}

func (l *logger) GetHandler() Handler { return l.h.handler }
func (l *logger) SetHandler(h Handler) { l.h.handler = h }

// newContext appends extra onto a copy of prefix, leaving prefix untouched.
func newContext(prefix []interface{}, extra []interface{}) []interface{} {
	normalized := normalize(extra)
	ctx := make([]interface{}, 0, len(prefix)+len(normalized))
	ctx = append(ctx, prefix...)
	ctx = append(ctx, normalized...)
	return ctx
}

// normalize makes sure every context slice has an even number of elements,
// padding a dangling trailing key with an error marker value rather than
// panicking the caller.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, "LOGGER ERROR: missing value for key")
	}
	return ctx
}
