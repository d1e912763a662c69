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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
)

// Format renders a Record to bytes.
type Format interface {
	Format(r *Record) []byte
}

type formatFunc func(*Record) []byte

func (f formatFunc) Format(r *Record) []byte { return f(r) }

var lvlColor = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgRed, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgMagenta),
}

// TerminalFormat renders records as a human-readable, optionally colorized
// line: "LVL[time] msg key=value ...". useColor should be false when the
// destination isn't a real terminal (piped output, log files).
func TerminalFormat(useColor bool) Format {
	return formatFunc(func(r *Record) []byte {
		var buf bytes.Buffer

		lvl := r.Lvl.String()
		if useColor {
			if c, ok := lvlColor[r.Lvl]; ok {
				lvl = c.Sprint(lvl)
			}
		}

		fmt.Fprintf(&buf, "%s[%s] %s", lvl, r.Time.Format("01-02|15:04:05.000"), r.Msg)
		for i := 0; i+1 < len(r.Ctx); i += 2 {
			fmt.Fprintf(&buf, " %v=%v", r.Ctx[i], formatValue(r.Ctx[i+1]))
		}
		if r.Call.String() != "" && (r.Lvl == LvlError || r.Lvl == LvlCrit || r.Lvl == LvlWarn) {
			fmt.Fprintf(&buf, " caller=%v", r.Call)
		}
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

// JSONFormat renders one JSON object per record, used for the HTTP façade
// and for --output json CLI sessions so logs can be ingested by the same
// tooling that consumes the analyzer's own JSON output.
func JSONFormat() Format {
	return formatFunc(func(r *Record) []byte {
		m := make(map[string]interface{}, 4+len(r.Ctx)/2)
		m["t"] = r.Time
		m["lvl"] = r.Lvl.String()
		m["msg"] = r.Msg
		for i := 0; i+1 < len(r.Ctx); i += 2 {
			key := fmt.Sprintf("%v", r.Ctx[i])
			m[key] = r.Ctx[i+1]
		}
		b, err := json.Marshal(m)
		if err != nil {
			b = []byte(fmt.Sprintf(`{"lvl":"eror","msg":"log marshal failed: %v"}`, err))
		}
		return append(b, '\n')
	})
}

func formatValue(v interface{}) interface{} {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
