// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	timeFormat        = "2006-01-02T15:04:05-0700"
	termTimeFormat    = "01-02|15:04:05.000"
	termMsgJust       = 40
	termCtxMaxPadding = 40
)

// LevelString returns a string containing the name of a Lvl.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

func levelColor(l slog.Level) int {
	switch l {
	case LevelCrit:
		return 35
	case slog.LevelError:
		return 31
	case slog.LevelWarn:
		return 33
	case slog.LevelInfo:
		return 32
	case slog.LevelDebug:
		return 36
	default:
		return 34
	}
}

func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	b := bytes.NewBuffer(buf)
	lvl := LevelAlignedString(r.Level)
	if usecolor {
		fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m", levelColor(r.Level), lvl)
	} else {
		b.WriteString(lvl)
	}
	b.WriteString("[")
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	// align the context block when there is one
	length := utf8.RuneCountInString(r.Message)
	if (len(h.attrs) > 0 || r.NumAttrs() > 0) && length < termMsgJust {
		b.Write(bytes.Repeat([]byte{' '}, termMsgJust-length))
	}

	writeAttr := func(attr slog.Attr) {
		b.WriteByte(' ')
		key := escape(attr.Key)
		if usecolor && !strings.HasPrefix(key, "LOG_") {
			fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m=", levelColor(r.Level), key)
		} else {
			b.WriteString(key)
			b.WriteByte('=')
		}
		val := formatValue(attr.Value)
		if len(val) > termCtxMaxPadding {
			val = val[:termCtxMaxPadding-3] + "..."
		}
		b.WriteString(val)
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr)
		return true
	})
	b.WriteByte('\n')
	return b.Bytes()
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return escape(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if v.Any() == nil {
			return "<nil>"
		}
		if s, ok := stringValue(v.Any()); ok {
			return escape(s)
		}
		return escape(fmt.Sprintf("%+v", v.Any()))
	}
	return escape(v.String())
}

// escape quotes strings that contain whitespace, '=' or quotes.
func escape(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\r\n=\"") {
		return strconv.Quote(s)
	}
	return s
}
