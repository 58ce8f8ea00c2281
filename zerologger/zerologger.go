// Package zerologger adapts a zerolog.Logger to clessidra.Logger.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package zerologger

import (
	"fmt"

	"github.com/agilira/clessidra"
	"github.com/rs/zerolog"
)

// Logger forwards clessidra log calls to zerolog. Key-value pairs become
// event fields; a dangling key is logged under "!BADKEY".
type Logger struct {
	zl zerolog.Logger
}

// New wraps zl. The "component" field is set to "clessidra".
func New(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl.With().Str("component", "clessidra").Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	write(l.zl.Debug(), msg, keyvals)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	write(l.zl.Info(), msg, keyvals)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	write(l.zl.Warn(), msg, keyvals)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	write(l.zl.Error(), msg, keyvals)
}

func write(ev *zerolog.Event, msg string, keyvals []interface{}) {
	if ev == nil {
		return
	}
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		if i+1 >= len(keyvals) {
			ev = ev.Interface("!BADKEY", keyvals[i])
			break
		}
		switch v := keyvals[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

var _ clessidra.Logger = (*Logger)(nil)
