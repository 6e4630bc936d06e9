// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled logger, the same shape as the one
// saferwall/pe threads through its File via Options.Logger. A decoder
// built against this interface can be pointed at any sink the caller
// prefers without this module importing it directly.
package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is a log severity.
type Level int8

// Known levels, increasing in severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger emits one log line as alternating key/value pairs.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes "time level key=value ..." lines to an io.Writer.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes plain text lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	buf := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339), level)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			buf += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
		} else {
			buf += fmt.Sprintf(" %v", keyvals[i])
		}
	}
	_, err := fmt.Fprintln(l.w, buf)
	return err
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	logger Logger
	level  Level
}

// FilterOption configures a filter built by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a filtered logger will pass
// through.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

// NewFilter wraps logger with a minimum-severity gate.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugf/Warnf/Errorf convenience methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, a ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Log(level, "msg", fmt.Sprintf(format, a...))
}

// Debugf logs at debug level.
func (h *Helper) Debugf(format string, a ...interface{}) { h.log(LevelDebug, format, a...) }

// Infof logs at info level.
func (h *Helper) Infof(format string, a ...interface{}) { h.log(LevelInfo, format, a...) }

// Warnf logs at warn level.
func (h *Helper) Warnf(format string, a ...interface{}) { h.log(LevelWarn, format, a...) }

// Errorf logs at error level.
func (h *Helper) Errorf(format string, a ...interface{}) { h.log(LevelError, format, a...) }
