// Package logging provides the structured, leveled diagnostics the runtime
// facade writes (runtime startup and shutdown); the scheduler and the
// reactor do not log.
//
// The teacher eventloop package rolled its own Logger interface plus a
// DefaultLogger that hand-formats entries as JSON or pretty terminal text.
// This module carries the same "pluggable structured logger with a
// sensible built-in default" shape, but implements it on top of
// github.com/joeycumines/logiface and github.com/joeycumines/stumpy rather
// than reimplementing field buffering and JSON encoding by hand: stumpy
// already is the teacher's own pack's answer to "encode a logiface.Event as
// JSON", so there is no reason to hand-roll a second one here.
package logging

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the type every cadentis component logs through. It is a type
// alias rather than a wrapper interface: logiface.Logger already exposes the
// exact chainable Info()/Warn()/Err()/Debug() builder API the corpus uses,
// and adding an indirection layer on top would just be a second copy of that
// surface for no behavioural gain.
type Logger = logiface.Logger[*stumpy.Event]

// Level re-exports logiface's syslog-derived level scale so callers
// configuring a Logger never need to import logiface directly.
type Level = logiface.Level

const (
	LevelDisabled = logiface.LevelDisabled
	LevelError    = logiface.LevelError
	LevelWarning  = logiface.LevelWarning
	LevelInfo     = logiface.LevelInformational
	LevelDebug    = logiface.LevelDebug
	LevelTrace    = logiface.LevelTrace
)

// New builds a Logger writing newline-delimited JSON to w at minimum level.
// A nil w defaults to os.Stderr, matching the teacher DefaultLogger's
// "diagnostics go to the process's error stream unless told otherwise"
// default.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](level),
	)
}

// NewNop returns a Logger with logging disabled, for callers (mainly tests)
// that want the real API surface without any output.
func NewNop() *Logger {
	return stumpy.L.New(logiface.WithLevel[*stumpy.Event](LevelDisabled))
}
