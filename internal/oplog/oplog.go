// Package oplog is git-shadow's rotating operation log, used by the
// commit-cycle engines to record each transaction step for post-mortem
// debugging of interrupted commits.
//
// Grounded on the teacher's daemon.Config.Logger pattern (a *log.Logger with
// a bracketed prefix, log.LstdFlags) — here the underlying writer is a
// lumberjack.Logger instead of os.Stderr, since this log outlives any
// single invocation and needs rotation rather than unbounded growth.
package oplog

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// maxSizeMB is the rotation threshold for the operation log file.
const maxSizeMB = 5

// New returns a *log.Logger that appends to path, rotating it once it
// exceeds maxSizeMB and keeping a small number of backups.
func New(path string) *log.Logger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return log.New(writer, "[git-shadow] ", log.LstdFlags)
}

// Discard returns a logger that drops everything, for callers (tests,
// read-only commands) that don't want a log file created as a side effect.
func Discard() *log.Logger {
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
