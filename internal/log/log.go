// Package log wires up the process-wide logging backend and hands out
// per-subsystem tagged loggers, the way the teacher's daemon split its
// log output across SRVR/RPCS/CMGR-style subsystem tags.
package log

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Backend is the process-wide slog backend. Subsystems pull tagged
// Loggers from it via Subsystem.
var Backend = slog.NewBackend(os.Stdout)

// logRotator wraps the optional rotating log file sink, set up by
// InitRotator; nil until a caller asks for file logging.
var logRotator *rotator.Rotator

// InitRotator redirects Backend's writer to a multi-writer of stdout and
// a rotating file at logFile, matching the teacher's daemon convention of
// always keeping console output live alongside the on-disk log.
func InitRotator(logFile string, maxRolls int) error {
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return err
	}
	logRotator = r
	Backend = slog.NewBackend(io.MultiWriter(os.Stdout, r))
	return nil
}

// CloseRotator flushes and closes the rotating log file, if one was set
// up via InitRotator.
func CloseRotator() {
	if logRotator != nil {
		logRotator.Close()
	}
}

// levels holds the level recorded for each tag by SetLevel.
var levels = map[string]slog.Level{}

// Subsystem returns a tagged Logger for the given four-letter subsystem
// tag (e.g. "ENGN", "KMGR", "HTTP"), at the level last set for that tag
// via SetLevel, or LevelInfo if none was set.
func Subsystem(tag string) slog.Logger {
	l := Backend.Logger(tag)
	level, ok := levels[tag]
	if !ok {
		level = slog.LevelInfo
	}
	l.SetLevel(level)
	return l
}

// SetLevel sets the level of every Logger that Subsystem returns for tag
// after this call; callers typically call this once at startup from the
// CLI's --debuglevel flag, before any logger is obtained.
func SetLevel(tag string, level slog.Level) {
	levels[tag] = level
}

// ParseLevel maps a config string ("trace","debug","info","warn","error",
// "critical") to its slog.Level, defaulting to LevelInfo on an unknown
// value rather than failing startup over a typo.
func ParseLevel(s string) slog.Level {
	lvl, ok := slog.LevelFromString(s)
	if !ok {
		return slog.LevelInfo
	}
	return lvl
}
