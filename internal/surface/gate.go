package surface

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/deskclock-shortcuts/internal/logger"
)

// Gate decides whether a surface can be reached.
type Gate interface {
	Available(ctx context.Context) bool
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context) bool

// Available calls f.
func (f GateFunc) Available(ctx context.Context) bool {
	return f(ctx)
}

// LockFileGate reports the surface unavailable while a session lock file
// exists, e.g. while the user session is locked.
type LockFileGate struct {
	// Path is the lock file location.
	Path string
}

// Available returns true when the lock file does not exist.
func (g LockFileGate) Available(ctx context.Context) bool {
	_, err := os.Stat(filepath.Clean(g.Path))
	if err == nil {
		return false
	}

	if !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to check session lock", "path", g.Path, "error", err)

		return false
	}

	return true
}

// ProcessGate reports the surface available only while the launcher process runs.
type ProcessGate struct {
	// Executable is the launcher executable name, e.g. "launcher" or "launcher.exe".
	Executable string
}

// Available returns true when a process with the configured executable name exists.
func (g ProcessGate) Available(ctx context.Context) bool {
	processList, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes", "error", err)

		return false
	}

	for _, process := range processList {
		if process.Executable() == g.Executable {
			return true
		}
	}

	return false
}

// AllOf returns a gate that is available only when every gate is.
func AllOf(gates ...Gate) Gate {
	return GateFunc(func(ctx context.Context) bool {
		for _, g := range gates {
			if !g.Available(ctx) {
				return false
			}
		}

		return true
	})
}
