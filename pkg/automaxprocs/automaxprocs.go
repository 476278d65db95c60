package automaxprocs

import (
	"fmt"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/thorbond/bond-indexer/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// undo is the undo function returned by maxprocs.Set
var undo func()

// Init sets GOMAXPROCS to match the Linux container CPU quota (if any).
// No-op on non-Linux systems and in environments without a CPU quota.
func Init() error {
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", Current()),
	)

	setMaxProcLogger := func(format string, v ...any) {
		log.Info(fmt.Sprintf(format, v...))
	}

	revert, err := maxprocs.Set(maxprocs.Logger(setMaxProcLogger), maxprocs.Min(1))
	if err != nil {
		return errors.WithStack(err)
	}

	undo = revert
	return nil
}

// Undo restores GOMAXPROCS to its previous value and
// returns the current GOMAXPROCS value.
func Undo() int {
	if undo != nil {
		undo()
	}
	return Current()
}

// Current returns the current value of GOMAXPROCS.
func Current() int {
	return runtime.GOMAXPROCS(0)
}
