package workerpool

import (
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the structured logger type used throughout this package. It is
// a type alias for logiface's generic Logger, bound to the zerolog event
// implementation provided by izerolog — the same pairing the teacher
// repository's own logiface-zerolog submodule wires up.
type Logger = *logiface.Logger[*izerolog.Event]

// NewZerologLogger builds a Logger that writes to z using the logiface
// wrapper. Passing a zero-value zerolog.Logger disables output entirely.
func NewZerologLogger(z zerolog.Logger) Logger {
	return izerolog.L.New(izerolog.L.WithZerolog(z))
}

// defaultLogger writes structured logs to stderr at informational level.
func defaultLogger() Logger {
	return NewZerologLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// noopLogger returns a Logger with logging disabled, used when a component
// isn't configured with one explicitly.
func noopLogger() Logger {
	return logiface.New[*izerolog.Event]()
}

func logWorkerEvent(logger Logger, msg string, workerID uint64, err error) {
	if logger == nil {
		return
	}
	b := logger.Info()
	if err != nil {
		b = logger.Err().Err(err)
	}
	b.Uint64("worker_id", workerID).Log(msg)
}
