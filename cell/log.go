package cell

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

var (
	logMu  sync.RWMutex
	logger = zerolog.Nop()
)

// SetLogger routes library diagnostics to l. The only diagnostic emitted is
// a per-observer report when a callback panics during a notification; by
// default the library is silent.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

type panicReport struct {
	id    ulid.ULID
	value any
}

func reportPanic(id ulid.ULID, value any) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	l.Error().
		Str("observer", id.String()).
		Interface("panic", value).
		Msg("observer panicked during notify")
}
