// Package debug provides per-request trace output for the verification
// engine. Tracing is opt-in per call so batch runs stay quiet while a
// single problem address can be replayed verbosely.
package debug

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Header marks the start of a traced section.
func Header(enabled bool) {
	if enabled {
		log.Debug().Msg("=== TRACE START ===")
	}
}

// Footer marks the end of a traced section.
func Footer(enabled bool) {
	if enabled {
		log.Debug().Msg("=== TRACE END ===")
	}
}

// Output emits one trace line if tracing is enabled.
func Output(enabled bool, format string, args ...interface{}) {
	if enabled {
		log.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// Timing measures and logs execution time of an operation if tracing is
// enabled. Call the returned function when the operation completes.
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	Output(enabled, "Starting: %s", operation)

	return func() {
		Output(enabled, "Completed: %s (took %v)", operation, time.Since(start))
	}
}
