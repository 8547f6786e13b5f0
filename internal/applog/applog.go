// Package applog is the shared zerolog logger used by the packages that do
// non-trivial request processing (resource service, bulk dispatcher,
// storage adapters) and have no caller-supplied logger of their own to log
// through, matching the teacher's server/logger zerolog binding.
package applog

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is a package-level logger, written to stderr with RFC3339 timestamps.
// Library callers embedding this module in a larger application can filter
// it via zerolog.SetGlobalLevel or redirect it by assigning a different
// logger to Log; there is no per-call injection point because none of this
// module's constructors otherwise take a logger.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()
