package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default, so package-level slog calls share its
// handler.
func NewLogger(level, format string) *slog.Logger {
	return sharedobs.NewLogger(level, format)
}
