package sim

import (
	"log"
)

// LogHookBase provides the common logic for hooks and tracers that print
// through a logger.
type LogHookBase struct {
	*log.Logger
}

// NewLogHookBase creates a LogHookBase that writes through the given logger.
// A nil logger falls back to the standard logger.
func NewLogHookBase(logger *log.Logger) LogHookBase {
	if logger == nil {
		logger = log.Default()
	}

	return LogHookBase{Logger: logger}
}
