package dff

import "go.uber.org/zap"

// InitLogging configures verbosity, debug flags and the package logger in one call
// and returns the logger for injection into a Pipeline or Enumerator.
func InitLogging(level int, debug string) (*zap.Logger, error) {
	logger, err := NewLogger(level)
	if err != nil {
		return nil, err
	}
	SetVerboseLevel(level)
	SetDebugFlags(debug)
	SetLogger(logger)
	if debug != "" {
		VerboseLog(1, "debug flags: %s", debug)
	}
	return logger, nil
}
