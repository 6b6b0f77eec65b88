package dff

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu              sync.RWMutex
	packageLogger      = zap.NewNop()
	globalVerboseLevel int
	debugFlags         map[string]bool
)

// NewLogger builds a console logger on stderr. Level 0 shows warnings and errors,
// level 1 adds info, level 2 and above add debug.
func NewLogger(level int) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = level < 3
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	switch {
	case level <= 0:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case level == 1:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// SetLogger installs the logger used by the package-level helpers
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logMu.Lock()
	packageLogger = logger
	logMu.Unlock()
}

// Logger returns the package logger
func Logger() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return packageLogger
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	logMu.Lock()
	globalVerboseLevel = level
	logMu.Unlock()
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	logMu.RLock()
	defer logMu.RUnlock()
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if GetVerboseLevel() < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	Logger().Debug("enter", zap.String("func", funcName))
	return func() {
		Logger().Debug("exit", zap.String("func", funcName))
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if GetVerboseLevel() < level {
		return
	}
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	if level <= 1 {
		Logger().Info(msg)
		return
	}
	Logger().Debug(msg, zap.Int("verbose", level))
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("hash,exclude") and key:value format ("hash:true,exclude:false")
func SetDebugFlags(flagsStr string) {
	flags := make(map[string]bool)
	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		flags[flagName] = flagValue
	}

	logMu.Lock()
	debugFlags = flags
	logMu.Unlock()
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	logMu.RLock()
	defer logMu.RUnlock()
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)] || debugFlags["all"]
}
