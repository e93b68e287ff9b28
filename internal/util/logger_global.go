package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface = NewNopLogger()
	globalMu     sync.RWMutex
)

// InitLogger installs the process-wide logger used by the command layer.
func InitLogger(logLevel, logFile string, debugToConsole bool) (*Logger, error) {
	logger, err := NewLogger(logLevel, logFile, debugToConsole)
	if err != nil {
		return nil, err
	}
	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the global logger.
func SetLogger(l LoggerInterface) {
	if l == nil {
		l = NewNopLogger()
	}
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetLogger returns the global logger; never nil.
func GetLogger() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// OrGlobal returns l, or the global logger when l is nil.
func OrGlobal(l LoggerInterface) LoggerInterface {
	if l != nil {
		return l
	}
	return GetLogger()
}

func LogInfo(msg string) {
	GetLogger().Info(msg)
}

func LogInfof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

func LogDebug(msg string) {
	GetLogger().Debug(msg)
}

func LogDebugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

func LogWarn(msg string) {
	GetLogger().Warn(msg)
}

func LogWarnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

func LogError(msg string) {
	GetLogger().Error(msg)
}

func LogErrorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}
