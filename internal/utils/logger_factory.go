package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugValueConstant           = "debug"
	logLevelInfoValueConstant            = "info"
	logLevelWarnValueConstant            = "warn"
	logLevelErrorValueConstant           = "error"
	logFormatStructuredValueConstant     = "structured"
	logFormatConsoleValueConstant        = "console"
	structuredZapEncodingConstant        = "json"
	consoleZapEncodingConstant           = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel selects the minimum severity the pipeline logger emits.
type LogLevel string

// Log levels accepted by the --log-level flag and the common.log_level configuration key.
const (
	LogLevelDebug LogLevel = logLevelDebugValueConstant
	LogLevelInfo  LogLevel = logLevelInfoValueConstant
	LogLevelWarn  LogLevel = logLevelWarnValueConstant
	LogLevelError LogLevel = logLevelErrorValueConstant
)

// LogFormat selects the encoding of pipeline log output.
type LogFormat string

// Log formats accepted by the --log-format flag and the common.log_format configuration key.
const (
	LogFormatStructured LogFormat = logFormatStructuredValueConstant
	LogFormatConsole    LogFormat = logFormatConsoleValueConstant
)

// LoggerFactory builds the zap logger every pipeline stage reports through.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger builds a production zap logger honoring the requested level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}

	encoding, encodingError := resolveZapEncoding(requestedLogFormat)
	if encodingError != nil {
		return nil, encodingError
	}

	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	loggerConfiguration.Encoding = encoding

	return loggerConfiguration.Build()
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}
}

func resolveZapEncoding(requestedLogFormat LogFormat) (string, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return structuredZapEncodingConstant, nil
	case LogFormatConsole:
		return consoleZapEncodingConstant, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
}
