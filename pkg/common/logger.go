package common

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConfigKeyLogPath file path where to save the logs (file output only)
	ConfigKeyLogPath = "logPath"
	// ConfigKeyLogOutput where logs go: "file" (default), "console" or "zap"
	ConfigKeyLogOutput = "logOutput"
	// ConfigKeyLogLevel minimum zap level ("debug", "info", "warn", "error")
	ConfigKeyLogLevel = "logLevel"
	// ConfigKeyLogFormat zap encoding: "json" (default) or "console"
	ConfigKeyLogFormat = "logFormat"
)

// Logger is the only logging capability components get. It's passed explicitly to whoever needs it.
type Logger interface {
	Log(message string)
}

// NewLoggerFromConfig picks the logger implementation according to ConfigKeyLogOutput.
func NewLoggerFromConfig(config *Config) (Logger, error) {
	switch output := config.GetStringOrDefault(ConfigKeyLogOutput, "file"); output {
	case "file":
		return NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt")), nil
	case "console":
		return NewConsoleLogger(), nil
	case "zap":
		zapLogger, err := NewZapLogger(
			config.GetStringOrDefault(ConfigKeyLogLevel, "info"),
			config.GetStringOrDefault(ConfigKeyLogFormat, "json"),
		)
		if err != nil {
			return nil, err
		}
		return NewZapAdapter(zapLogger), nil
	default:
		return nil, fmt.Errorf("unknown log output %q", output)
	}
}

type fileLogger struct {
	mutex      sync.Mutex
	path       string
	fileWriter *bufio.Writer
}

// NewFileLogger logs to the file specified by `path`. If the file is unavailable, writes to the console.
func NewFileLogger(path string) Logger {
	return &fileLogger{
		path: path,
	}
}

func (f *fileLogger) Log(message string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	message = withNewLine(message)
	if f.fileWriterReady() {
		_, err := f.fileWriter.WriteString(message)
		if err != nil {
			f.logErrorToConsole(err.Error())
			f.logMessageToConsole(message)
		}
		err = f.fileWriter.Flush()
		if err != nil {
			f.logErrorToConsole(message)
		}
	} else {
		f.logMessageToConsole(message)
	}
}

func (f *fileLogger) logErrorToConsole(message string) {
	fmt.Printf("Error: %s. Logging switched to console.\n", message)
}

func (f *fileLogger) logMessageToConsole(message string) {
	fmt.Print(message)
}

func (f *fileLogger) fileWriterReady() bool {
	if f.fileWriter != nil {
		return true
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		f.logErrorToConsole(err.Error())
		return false
	}
	f.fileWriter = bufio.NewWriter(file)
	return true
}

type consoleLogger struct {
	mutex sync.Mutex
}

// NewConsoleLogger prints every message to stdout.
func NewConsoleLogger() Logger {
	return &consoleLogger{}
}

func (c *consoleLogger) Log(message string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	fmt.Print(withNewLine(message))
}

// NewZapLogger creates a zap logger writing to stdout. Unknown levels fall back to info.
func NewZapLogger(level, format string) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapLevel)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

type zapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter exposes a zap logger as a Logger. Messages are logged at info level with surrounding whitespace removed.
func NewZapAdapter(logger *zap.Logger) Logger {
	return &zapAdapter{logger: logger}
}

func (z *zapAdapter) Log(message string) {
	z.logger.Info(strings.TrimSpace(message))
}

func withNewLine(message string) string {
	if strings.HasSuffix(message, "\n") {
		return message
	}
	return message + "\n"
}
