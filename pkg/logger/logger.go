package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10
	maxBack = 5
	maxAge  = 30
)

// New builds the service logger: console output plus a rotated file, with the
// service name attached to every event.
func New(filePath, serviceName string) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    false,
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter)

	fileRotator := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize, // megabytes before rotation
		MaxBackups: maxBack,
		MaxAge:     maxAge, // days to retain rotated files
		Compress:   true,
	}

	writers = append(writers, fileRotator)

	multiWriter := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multiWriter).With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger().
		Level(zerolog.DebugLevel)

	logger.Info().
		Str("logsFilePath", filePath).
		Str("serviceName", serviceName).
		Msg("logger initialized with file rotation")

	return logger
}
