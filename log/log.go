// Package log is a key-value logger wrapping logrus.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const (
	missingValueKey = "LOG_MISSING_VALUE"
	errorKey        = "LOG_ERROR"
)

var (
	logger = logrus.New()

	// JSONFormat whether log in json format
	JSONFormat = false
	// ColorFormat whether log with color
	ColorFormat = false
)

// LogFunc log func with key-value pairs
type LogFunc func(msg string, ctx ...interface{})

func init() {
	SetLogger(4, false, true)
}

// SetLogger set log level, json format, color format
func SetLogger(logLevel uint32, jsonFormat, colorFormat bool) {
	logger.SetLevel(convertLevel(logLevel))
	JSONFormat = jsonFormat
	ColorFormat = colorFormat
	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:      colorFormat,
			DisableColors:    !colorFormat,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02T15:04:05.000Z07:00",
			QuoteEmptyFields: true,
		})
	}
}

// SetLogFile set log file with rotation (in hours) and max age (in hours)
func SetLogFile(logFile string, rotation, maxAge uint64) {
	if logFile == "" {
		return
	}
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		logger.Errorf("create log dir '%v' failed: %v", logDir, err)
		os.Exit(1)
	}
	if rotation == 0 {
		rotation = 24
	}
	if maxAge == 0 {
		maxAge = 7 * 24
	}
	fileName := filepath.Base(logFile)
	writer, err := rotatelogs.New(
		filepath.Join(logDir, fileName+".%Y%m%d%H"),
		rotatelogs.WithLinkName(logFile),
		rotatelogs.WithRotationTime(time.Duration(rotation)*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*time.Hour),
	)
	if err != nil {
		logger.Errorf("set log file '%v' failed: %v", logFile, err)
		os.Exit(1)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	logger.Infof("set log file '%v', rotation %v hours, max age %v hours", logFile, rotation, maxAge)
}

// SetOutput set log output
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func convertLevel(level uint32) logrus.Level {
	switch {
	case level >= 6:
		return logrus.TraceLevel
	case level == 0:
		return logrus.PanicLevel
	default:
		return logrus.Level(level)
	}
}

func withFields(ctx []interface{}) *logrus.Entry {
	fields := make(logrus.Fields, (len(ctx)+1)/2)
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil, errorKey, "Normalized odd number of arguments by adding nil")
	}
	for i := 0; i < len(ctx); i += 2 {
		k, ok := ctx[i].(string)
		if !ok {
			fields[errorKey] = fmt.Sprintf("%+v is not a string key", ctx[i])
			continue
		}
		v := ctx[i+1]
		if v == nil {
			v = missingValueKey
		}
		if err, isErr := v.(error); isErr {
			v = err.Error()
		}
		fields[k] = v
	}
	return logger.WithFields(fields)
}

// Trace trace
func Trace(msg string, ctx ...interface{}) {
	withFields(ctx).Trace(msg)
}

// Debug debug
func Debug(msg string, ctx ...interface{}) {
	withFields(ctx).Debug(msg)
}

// Info info
func Info(msg string, ctx ...interface{}) {
	withFields(ctx).Info(msg)
}

// Warn warn
func Warn(msg string, ctx ...interface{}) {
	withFields(ctx).Warn(msg)
}

// Error error
func Error(msg string, ctx ...interface{}) {
	withFields(ctx).Error(msg)
}

// Fatal fatal
func Fatal(msg string, ctx ...interface{}) {
	withFields(ctx).Fatal(msg)
}

// Infof infof
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warnf warnf
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Errorf errorf
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Fatalf fatalf
func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// Printf printf
func Printf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

// Println println
func Println(args ...interface{}) {
	logger.Println(args...)
}

// GetLogFuncOr returns f1 if cond is true, otherwise returns f2
func GetLogFuncOr(cond bool, f1, f2 LogFunc) LogFunc {
	if cond {
		return f1
	}
	return f2
}
