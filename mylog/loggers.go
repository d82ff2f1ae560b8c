package mylog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// const
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
	TraceLevel = "trace"
)

const (
	sLogFileName      = "guard.log"
	sTimestampFormat  = "2006-01-02 15:04:05"
	sRotationInterval = 24 * time.Hour
)

type MyLog struct {
	Logger *logrus.Logger
}

func (l *MyLog) GetLog() *logrus.Logger {
	return l.Logger
}

type emptyWriter struct{}

func (ew emptyWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	case TraceLevel:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

func NewMyLog(path string, level string, age uint32) (*MyLog, error) {
	clog, err := Init(path, level, age)
	if err != nil {
		return nil, err
	}
	return &MyLog{Logger: clog}, nil
}

// Init creates a logger printing to stdout.
// If path is not empty, logs are also written to files under path, rotated daily and kept for age hours.
func Init(path string, level string, age uint32) (*logrus.Logger, error) {
	clog := logrus.New()
	clog.Out = os.Stdout
	clog.Formatter = &logrus.TextFormatter{
		TimestampFormat: sTimestampFormat,
		FullTimestamp:   true,
	}
	clog.Level = convertLevel(level)

	if len(path) > 0 {
		hook, err := NewFileRotateHooker(path, age)
		if err != nil {
			return nil, err
		}
		clog.Hooks.Add(hook)
	}
	return clog, nil
}

// NewFileRotateHooker returns a hook writing all levels to rotating files in path.
func NewFileRotateHooker(path string, age uint32) (logrus.Hook, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	if age == 0 {
		age = 24 * 7
	}
	fileName := filepath.Join(path, sLogFileName)
	writer, err := rotatelogs.New(
		fileName+".%Y%m%d",
		rotatelogs.WithLinkName(fileName),
		rotatelogs.WithMaxAge(time.Duration(age)*time.Hour),
		rotatelogs.WithRotationTime(sRotationInterval),
	)
	if err != nil {
		return nil, err
	}
	return lfshook.NewHook(
		lfshook.WriterMap{
			logrus.PanicLevel: writer,
			logrus.FatalLevel: writer,
			logrus.ErrorLevel: writer,
			logrus.WarnLevel:  writer,
			logrus.InfoLevel:  writer,
			logrus.DebugLevel: writer,
			logrus.TraceLevel: writer,
		},
		&logrus.JSONFormatter{TimestampFormat: sTimestampFormat},
	), nil
}

// Discard returns a logger dropping everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(emptyWriter{})
	return l
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
