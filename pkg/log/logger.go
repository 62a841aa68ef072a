package log

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Create a named logger whose messages all start with "[prefix] ".
func NewWithPrefix(name, prefix string) Logger {
	return &prefixLogger{Logger: logging.MustGetLogger(name), prefix: "[" + prefix + "] "}
}

// Override the backend output sink. The current level is preserved.
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}

	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// Set logger verbosity.
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	}

	leveledBackend.SetLevel(loggerLevel, "")
}

type prefixLogger struct {
	*logging.Logger
	prefix string
}

func (l *prefixLogger) Debug(v ...interface{}) { l.Logger.Debug(l.prefix + fmt.Sprint(v...)) }
func (l *prefixLogger) Debugf(format string, v ...interface{}) {
	l.Logger.Debugf(l.prefix+format, v...)
}
func (l *prefixLogger) Notice(v ...interface{}) { l.Logger.Notice(l.prefix + fmt.Sprint(v...)) }
func (l *prefixLogger) Noticef(format string, v ...interface{}) {
	l.Logger.Noticef(l.prefix+format, v...)
}
func (l *prefixLogger) Info(v ...interface{}) { l.Logger.Info(l.prefix + fmt.Sprint(v...)) }
func (l *prefixLogger) Infof(format string, v ...interface{}) {
	l.Logger.Infof(l.prefix+format, v...)
}
func (l *prefixLogger) Warning(v ...interface{}) { l.Logger.Warning(l.prefix + fmt.Sprint(v...)) }
func (l *prefixLogger) Warningf(format string, v ...interface{}) {
	l.Logger.Warningf(l.prefix+format, v...)
}
func (l *prefixLogger) Error(v ...interface{}) { l.Logger.Error(l.prefix + fmt.Sprint(v...)) }
func (l *prefixLogger) Errorf(format string, v ...interface{}) {
	l.Logger.Errorf(l.prefix+format, v...)
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
