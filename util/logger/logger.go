package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path"
	"path/filepath"

	"github.com/op/go-logging"
)

const logFormat = "[%{level}] %{message}"

/*
InitLogger creates and returns a logger suitable for logging
human-readable message. Also returns the path to the log file.
*/
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string) {
	processName := path.Base(os.Args[0])
	filename := fmt.Sprintf("%s.log", processName)
	filename = filepath.Join(logDir, filename)
	writer, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log file '%s': %v\n", filename, err)
		os.Exit(1)
	}
	return newLogger(processName, writer, logLevel), filename
}

// InitConsoleLogger returns a logger that writes to stderr. The
// dart_profile command uses this, since it has no log directory.
func InitConsoleLogger(logLevel logging.Level) *logging.Logger {
	return newLogger(path.Base(os.Args[0]), os.Stderr, logLevel)
}

// InitWriterLogger returns a logger that writes to w. Tests use this
// to capture log output.
func InitWriterLogger(name string, w io.Writer, logLevel logging.Level) *logging.Logger {
	return newLogger(name, w, logLevel)
}

func newLogger(name string, w io.Writer, logLevel logging.Level) *logging.Logger {
	log := logging.MustGetLogger(name)
	format := logging.MustStringFormatter(logFormat)
	backend := logging.NewLogBackend(w, "", stdlog.LstdFlags|stdlog.LUTC)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logLevel, name)
	log.SetBackend(leveled)
	return log
}
