package logger

import (
	"attendance/internal/config"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level file names served by the /logs endpoints.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to rotated files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	files      map[string]*lumberjack.Logger
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{
		logDir: config.LogDirectory,
		files:  make(map[string]*lumberjack.Logger),
	}

	logger.setupLoggers(config.LogMaxSizeMB, config.LogMaxBackups, os.Stdout, os.Stderr)
	return logger, nil
}

// NewDiscard returns a Logger that drops everything. Used by tests and one-shot CLI commands.
func NewDiscard() *Logger {
	return &Logger{
		infoLog:    log.New(io.Discard, "", 0),
		warningLog: log.New(io.Discard, "", 0),
		errorLog:   log.New(io.Discard, "", 0),
		files:      make(map[string]*lumberjack.Logger),
	}
}

// setupLoggers initializes writers and per-level loggers.
func (l *Logger) setupLoggers(maxSizeMB, maxBackups int, stdout, stderr io.Writer) {
	infoFile := l.openLogFile(InfoFile, maxSizeMB, maxBackups)
	warningFile := l.openLogFile(WarningFile, maxSizeMB, maxBackups)
	errorFile := l.openLogFile(ErrorFile, maxSizeMB, maxBackups)

	infoWriter := io.MultiWriter(stdout, infoFile)
	warningWriter := io.MultiWriter(stdout, warningFile)
	errorWriter := io.MultiWriter(stderr, errorFile)

	l.infoLog = log.New(infoWriter, "ℹ️  INFO    ", log.Ldate|log.Ltime|log.Lshortfile)
	l.warningLog = log.New(warningWriter, "⚠️  WARNING ", log.Ldate|log.Ltime|log.Lshortfile)
	l.errorLog = log.New(errorWriter, "❌ ERROR   ", log.Ldate|log.Ltime|log.Lshortfile)
}

// openLogFile returns a size-rotated writer for the given level file.
func (l *Logger) openLogFile(name string, maxSizeMB, maxBackups int) *lumberjack.Logger {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(l.logDir, name),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	l.files[name] = file
	return file
}

// Dir returns the directory holding the level files.
func (l *Logger) Dir() string {
	return l.logDir
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, ok := l.files[fileName]
	if !ok {
		return fmt.Errorf("unknown log file: %s", fileName)
	}

	// Close drops the open handle so the next write reopens the truncated file.
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", fileName, err)
	}
	if err := os.Truncate(file.Filename, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("truncate %s: %w", fileName, err)
	}

	l.infoLog.Output(2, fmt.Sprintf("File %s has been cleared.", fileName))
	return nil
}

// Close releases the underlying files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, file := range l.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
