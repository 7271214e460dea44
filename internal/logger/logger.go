package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level     // Minimum log level
	FilePath   string    // Path to log file, empty for none
	MaxSize    int64     // Rotate when the file reaches this many bytes
	MaxBackups int       // Rotated files to keep
	Console    bool      // Also write to stderr
	Output     io.Writer // Extra destination, mostly for tests
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".ironfocus", "logs", "ironfocus.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
		Console:    false, // the TUI owns the terminal
	}
}

// sink is the shared output state behind a Logger and its WithFields children
type sink struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	size    int64
	writers []io.Writer
}

// Logger writes leveled entries with optional preset fields
type Logger struct {
	sink   *sink
	fields []Field
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init replaces the global logger
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	old := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}

	s := &sink{config: config}
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := s.openFile(); err != nil {
			return nil, err
		}
	}
	s.resetWriters()

	return &Logger{sink: s}, nil
}

func (s *sink) openFile() error {
	file, err := os.OpenFile(s.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	s.file = file
	s.size = info.Size()
	return nil
}

func (s *sink) resetWriters() {
	s.writers = s.writers[:0]
	if s.file != nil {
		s.writers = append(s.writers, s.file)
	}
	if s.config.Console {
		s.writers = append(s.writers, os.Stderr)
	}
	if s.config.Output != nil {
		s.writers = append(s.writers, s.config.Output)
	}
}

// rotate shifts ironfocus.log -> .1 -> .2 ... and reopens. Caller holds mu.
func (s *sink) rotate() error {
	if s.file == nil {
		return nil
	}
	s.file.Close()
	s.file = nil

	path := s.config.FilePath
	for i := s.config.MaxBackups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	if s.config.MaxBackups > 0 {
		if err := os.Rename(path, path+".1"); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else {
		_ = os.Remove(path)
	}

	if err := s.openFile(); err != nil {
		return err
	}
	s.resetWriters()
	return nil
}

func (s *sink) write(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil && s.size+int64(len(entry)) > s.config.MaxSize {
		if err := s.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	for _, w := range s.writers {
		n, _ := io.WriteString(w, entry)
		if f, ok := w.(*os.File); ok && f == s.file {
			s.size += int64(n)
		}
	}
}

// log writes a log entry
func (l *Logger) log(level Level, msg string, fields []Field) {
	if l == nil || level < l.sink.config.Level {
		return
	}

	caller := "???"
	if _, file, line, ok := runtime.Caller(3); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s",
		time.Now().Format("2006-01-02 15:04:05.000"), level, caller, msg)

	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range l.fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')

	l.sink.write(b.String())
}

// WithFields creates a child logger that adds fields to every entry
func (l *Logger) WithFields(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{sink: l.sink, fields: merged}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) { l.logAt(DEBUG, msg, fields) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) { l.logAt(INFO, msg, fields) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) { l.logAt(WARN, msg, fields) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) { l.logAt(ERROR, msg, fields) }

// logAt keeps the caller depth the same for methods and package functions
func (l *Logger) logAt(level Level, msg string, fields []Field) {
	l.log(level, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.resetWriters()
		return err
	}
	return nil
}

// Global logger functions

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) { global().logAt(DEBUG, msg, fields) }

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) { global().logAt(INFO, msg, fields) }

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) { global().logAt(WARN, msg, fields) }

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) { global().logAt(ERROR, msg, fields) }

// WithFields creates a child of the global logger, nil if none is set
func WithFields(fields ...Field) *Logger {
	return global().WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	return global().Close()
}

// GetConfig returns the current logger configuration
func GetConfig() Config {
	if l := global(); l != nil {
		return l.sink.config
	}
	return DefaultConfig()
}
