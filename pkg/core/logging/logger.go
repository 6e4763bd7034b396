// File: logger.go
// Title: Structured Logger
// Description: Implements the structured, leveled logger used by all goscpi
//              components. Loggers carry a name and persistent context fields
//              and are safe for concurrent use.
// Version: v0.1.0
// Created: 2025-08-26

package logging

import (
	"io"
	"os"
	"sync"
	"time"
)

// Fields holds structured context attached to a log entry
type Fields map[string]interface{}

// Logger is a leveled, structured logger
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string
	fields    Fields

	mu *sync.Mutex // guards output, shared between derived loggers
}

// Config configures a logger created with NewWithConfig
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a logger with the given name and default configuration
func New(name string) *Logger {
	return NewWithConfig(Config{Level: LevelInfo, Name: name})
}

// NewWithConfig creates a logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stdout
	}
	return &Logger{
		level:     config.Level,
		formatter: getFormatter(config.Format),
		output:    output,
		name:      config.Name,
		fields:    make(Fields),
		mu:        &sync.Mutex{},
	}
}

// clone returns a shallow copy sharing the output mutex
func (l *Logger) clone() *Logger {
	fields := make(Fields, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		level:     l.level,
		formatter: l.formatter,
		output:    l.output,
		name:      l.name,
		fields:    fields,
		mu:        l.mu,
	}
}

// WithLevel returns a derived logger with the given minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithName returns a derived logger with the given name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField returns a derived logger carrying a persistent field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.fields[key] = value
	return clone
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs a message at info level
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a message at warn level
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs a message at error level
func (l *Logger) Error(msg string, fields ...Fields) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) log(level Level, msg string, fields ...Fields) {
	if level < l.level {
		return
	}

	entry := &Entry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Logger:    l.name,
		Message:   msg,
	}

	if len(l.fields) > 0 || len(fields) > 0 {
		merged := make(Fields, len(l.fields))
		for k, v := range l.fields {
			merged[k] = v
		}
		for _, extra := range fields {
			for k, v := range extra {
				merged[k] = v
			}
		}
		entry.Fields = merged
	}

	data, err := l.formatter.Format(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(data)
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide default logger
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New("goscpi")
	})
	return defaultLogger
}
