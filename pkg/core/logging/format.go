// File: format.go
// Title: Log Formatters
// Description: Renders log entries as human-readable text or JSON lines.
//              Field keys are sorted so output is stable for tests and for
//              line-based tooling.
// Version: v0.1.0
// Created: 2025-08-26

package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format selects an output encoding
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat maps a configuration string onto a format, defaulting to text
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Entry is one log record handed to a formatter
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Logger    string    `json:"logger,omitempty"`
	Message   string    `json:"message"`
	Fields    Fields    `json:"fields,omitempty"`
}

// Formatter renders one entry as a complete output line
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

func getFormatter(format Format) Formatter {
	if format == FormatJSON {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// JSONFormatter renders entries as single-line JSON objects
type JSONFormatter struct{}

// Format implements Formatter
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// TextFormatter renders entries as "time level [logger] message k=v ..."
type TextFormatter struct{}

// Format implements Formatter
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(entry.Level)
	if entry.Logger != "" {
		fmt.Fprintf(&b, " [%s]", entry.Logger)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
