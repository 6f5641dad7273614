package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// logEntry represents a single log entry before formatting
type logEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
}

// formatConsole renders a human-readable line:
//
//	2024-01-02T15:04:05Z INFO  message key=value
func formatConsole(entry *logEntry, config *Config) ([]byte, error) {
	var builder strings.Builder

	builder.WriteString(entry.Timestamp.Format(config.TimeFormat))
	builder.WriteString(" ")
	builder.WriteString(fmt.Sprintf("%-5s", entry.Level.String()))
	builder.WriteString(" ")
	builder.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			builder.WriteString(fmt.Sprintf(" %s=%v", k, entry.Fields[k]))
		}
	}

	builder.WriteString("\n")
	return []byte(builder.String()), nil
}

// formatJSON renders one JSON object per line, suitable for CloudWatch.
func formatJSON(entry *logEntry, config *Config) ([]byte, error) {
	payload := make(map[string]interface{}, len(entry.Fields)+3)
	payload["timestamp"] = entry.Timestamp.Format(config.TimeFormat)
	payload["level"] = entry.Level.String()
	payload["message"] = entry.Message

	for k, v := range entry.Fields {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
