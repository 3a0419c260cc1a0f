package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Fields  map[string]any
	// Raw is the original line, set when it was not JSON.
	Raw string
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	return tail(path, maxLines, func(line string) (string, bool) { return line, true })
}

// ReadEntries returns at most maxLines parsed entries at or above minLevel
// from the end of the file at path. Lines that are not JSON are kept as Raw
// entries at NoLevel and only pass a filter of zerolog.TraceLevel or lower.
func ReadEntries(path string, maxLines int, minLevel zerolog.Level) ([]Entry, error) {
	return tail(path, maxLines, func(line string) (Entry, bool) {
		e := Parse(line)
		if e.Raw != "" {
			return e, minLevel <= zerolog.TraceLevel
		}
		return e, e.Level >= minLevel
	})
}

// Parse decodes a zerolog JSON line.
func Parse(line string) Entry {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{Level: zerolog.NoLevel, Raw: line}
	}
	e := Entry{Level: zerolog.NoLevel}
	if v, ok := fields[zerolog.LevelFieldName].(string); ok {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			e.Level = lvl
		}
	}
	if v, ok := fields[zerolog.MessageFieldName].(string); ok {
		e.Message = v
	}
	if v, ok := fields[zerolog.TimestampFieldName].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			e.Time = ts
		}
	}
	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.MessageFieldName)
	delete(fields, zerolog.TimestampFieldName)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

// Format renders e as "15:04:05 INF message key=value ...", fields sorted.
func Format(e Entry) string {
	if e.Raw != "" {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(levelTag(e.Level))
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

func levelTag(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return "TRC"
	case zerolog.DebugLevel:
		return "DBG"
	case zerolog.InfoLevel:
		return "INF"
	case zerolog.WarnLevel:
		return "WRN"
	case zerolog.ErrorLevel:
		return "ERR"
	case zerolog.FatalLevel:
		return "FTL"
	case zerolog.PanicLevel:
		return "PNC"
	default:
		return "???"
	}
}

// tail scans path once and keeps the last maxLines values accepted by keep.
func tail[T any](path string, maxLines int, keep func(string) (T, bool)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var all []T
	var ring []T
	if maxLines > 0 {
		ring = make([]T, maxLines)
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		v, ok := keep(scanner.Text())
		if !ok {
			continue
		}
		if maxLines <= 0 {
			all = append(all, v)
			continue
		}
		ring[idx] = v
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines <= 0 {
		return all, nil
	}

	lines := make([]T, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
