package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// viewLogSink turns zerolog JSON lines into terminal view log entries
type viewLogSink struct {
	log func(level, format string, args ...interface{})
}

func newViewLogSink(log func(level, format string, args ...interface{})) *viewLogSink {
	return &viewLogSink{log: log}
}

func (s *viewLogSink) Write(p []byte) (int, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		s.log("INFO", "%s", strings.TrimSpace(string(p)))
		return len(p), nil
	}

	level := strings.ToUpper(fmt.Sprint(entry["level"]))
	message, _ := entry["message"].(string)

	keys := make([]string, 0, len(entry))
	for k := range entry {
		switch k {
		case "level", "time", "message", "app":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry[k])
	}
	s.log(level, "%s", b.String())
	return len(p), nil
}
