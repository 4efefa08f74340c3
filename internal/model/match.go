package model

import "time"

// Match is a single line that matched the scan pattern.
type Match struct {
	Timestamp  time.Time `json:"timestamp"` // capture time, not the log event time
	LogLine    string    `json:"log_line"`  // trimmed line text
	Source     string    `json:"-"`         // originating file path
	LineNumber int       `json:"-"`         // 1-based line within Source
}

// Lines returns the LogLine of every match, in order.
func Lines(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.LogLine
	}
	return out
}
