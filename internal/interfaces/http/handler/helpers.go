package handler

import (
	"strconv"
	"strings"
)

// parseLeadingInt reads the optional sign and decimal digits at the start
// of s, ignoring leading whitespace and any trailing text. ok is false when
// no digit is found or the number overflows.
func parseLeadingInt(s string) (n int64, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitIDs splits a comma-separated id list, dropping blanks. It returns nil
// when nothing remains so the platform call is unscoped.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
