package textutil

import "strings"

// Truncate returns s unchanged if len(s) <= maxLen (measured in bytes).
// Otherwise it cuts at maxLen, walks back to avoid splitting a multi-byte
// UTF-8 sequence, and appends suffix.
func Truncate(s string, maxLen int, suffix string) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && s[cut]>>6 == 0b10 {
		cut--
	}
	return s[:cut] + suffix
}

// Excerpt flattens s onto a single line, collapsing runs of whitespace to
// single spaces, and truncates the result to maxLen bytes. Used to embed a
// bounded sample of raw service output in error messages.
func Excerpt(s string, maxLen int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), maxLen, "...")
}
