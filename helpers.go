package petkit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const previewLimit = 200

// truncatePreview renders a response body snippet for error messages and
// debug logs without dumping entire payloads.
func truncatePreview(body []byte) string {
	s := string(body)
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit] + "..."
}

// capitalize upper-cases the first rune of s, leaving the rest untouched.
// Device names arrive lower-cased from the wire normalization.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// calculateDuration returns end-start in seconds, or 0 when either bound is
// missing or the interval is negative.
func calculateDuration(start, end *int64) int64 {
	if start == nil || end == nil {
		return 0
	}
	d := *end - *start
	if d < 0 {
		return 0
	}
	return d
}

// safeInt dereferences p, returning 0 when nil.
func safeInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// ptrInt64, ptrInt, ptrString and ptrFloat64 are shorthand for taking the
// address of a literal.
func ptrInt64(v int64) *int64       { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }
func ptrFloat64(v float64) *float64 { return &v }

// normalizeDeviceType lower-cases and trims a device type tag.
func normalizeDeviceType(deviceType string) string {
	return strings.ToLower(strings.TrimSpace(deviceType))
}
