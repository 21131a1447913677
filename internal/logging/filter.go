// Package logging keeps credentials out of agenda's logs.
//
// agenda reads an OpenAI-compatible API key from the environment and talks to
// the model over HTTP, so keys and bearer tokens can surface in error strings
// returned by the transport. FilteringWriter wraps the log file writer and
// redacts them before anything reaches disk.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // compiled once
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI keys, including project and service-account keys (sk-proj-..., sk-svcacct-...)
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),

	// Bearer tokens in Authorization headers or error text
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/=-]{16,}`),

	// key=value and key: value pairs for API keys, including OPENAI_API_KEY=...
	regexp.MustCompile(`(?i)[a-z_]*api[_-]?key\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),

	// Authorization header values without the Bearer scheme
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9._-]{16,}["']?`),

	// Generic secrets
	regexp.MustCompile(`(?i)(secret|password|token)\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),
}

//nolint:gochecknoglobals // fixed list
var sensitiveFieldNames = []string{
	"api_key",
	"apikey",
	"api-key",
	"authorization",
	"bearer",
	"password",
	"secret",
	"token",
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with RedactedValue.
func FilterSensitiveValue(value string) string {
	for _, pattern := range sensitivePatterns {
		value = pattern.ReplaceAllString(value, RedactedValue)
	}
	return value
}

// IsSensitiveFieldName reports whether a field name suggests a credential.
func IsSensitiveFieldName(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, name := range sensitiveFieldNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// SafeValue returns RedactedValue for credential-like field names and the
// filtered value otherwise.
//
// Usage:
//
//	log.Debug().Str("base_url", logging.SafeValue("base_url", cfg.BaseURL)).Msg("client ready")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// SensitiveDataHook flags log events whose message looks like it carries a
// credential. zerolog hooks cannot rewrite an event, so the actual redaction
// happens in FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter redacts sensitive data from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers never
// see a short write caused by redaction.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
