package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// ExtractJSON returns the JSON document embedded in a model reply. Models
// sometimes wrap the document in a markdown fence or add sentences around it;
// both are stripped. The first brace or bracket that opens a JSON value is
// decoded and only that value is returned, so trailing prose is ignored even
// when it contains braces. Openers that cannot start JSON, like "[draft]",
// are skipped. When nothing decodes, the trimmed reply is returned unchanged.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	for offset := 0; offset < len(s); {
		i := strings.IndexAny(s[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i
		if !opensJSON(s[start:]) {
			offset = start + 1
			continue
		}
		var doc json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[start:])).Decode(&doc); err != nil {
			// A broken document must not yield one of its nested values.
			return s
		}
		return string(doc)
	}
	return s
}

// opensJSON reports whether s, which starts with '{' or '[', continues the
// way a JSON object or array would.
func opensJSON(s string) bool {
	rest := strings.TrimLeft(s[1:], " \t\r\n")
	if rest == "" {
		return false
	}
	c := rest[0]
	if s[0] == '{' {
		return c == '"' || c == '}'
	}
	return strings.IndexByte(`"{[]-0123456789tfn`, c) >= 0
}

// DecodeJSON extracts and decodes the JSON document in raw into v.
// Decoding failures wrap errors.ErrMalformedResponse.
func DecodeJSON(raw string, v any) error {
	doc := ExtractJSON(raw)
	if doc == "" {
		return fmt.Errorf("%w: empty response", agendaerrors.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("%w: %w", agendaerrors.ErrMalformedResponse, err)
	}
	return nil
}
