package tui

import (
	"encoding/json"
	"errors"
	"io"
)

// JSONOutput writes one JSON object per message, for scripts and pipes.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs {"type":"success","message":"..."}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs {"type":"error",...} with the wrapped cause in details and
// the suggestion of an ActionableError.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error", Message: err.Error()}

	var ae *ActionableError
	if errors.As(err, &ae) {
		out.Message = ae.Error()
		out.Suggestion = ae.Suggestion
		if ae.Cause != nil {
			out.Details = ae.Cause.Error()
		}
	} else if wrapped := errors.Unwrap(err); wrapped != nil {
		out.Details = wrapped.Error()
	}

	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(out)
}

// Warning outputs {"type":"warning","message":"..."}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":"..."}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Table outputs an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(result)
}

// JSON outputs v.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}
