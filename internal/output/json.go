package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// encode writes v as indented JSON. Titles and descriptions are user text,
// so <, > and & are left unescaped.
func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// JSON writes data to w as indented JSON.
func JSON(w io.Writer, data any) error {
	if err := encode(w, data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the envelope printed for failed commands in JSON mode.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes the error envelope to w. Write failures are ignored; the
// process is about to exit with a non-zero status anyway.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = encode(w, ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult is the per-id outcome of a multi-id command.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}
