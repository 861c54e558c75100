// iojson are utilities for reading and writing JSON IO from a
// command line and HTTP perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Error is the standard error format type that is returned when errors
// happen, both on stderr and in HTTP error bodies.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError creates an Error and marshals it. If marshalling fails, a
// manually constructed JSON blob with the message and the marshal error is
// returned instead; that indicates a bug in the caller's data.
func MarshalError(msg string, data map[string]any) string {
	resp := Error{Message: msg, Data: data}

	bits, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteError writes an Error to stderr.
func WriteError(str string, data map[string]any) error {
	errstr := MarshalError(str, data)

	_, err := fmt.Fprintln(os.Stderr, errstr)
	return err
}

// WriteHTTPError writes an Error body with the given status code.
func WriteHTTPError(w http.ResponseWriter, status int, msg string, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, MarshalError(msg, data))
}

// WriteWith writes obj as indented JSON to w, reporting marshal failures on ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.WriteWith", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
