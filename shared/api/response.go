// shared/api/response.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// JSONErrorResponse is the body of every error the league service returns.
type JSONErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSON encodes data and writes it with the given status code. The body is encoded before
// anything is sent, so a value that cannot be encoded becomes a plain-text 500.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// WriteError writes a JSON error body carrying the status code.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, JSONErrorResponse{Message: message, Code: status})
}

func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message)
}

func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message)
}

func WriteInternalServerError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message)
}

// DecodeJSONBody decodes a request body of at most 1 MiB into dst.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}
