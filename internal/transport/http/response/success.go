package response

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps every successful payload, so clients always unwrap
// the same {"data": ...} shape.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes v as JSON with the given status code, defaulting the
// Content-Type when the handler has not set one.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes 200 with the data envelope.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

// Created writes 201 with the data envelope.
func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}

// NoContent writes 204 with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
