// Package apiresp writes the JSON envelope every endpoint answers with.
//
// Success:
//
//	{ "success": true, ...payload }
//
// Failure:
//
//	{ "success": false, "message": "Offer not found.", "error": "not_found" }
//
// The error code is a stable, opaque string for clients to branch on. It
// never carries driver messages or stack detail.
package apiresp

import (
	"encoding/json"
	"net/http"
)

// Error codes.
const (
	CodeValidation   = "validation_failed"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeInvalidState = "invalid_state"
	CodeRateLimited  = "rate_limited"
	CodeInternal     = "internal_error"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 success envelope. payload keys are merged next to
// "success"; a nil payload yields just {"success":true}.
func OK(w http.ResponseWriter, payload map[string]any) {
	Status(w, http.StatusOK, payload)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, payload map[string]any) {
	Status(w, http.StatusCreated, payload)
}

// Status writes a success envelope with an explicit status.
func Status(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	JSON(w, status, body)
}

// Fail writes a failure envelope.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"message": message,
		"error":   code,
	})
}
