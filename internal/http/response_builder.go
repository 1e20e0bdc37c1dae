// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// response formatting.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMX event names emitted by the handlers.
const (
	EventValuationCalculated = "valuation:calculated"
	EventHistoryChanged      = "history:changed"
)

// MessageKind selects how a status message is styled.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerValuationCalculated adds the valuation:calculated trigger.
func (b *HTMXResponseBuilder) TriggerValuationCalculated(month, value string) *HTMXResponseBuilder {
	return b.Trigger(EventValuationCalculated, map[string]string{"month": month, "value": value})
}

// TriggerHistoryChanged adds the history:changed trigger; the history
// section listens for it and reloads itself.
func (b *HTMXResponseBuilder) TriggerHistoryChanged(records int) *HTMXResponseBuilder {
	return b.Trigger(EventHistoryChanged, map[string]int{"records": records})
}

// Retarget swaps the body into selector instead of the element's hx-target.
func (b *HTMXResponseBuilder) Retarget(selector string) *HTMXResponseBuilder {
	return b.Header("HX-Retarget", selector).Header("HX-Reswap", "innerHTML")
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyString sets the response body as a string.
func (b *HTMXResponseBuilder) BodyString(content string) *HTMXResponseBuilder {
	b.body = []byte(content)
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// messageHTML renders a status line the same way the "message" partial does.
func messageHTML(kind MessageKind, message string) string {
	return `<p class="message message-` + string(kind) + `" role="status">` +
		template.HTMLEscapeString(message) + `</p>`
}

// MessageResponse creates a status-message fragment aimed at the #message area.
func MessageResponse(statusCode int, kind MessageKind, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		Retarget("#message").
		BodyHTML(messageHTML(kind, message))
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return MessageResponse(statusCode, MessageError, message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
