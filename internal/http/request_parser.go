// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing HTTP request data into the
// raw form values the calculator works on.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"valuation/internal/core"
)

// Form field names shared by the page, the parser and the normalize endpoint.
const (
	FieldDate        = "date"
	FieldRevenue     = "revenue"
	FieldInvestment  = "investment"
	FieldCash        = "cash"
	FieldFixedAssets = "fixed_assets"
)

// maxFieldLength bounds a single typed value, in characters. Longer values
// are rejected as invalid input, never shortened.
const maxFieldLength = 64

// ParseValuationForm extracts the calculator inputs from form values
// without interpreting them. Numbers stay in their typed pt-BR form.
// A value longer than maxFieldLength fails with core.ErrInvalidInput; the
// returned inputs still carry every value as typed.
func ParseValuationForm(form url.Values) (core.RawInputs, error) {
	raw := core.RawInputs{
		Date:        formValue(form, FieldDate),
		Revenue:     formValue(form, FieldRevenue),
		Investment:  formValue(form, FieldInvestment),
		Cash:        formValue(form, FieldCash),
		FixedAssets: formValue(form, FieldFixedAssets),
	}
	fields := []struct{ name, value string }{
		{FieldDate, raw.Date},
		{FieldRevenue, raw.Revenue},
		{FieldInvestment, raw.Investment},
		{FieldCash, raw.Cash},
		{FieldFixedAssets, raw.FixedAssets},
	}
	for _, f := range fields {
		if err := checkFieldLength(f.name, f.value); err != nil {
			return raw, err
		}
	}
	return raw, nil
}

func formValue(form url.Values, key string) string {
	return sanitizeInput(form.Get(key))
}

func checkFieldLength(name, value string) error {
	if n := utf8.RuneCountInString(value); n > maxFieldLength {
		return fmt.Errorf("%w: %s has %d characters, limit is %d",
			core.ErrInvalidInput, name, n, maxFieldLength)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de requisição inválido.")
	}
	return nil
}
