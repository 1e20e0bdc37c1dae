package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"valuation/internal/core"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyString("test").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger should be unset without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerValuationCalculated("2024-03", "4500").
		TriggerHistoryChanged(3).
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"valuation:calculated"`,
		`"history:changed"`,
		`"month":"2024-03"`,
		`"value":"4500"`,
		`"records":3`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestMessageResponse(t *testing.T) {
	w := httptest.NewRecorder()

	MessageResponse(http.StatusOK, MessageSuccess, "Histórico apagado com sucesso.").Write(w)

	if got := w.Header().Get("HX-Retarget"); got != "#message" {
		t.Errorf("HX-Retarget = %q, want #message", got)
	}
	if got := w.Header().Get("HX-Reswap"); got != "innerHTML" {
		t.Errorf("HX-Reswap = %q, want innerHTML", got)
	}
	if !strings.Contains(w.Body.String(), `class="message message-success"`) {
		t.Errorf("Body missing success class: %s", w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
	}{
		{"BadRequest", BadRequestError("bad"), http.StatusBadRequest},
		{"UnprocessableEntity", UnprocessableEntityError("invalid"), http.StatusUnprocessableEntity},
		{"InternalServer", InternalServerError("oops"), http.StatusInternalServerError},
		{"NotFound", NotFoundError("missing"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), "message-error") {
				t.Errorf("Body missing error class: %s", w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
				t.Errorf("Content-Type = %q, want text/html", ct)
			}
		})
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, "<script>alert('xss')</script>").Write(w)

	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("Body should not contain unescaped script tag: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("Body should contain escaped script tag: %s", body)
	}
}

func TestSanitizeAndParseValuationForm(t *testing.T) {
	form := map[string][]string{
		FieldDate:    {" 2024-03-25 "},
		FieldRevenue: {"1.000,00\x00"},
		FieldCash:    {strings.Repeat("9", maxFieldLength)},
	}
	raw, err := ParseValuationForm(form)
	if err != nil {
		t.Fatalf("ParseValuationForm: %v", err)
	}

	if raw.Date != "2024-03-25" {
		t.Errorf("Date = %q", raw.Date)
	}
	if raw.Revenue != "1.000,00" {
		t.Errorf("Revenue = %q", raw.Revenue)
	}
	if len(raw.Cash) != maxFieldLength {
		t.Errorf("Cash length = %d, want %d", len(raw.Cash), maxFieldLength)
	}
	if raw.Investment != "" || raw.FixedAssets != "" {
		t.Errorf("absent fields should be empty: %+v", raw)
	}
}

func TestParseValuationForm_RejectsOverlongFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"long revenue", FieldRevenue, strings.Repeat("9", 71)},
		{"one past the limit", FieldCash, strings.Repeat("1", maxFieldLength+1)},
		{"multibyte tail", FieldInvestment, strings.Repeat("1", 63) + "éé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseValuationForm(map[string][]string{tt.field: {tt.value}})
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			got := raw.Revenue + raw.Investment + raw.Cash
			if got != tt.value {
				t.Errorf("value = %q, want it unchanged", got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("value is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestParseValuationForm_CountsCharactersNotBytes(t *testing.T) {
	value := strings.Repeat("é", maxFieldLength)
	if _, err := ParseValuationForm(map[string][]string{FieldCash: {value}}); err != nil {
		t.Errorf("%d two-byte characters rejected: %v", maxFieldLength, err)
	}
}
