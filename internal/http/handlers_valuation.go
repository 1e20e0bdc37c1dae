package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"valuation/internal/core"
	applog "valuation/internal/log"
	"valuation/internal/services"
)

const saveFailedMessage = "Não foi possível salvar o histórico. Tente novamente."

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, newPageView(core.RawInputs{}, s.valuations.History()))
}

// handleCalculate computes a valuation and records it for its month.
// Rejected input leaves the history and the store untouched.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	raw, err := ParseValuationForm(r.PostForm)
	var calc services.Calculation
	if err == nil {
		calc, err = s.valuations.Calculate(ctx, raw)
	}
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		applog.FromContext(ctx).WithComponent(applog.ComponentValuation).InfoContext(ctx, "Valuation rejected",
			applog.FieldOperation, applog.OpCalculate,
			applog.FieldError, err)

		if isHTMX(r) {
			UnprocessableEntityError(core.InvalidInputMessage).Write(w)
			return
		}
		view := newPageView(raw, s.valuations.History())
		view.Message = core.InvalidInputMessage
		view.MessageKind = MessageError
		s.renderPage(w, r, http.StatusUnprocessableEntity, view)
		return
	case err != nil:
		date := calc.Inputs.Date
		events(r).LogError(ctx, "Failed to record valuation", err,
			applog.ComponentHistory, applog.OpSave,
			applog.NewFields().WithValuation(date.String(), date.MonthKey(), calc.Value.String()))
		InternalServerError(saveFailedMessage).Write(w)
		return
	}

	date := calc.Inputs.Date
	events(r).LogValuationRecorded(ctx, date.String(), date.MonthKey(), calc.Value.String(), len(calc.History))

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	html, err := s.renderFragment("outcome", pageView{Valuation: core.FormatBRL(calc.Value)})
	if err != nil {
		s.logTemplateError(r, "outcome", err)
		InternalServerError("Erro ao exibir o resultado.").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerValuationCalculated(date.MonthKey(), calc.Value.String()).
		TriggerHistoryChanged(len(calc.History)).
		BodyHTML(html).
		Write(w)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	discarded, message, err := s.valuations.Clear(ctx)
	if err != nil {
		events(r).LogError(ctx, "Failed to clear history", err,
			applog.ComponentHistory, applog.OpClear, nil)
		InternalServerError(saveFailedMessage).Write(w)
		return
	}
	events(r).LogHistoryCleared(ctx, discarded)

	if !isHTMX(r) {
		view := newPageView(core.RawInputs{}, nil)
		view.Message = message
		view.MessageKind = MessageSuccess
		s.renderPage(w, r, http.StatusOK, view)
		return
	}

	MessageResponse(http.StatusOK, MessageSuccess, message).
		TriggerHistoryChanged(0).
		Write(w)
}

// handleNormalize re-renders one numeric field with its value in pt-BR form.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")
	field, ok := lookupField(name)
	if !ok {
		NotFoundError("Campo desconhecido.").Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	typed := formValue(r.PostForm, name)
	if err := checkFieldLength(name, typed); err != nil {
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Field rejected",
			applog.FieldOperation, applog.OpNormalize,
			applog.FieldField, name,
			applog.FieldError, err)
		UnprocessableEntityError(core.InvalidInputMessage).Write(w)
		return
	}
	field.Value = core.FormatLocaleNumber(typed)

	applog.FromContext(r.Context()).DebugContext(r.Context(), "Field normalized",
		applog.FieldOperation, applog.OpNormalize,
		applog.FieldField, name)

	html, err := s.renderFragment("field", field)
	if err != nil {
		s.logTemplateError(r, "field", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

func (s *Server) handleHistoryPartial(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderFragment("history", historyLines(s.valuations.History()))
	if err != nil {
		s.logTemplateError(r, "history", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// seriesPoint is one point of the valuation chart.
type seriesPoint struct {
	Month string      `json:"month"`
	Date  string      `json:"date"`
	Value json.Number `json:"value"`
}

func (s *Server) handleHistorySeries(w http.ResponseWriter, r *http.Request) {
	records := s.valuations.History()
	months := records.Months()
	points := make([]seriesPoint, len(records))
	for i, rec := range records {
		points[i] = seriesPoint{
			Month: months[i],
			Date:  rec.Date.String(),
			Value: json.Number(rec.Value.String()),
		}
	}
	writeJSON(w, http.StatusOK, points)
}
