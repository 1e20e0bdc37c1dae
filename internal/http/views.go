package http

import (
	"bytes"
	"errors"
	"net/http"

	"valuation/internal/core"
)

var errTemplatesNotLoaded = errors.New("templates not loaded")

type fieldView struct {
	Name  string
	Label string
	Value string
}

type historyLine struct {
	Date  string
	Value string
}

// pageView feeds index.html and the "outcome" and "message" partials.
type pageView struct {
	Date        string
	Fields      []fieldView
	Message     string
	MessageKind MessageKind
	Valuation   string
	History     []historyLine
}

// numericFields lists the normalizable inputs in page order.
var numericFields = []fieldView{
	{Name: FieldRevenue, Label: "Faturamento do Semestre (R$)"},
	{Name: FieldInvestment, Label: "Investimentos Recebidos (R$)"},
	{Name: FieldCash, Label: "Caixa Disponível (R$)"},
	{Name: FieldFixedAssets, Label: "Imobilizado (R$)"},
}

func lookupField(name string) (fieldView, bool) {
	for _, f := range numericFields {
		if f.Name == name {
			return f, true
		}
	}
	return fieldView{}, false
}

// newPageView prefills the form with raw and lists the current history.
func newPageView(raw core.RawInputs, h core.History) pageView {
	values := map[string]string{
		FieldRevenue:     raw.Revenue,
		FieldInvestment:  raw.Investment,
		FieldCash:        raw.Cash,
		FieldFixedAssets: raw.FixedAssets,
	}
	fields := make([]fieldView, len(numericFields))
	for i, f := range numericFields {
		f.Value = values[f.Name]
		fields[i] = f
	}
	return pageView{
		Date:    raw.Date,
		Fields:  fields,
		History: historyLines(h),
	}
}

func historyLines(h core.History) []historyLine {
	lines := make([]historyLine, 0, len(h))
	for _, rec := range h {
		lines = append(lines, historyLine{
			Date:  rec.Date.String(),
			Value: core.FormatBRL(rec.Value),
		})
	}
	return lines
}

// renderFragment executes a named template into a string so that the
// status code and headers can still be chosen after rendering.
func (s *Server) renderFragment(name string, data any) (string, error) {
	if s.templates == nil {
		return "", errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	html, err := s.renderFragment("index.html", view)
	if err != nil {
		s.logTemplateError(r, "index.html", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	NewHTMXResponse().Status(status).BodyHTML(html).Write(w)
}
