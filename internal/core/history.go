package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// History is the ordered list of computed valuations, holding at most one
// record per calendar month.
type History []ValuationRecord

// RecordValuation drops the record of the date's month, if any, and appends
// the new record at the end. The order of the other records is preserved and
// h is left untouched.
func RecordValuation(h History, date Date, value decimal.Decimal) History {
	key := date.MonthKey()
	out := make(History, 0, len(h)+1)
	for _, r := range h {
		if r.Date.MonthKey() == key {
			continue
		}
		out = append(out, r)
	}
	return append(out, ValuationRecord{Date: date, Value: value})
}

// ClearHistory discards every record.
func ClearHistory() (History, string) {
	return History{}, HistoryClearedMessage
}

// Months returns the month keys in history order.
func (h History) Months() []string {
	out := make([]string, len(h))
	for i, r := range h {
		out[i] = r.Date.MonthKey()
	}
	return out
}

// Equal compares two histories record by record.
func (h History) Equal(o History) bool {
	if len(h) != len(o) {
		return false
	}
	for i := range h {
		if !h[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy that can be handed out safely.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

type recordJSON struct {
	Date  string      `json:"date"`
	Value json.Number `json:"value"`
}

// wireRecord also accepts the keys written by the browser version of the form.
type wireRecord struct {
	Date  string      `json:"date"`
	Value json.Number `json:"value"`
	Data  string      `json:"data"`
	Valor json.Number `json:"valor"`
}

// MarshalHistory serializes the whole history as a JSON array of
// {"date":"YYYY-MM-DD","value":n} objects.
func MarshalHistory(h History) ([]byte, error) {
	out := make([]recordJSON, len(h))
	for i, r := range h {
		out[i] = recordJSON{Date: r.Date.String(), Value: json.Number(r.Value.String())}
	}
	return json.Marshal(out)
}

// UnmarshalHistory decodes what MarshalHistory produced. Any malformed record
// fails the whole decode.
func UnmarshalHistory(data []byte) (History, error) {
	var raw []wireRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	h := make(History, 0, len(raw))
	for i, w := range raw {
		dateStr, valueStr := w.Date, w.Value.String()
		if dateStr == "" {
			dateStr = w.Data
		}
		if valueStr == "" {
			valueStr = w.Valor.String()
		}
		date, err := ParseDate(dateStr)
		if err != nil || date.IsEmpty() {
			return nil, fmt.Errorf("decode history record %d: %w", i, ErrInvalidDate)
		}
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("decode history record %d: %w", i, err)
		}
		h = append(h, ValuationRecord{Date: date, Value: value})
	}
	return h, nil
}
