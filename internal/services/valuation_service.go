package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"valuation/internal/core"
)

// HistoryStore is the persisted history the service records into.
type HistoryStore interface {
	Records() core.History
	Record(ctx context.Context, date core.Date, value decimal.Decimal) (core.History, error)
	Clear(ctx context.Context) (int, string, error)
	Ping(ctx context.Context) error
}

// Calculation is the outcome of one accepted valuation request.
type Calculation struct {
	Inputs  core.Inputs
	Value   decimal.Decimal
	History core.History
}

// ValuationService turns form input into recorded valuations.
type ValuationService struct {
	history HistoryStore
}

func NewValuationService(history HistoryStore) *ValuationService {
	return &ValuationService{history: history}
}

// Calculate parses and validates raw, computes the valuation and records it
// for its month. Rejected input returns an error wrapping
// core.ErrInvalidInput and leaves the history untouched.
func (s *ValuationService) Calculate(ctx context.Context, raw core.RawInputs) (Calculation, error) {
	in := core.ParseInputs(raw)
	value, err := core.Evaluate(in)
	if err != nil {
		return Calculation{Inputs: in}, err
	}

	history, err := s.history.Record(ctx, in.Date, value)
	if err != nil {
		return Calculation{Inputs: in, Value: value}, fmt.Errorf("record valuation: %w", err)
	}
	return Calculation{Inputs: in, Value: value, History: history}, nil
}

// Clear empties the history and returns how many records were dropped along
// with the confirmation message.
func (s *ValuationService) Clear(ctx context.Context) (int, string, error) {
	dropped, msg, err := s.history.Clear(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("clear history: %w", err)
	}
	return dropped, msg, nil
}

// History returns a copy of the recorded valuations in insertion order.
func (s *ValuationService) History() core.History {
	return s.history.Records()
}

func (s *ValuationService) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}
