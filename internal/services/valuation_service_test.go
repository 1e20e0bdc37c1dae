package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuation/internal/core"
)

type fakeHistory struct {
	records     core.History
	recordErr   error
	clearErr    error
	recordCalls int
}

func (f *fakeHistory) Records() core.History { return f.records.Clone() }

func (f *fakeHistory) Record(_ context.Context, date core.Date, value decimal.Decimal) (core.History, error) {
	f.recordCalls++
	if f.recordErr != nil {
		return f.records.Clone(), f.recordErr
	}
	f.records = core.RecordValuation(f.records, date, value)
	return f.records.Clone(), nil
}

func (f *fakeHistory) Clear(context.Context) (int, string, error) {
	if f.clearErr != nil {
		return 0, "", f.clearErr
	}
	n := len(f.records)
	f.records, _ = core.ClearHistory()
	return n, core.HistoryClearedMessage, nil
}

func (f *fakeHistory) Ping(context.Context) error { return nil }

func TestCalculateRecordsValuation(t *testing.T) {
	h := &fakeHistory{}
	svc := NewValuationService(h)

	calc, err := svc.Calculate(context.Background(), core.RawInputs{
		Date:        "2024-03-25",
		Revenue:     "1.000",
		Investment:  "200",
		Cash:        "",
		FixedAssets: "50,5",
	})
	require.NoError(t, err)

	assert.True(t, calc.Value.Equal(decimal.RequireFromString("4750.5")), calc.Value.String())
	assert.Equal(t, "2024-03", calc.Inputs.Date.MonthKey())
	require.Len(t, calc.History, 1)
	assert.Equal(t, 1, h.recordCalls)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	h := &fakeHistory{}
	svc := NewValuationService(h)

	_, err := svc.Calculate(context.Background(), core.RawInputs{Date: "2024-03-25", Revenue: "0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
	assert.Zero(t, h.recordCalls)
	assert.Empty(t, svc.History())
}

func TestCalculateWrapsStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewValuationService(&fakeHistory{recordErr: boom})

	_, err := svc.Calculate(context.Background(), core.RawInputs{Date: "2024-03-25", Revenue: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, core.ErrInvalidInput))
}

func TestClear(t *testing.T) {
	h := &fakeHistory{}
	svc := NewValuationService(h)
	_, err := svc.Calculate(context.Background(), core.RawInputs{Date: "2024-03-25", Revenue: "1"})
	require.NoError(t, err)

	dropped, msg, err := svc.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, core.HistoryClearedMessage, msg)
	assert.Empty(t, svc.History())

	h.clearErr = errors.New("locked")
	_, _, err = svc.Clear(context.Background())
	assert.ErrorIs(t, err, h.clearErr)
}
