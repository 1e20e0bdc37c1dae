package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User-facing messages, kept in the language of the original form.
const (
	InvalidInputMessage   = "Por favor, insira valores válidos para todos os campos, incluindo a data."
	HistoryClearedMessage = "Histórico apagado com sucesso."
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type (
	Date struct {
		time.Time
	}

	// RawInputs holds the form fields exactly as typed.
	RawInputs struct {
		Date        string
		Revenue     string
		Investment  string
		Cash        string
		FixedAssets string
	}

	// Inputs are the parsed figures of one valuation request.
	Inputs struct {
		Date        Date
		Revenue     decimal.Decimal // semester revenue
		Investment  decimal.Decimal
		Cash        decimal.Decimal
		FixedAssets decimal.Decimal
	}

	// ValuationRecord is one computed valuation. Treat it as immutable.
	ValuationRecord struct {
		Date  Date
		Value decimal.Decimal
	}
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date
// without error; the caller decides whether an absent date is acceptable.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MonthKey returns the YYYY-MM prefix identifying the calendar month.
func (d Date) MonthKey() string {
	return d.Format(monthLayout)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// ParseInputs converts raw form text into Inputs. It never fails: numbers
// follow ParseLocaleNumber and a malformed date is treated as absent, so
// Validate reports both cases as ErrInvalidInput.
func ParseInputs(raw RawInputs) Inputs {
	date, err := ParseDate(raw.Date)
	if err != nil {
		date = Date{}
	}
	return Inputs{
		Date:        date,
		Revenue:     ParseLocaleNumber(raw.Revenue),
		Investment:  ParseLocaleNumber(raw.Investment),
		Cash:        ParseLocaleNumber(raw.Cash),
		FixedAssets: ParseLocaleNumber(raw.FixedAssets),
	}
}

// Validate rejects a non-positive revenue, any negative balance figure and an
// absent date. Investment, cash and fixed assets may be zero.
func (in Inputs) Validate() error {
	if !in.Revenue.IsPositive() {
		return fmt.Errorf("%w: revenue must be greater than zero", ErrInvalidInput)
	}
	if in.Investment.IsNegative() {
		return fmt.Errorf("%w: investment cannot be negative", ErrInvalidInput)
	}
	if in.Cash.IsNegative() {
		return fmt.Errorf("%w: cash cannot be negative", ErrInvalidInput)
	}
	if in.FixedAssets.IsNegative() {
		return fmt.Errorf("%w: fixed assets cannot be negative", ErrInvalidInput)
	}
	if in.Date.IsEmpty() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// Equal reports whether both records hold the same date and magnitude.
func (r ValuationRecord) Equal(o ValuationRecord) bool {
	return r.Date.Equal(o.Date.Time) && r.Value.Equal(o.Value)
}
