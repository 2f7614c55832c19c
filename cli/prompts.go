package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boozetrack/apperr"
	"boozetrack/model"
)

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *App) promptInt64(label string) (int64, error) {
	raw := a.prompt(label)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("%q is not a valid number", raw)
	}
	return n, nil
}

func (a *App) promptInt(label string) (int, error) {
	n, err := a.promptInt64(label)
	return int(n), err
}

func (a *App) promptDecimal(label string) (decimal.Decimal, error) {
	raw := a.prompt(label)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("%q is not a valid amount", raw)
	}
	return d, nil
}

// promptOptional returns nil when the user just presses Enter.
func (a *App) promptOptional(label string) *string {
	raw := a.prompt(label + " (Enter to skip): ")
	if raw == "" {
		return nil
	}
	return &raw
}

// promptDateRange reads an optional from/to pair of YYYY-MM-DD dates. The
// "to" date is extended to the end of its day so a range covers whole days.
func (a *App) promptDateRange() (model.DateRange, error) {
	var r model.DateRange
	if raw := a.prompt("From date YYYY-MM-DD (Enter for all): "); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return r, apperr.Validation("%q is not a valid date, expected YYYY-MM-DD", raw)
		}
		r.From = t.UTC()
	}
	if raw := a.prompt("To date YYYY-MM-DD (Enter for all): "); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return r, apperr.Validation("%q is not a valid date, expected YYYY-MM-DD", raw)
		}
		r.To = t.UTC().Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}
