package analytics

import (
	"fmt"
	"time"

	"github.com/budgetshare/backend/internal/models"
)

type Period string

const (
	PeriodAllTime   Period = "allTime"
	PeriodLastMonth Period = "lastMonth"
	PeriodCustom    Period = "custom"
)

var (
	ErrPeriodInvalid      = fmt.Errorf("%w: the period must be allTime, lastMonth or custom", models.ErrValidation)
	ErrCustomPeriodDates  = fmt.Errorf("%w: a custom period needs a start and an end date", models.ErrValidation)
	ErrCustomPeriodOrder  = fmt.Errorf("%w: the start date must not be after the end date", models.ErrValidation)
	ErrForeignUserSummary = fmt.Errorf("%w: statistics are only available for yourself", models.ErrForbidden)
)

// Window is a time range with inclusive bounds. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// startOfDay returns midnight UTC of the day t is in.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last instant of the UTC day t is in.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParsePeriod resolves a period to a window relative to now.
//
// An empty period is allTime. For custom periods, the whole end day is
// included.
func ParsePeriod(period Period, start, end *time.Time, now time.Time) (Window, error) {
	now = now.UTC()

	switch period {
	case "", PeriodAllTime:
		return Window{}, nil

	case PeriodLastMonth:
		from := now.AddDate(0, -1, 0)
		return Window{From: &from, To: &now}, nil

	case PeriodCustom:
		if start == nil || end == nil {
			return Window{}, ErrCustomPeriodDates
		}

		from := start.UTC()
		to := endOfDay(*end)
		if from.After(to) {
			return Window{}, ErrCustomPeriodOrder
		}
		return Window{From: &from, To: &to}, nil
	}

	return Window{}, ErrPeriodInvalid
}
