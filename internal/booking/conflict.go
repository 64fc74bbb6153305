// Package booking holds the pure scheduling rules: time-window conflicts between
// accepted tours and the gate a tour must pass before its participants are locked.
package booking

import (
	"errors"

	"tours-service/internal/models"
)

// DefaultDuration is offered when a booking names only a start time.
const DefaultDuration = 90

var (
	ErrEmptyInterval   = errors.New("start time must be before end time")
	ErrCrossesMidnight = errors.New("tour must end on the same day it starts")
)

// Interval is a half-open [Start, End) window within one day.
type Interval struct {
	Start models.TimeOfDay
	End   models.TimeOfDay
}

func NewInterval(start, end models.TimeOfDay) (Interval, error) {
	if start >= end {
		return Interval{}, ErrEmptyInterval
	}
	if end > models.MinutesPerDay {
		return Interval{}, ErrCrossesMidnight
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps uses the half-open test, so back-to-back windows sharing a boundary do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// DefaultEnd returns start plus DefaultDuration minutes. Windows running past
// midnight are rejected rather than wrapped.
func DefaultEnd(start models.TimeOfDay) (models.TimeOfDay, error) {
	end := start + DefaultDuration
	if end > models.MinutesPerDay {
		return 0, ErrCrossesMidnight
	}
	return end, nil
}

// FindConflict returns the first accepted tour of guideID on date whose window
// overlaps candidate. skipID excludes the tour being edited.
func FindConflict(guideID, date string, candidate Interval, existing []models.Tour, skipID string) (*models.Tour, bool) {
	for i := range existing {
		t := &existing[i]
		if t.ID == skipID || t.GuideID != guideID || t.Date != date || t.Status != models.TourAccepted {
			continue
		}
		if candidate.Overlaps(Interval{Start: t.StartTime, End: t.EndTime}) {
			return t, true
		}
	}
	return nil, false
}

// HasConflict is FindConflict without the offending tour.
func HasConflict(guideID, date string, candidate Interval, existing []models.Tour) bool {
	_, ok := FindConflict(guideID, date, candidate, existing, "")
	return ok
}
