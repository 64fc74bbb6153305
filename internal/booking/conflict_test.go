package booking

import (
	"errors"
	"testing"

	"tours-service/internal/models"
)

func tod(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func accepted(id, guide, date string, start, end models.TimeOfDay) models.Tour {
	return models.Tour{ID: id, GuideID: guide, Date: date, StartTime: start, EndTime: end, Status: models.TourAccepted}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		a, b      [2]string
		wantClash bool
	}{
		{"identical", [2]string{"10:00", "11:30"}, [2]string{"10:00", "11:30"}, true},
		{"partial start", [2]string{"09:30", "10:30"}, [2]string{"10:00", "11:30"}, true},
		{"contained", [2]string{"10:15", "10:45"}, [2]string{"10:00", "11:30"}, true},
		{"back to back after", [2]string{"14:00", "15:30"}, [2]string{"13:00", "14:00"}, false},
		{"back to back before", [2]string{"12:00", "13:00"}, [2]string{"13:00", "14:00"}, false},
		{"disjoint", [2]string{"08:00", "09:00"}, [2]string{"13:00", "14:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Interval{Start: tod(t, tt.a[0]), End: tod(t, tt.a[1])}
			b := Interval{Start: tod(t, tt.b[0]), End: tod(t, tt.b[1])}
			if got := a.Overlaps(b); got != tt.wantClash {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.wantClash)
			}
			if got := b.Overlaps(a); got != tt.wantClash {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.wantClash)
			}
		})
	}
}

func TestHasConflict_BoundaryIsExclusive(t *testing.T) {
	existing := []models.Tour{accepted("t1", "g1", "2026-05-01", tod(t, "13:00"), tod(t, "14:00"))}
	candidate := Interval{Start: tod(t, "14:00"), End: tod(t, "15:30")}

	if HasConflict("g1", "2026-05-01", candidate, existing) {
		t.Error("expected 14:00-15:30 not to conflict with 13:00-14:00 under half-open intervals")
	}
}

func TestHasConflict_Filters(t *testing.T) {
	start, end := tod(t, "10:00"), tod(t, "11:30")
	candidate := Interval{Start: start, End: end}

	pending := accepted("p", "g1", "2026-05-01", start, end)
	pending.Status = models.TourPending

	tests := []struct {
		name     string
		existing []models.Tour
		want     bool
	}{
		{"overlapping accepted", []models.Tour{accepted("a", "g1", "2026-05-01", start, end)}, true},
		{"pending is ignored", []models.Tour{pending}, false},
		{"other guide", []models.Tour{accepted("a", "g2", "2026-05-01", start, end)}, false},
		{"other date", []models.Tour{accepted("a", "g1", "2026-05-02", start, end)}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict("g1", "2026-05-01", candidate, tt.existing); got != tt.want {
				t.Errorf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindConflict_SkipsSelf(t *testing.T) {
	existing := []models.Tour{accepted("self", "g1", "2026-05-01", tod(t, "10:00"), tod(t, "11:30"))}
	candidate := Interval{Start: tod(t, "10:30"), End: tod(t, "12:00")}

	if _, ok := FindConflict("g1", "2026-05-01", candidate, existing, "self"); ok {
		t.Error("a tour must not conflict with itself when rescheduled")
	}
	if got, ok := FindConflict("g1", "2026-05-01", candidate, existing, ""); !ok || got.ID != "self" {
		t.Errorf("expected conflict with self when not skipped, got %v %v", got, ok)
	}
}

func TestDefaultEnd(t *testing.T) {
	end, err := DefaultEnd(tod(t, "14:00"))
	if err != nil {
		t.Fatalf("DefaultEnd: %v", err)
	}
	if end.String() != "15:30" {
		t.Errorf("expected 15:30, got %s", end)
	}

	end, err = DefaultEnd(tod(t, "22:30"))
	if err != nil {
		t.Fatalf("DefaultEnd at 22:30: %v", err)
	}
	if end != models.MinutesPerDay {
		t.Errorf("expected end of day, got %d", end)
	}

	if _, err := DefaultEnd(tod(t, "23:00")); !errors.Is(err, ErrCrossesMidnight) {
		t.Errorf("expected ErrCrossesMidnight, got %v", err)
	}
}

func TestNewInterval(t *testing.T) {
	if _, err := NewInterval(tod(t, "11:00"), tod(t, "11:00")); !errors.Is(err, ErrEmptyInterval) {
		t.Errorf("expected ErrEmptyInterval, got %v", err)
	}
	if _, err := NewInterval(tod(t, "12:00"), tod(t, "11:00")); !errors.Is(err, ErrEmptyInterval) {
		t.Errorf("expected ErrEmptyInterval, got %v", err)
	}
	if _, err := NewInterval(tod(t, "11:00"), tod(t, "12:00")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// an explicit 24:00 end matches what DefaultEnd produces for a 22:30 start
	explicit, err := NewInterval(tod(t, "22:30"), tod(t, "24:00"))
	if err != nil {
		t.Fatalf("unexpected error for 24:00 end: %v", err)
	}
	def, _ := DefaultEnd(tod(t, "22:30"))
	if explicit.End != def || def.String() != "24:00" {
		t.Errorf("explicit end %s, default end %s", explicit.End, def)
	}
	if _, err := NewInterval(tod(t, "24:00"), tod(t, "24:00")); !errors.Is(err, ErrEmptyInterval) {
		t.Errorf("expected ErrEmptyInterval for a 24:00 start, got %v", err)
	}
}
