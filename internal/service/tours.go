package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tours-service/api"
	"tours-service/internal/booking"
	"tours-service/internal/lock"
	"tours-service/internal/models"
	"tours-service/internal/notify"
	"tours-service/internal/sharing"
	"tours-service/pkg/response"
)

// maxListSpan bounds a calendar query to a little over one month view.
const maxListSpan = 62 * 24 * time.Hour

func (s *Service) CreateTour(ctx context.Context, caller string, req *api.TourCreateRequest) (*api.Tour, error) {
	const op = "service.CreateTour"

	if err := parseDate("date", req.Date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, badRequest("start_time must be HH:MM"))
	}
	var end models.TimeOfDay
	if req.EndTime == "" {
		end, err = booking.DefaultEnd(start)
	} else {
		end, err = models.ParseTimeOfDay(req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, badRequest("end_time must be HH:MM"))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}
	window, err := booking.NewInterval(start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}
	typeName := strings.TrimSpace(req.Type)
	if typeName == "" {
		return nil, fmt.Errorf("%s: %w", op, badRequest("type is required"))
	}
	guideID := req.GuideID
	if guideID == "" {
		guideID = caller
	} else if err := parseID("guide_id", guideID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if booking.IsPast(req.Date, s.today()) {
		return nil, fmt.Errorf("%s: %w", op, reason(booking.ErrPastDate))
	}

	own := guideID == caller
	if !own {
		shares, err := s.store.SharesOf(ctx, caller)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !sharing.CanView(caller, guideID, shares) {
			return nil, fmt.Errorf("%s: %w", op, forbidden("guide calendar is not shared with you"))
		}
	}

	tt, err := s.store.TourTypeByName(ctx, guideID, typeName)
	if errors.Is(err, response.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, badRequest("unknown tour type"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := models.TourAccepted
	if !own {
		if !tt.Shareable {
			return nil, fmt.Errorf("%s: %w", op, forbidden("tour type is not shareable"))
		}
		available, err := s.store.IsAvailable(ctx, guideID, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !available {
			return nil, fmt.Errorf("%s: %w", op, precondition("guide is not available on this date"))
		}
		status = models.TourPending
	}

	tour := &models.Tour{
		ID:        uuid.NewString(),
		Date:      req.Date,
		StartTime: window.Start,
		EndTime:   window.End,
		Type:      tt.Name,
		Status:    status,
		GuideID:   guideID,
		CreatedBy: caller,
		IsPrivate: req.IsPrivate,
	}

	err = s.withLock(ctx, lock.ToursKey(guideID, req.Date), func() error {
		if err := s.checkConflict(ctx, tour, window); err != nil {
			return err
		}
		return s.store.CreateTour(ctx, tour)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !own {
		s.notifier.Notify(ctx, guideID, notify.Message{
			Title: "New tour request",
			Body:  fmt.Sprintf("%s on %s at %s", tour.Type, tour.Date, tour.StartTime),
			Data:  map[string]any{"tour_id": tour.ID, "url": "./index.html"},
		})
	}

	out := toTour(tour, caller)
	return &out, nil
}

// checkConflict must run under the tours lock of t's guide and date.
func (s *Service) checkConflict(ctx context.Context, t *models.Tour, window booking.Interval) error {
	existing, err := s.store.AcceptedToursOn(ctx, t.GuideID, t.Date)
	if err != nil {
		return err
	}
	if _, clash := booking.FindConflict(t.GuideID, t.Date, window, existing, t.ID); clash {
		return reason(ErrTimeConflict)
	}
	return nil
}

func (s *Service) loadTour(ctx context.Context, id string) (*models.Tour, error) {
	if err := parseID("tour id", id); err != nil {
		return nil, err
	}
	return s.store.GetTour(ctx, id)
}

// canSee reports whether caller may open t at all. Private tours stay listed
// for share neighbours but are redacted by toTour.
func (s *Service) canSee(ctx context.Context, t *models.Tour, caller string) (bool, error) {
	if t.GuideID == caller || t.CreatedBy == caller {
		return true, nil
	}
	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return false, err
	}
	return sharing.CanView(caller, t.GuideID, shares), nil
}

func (s *Service) GetTour(ctx context.Context, caller, id string) (*api.Tour, error) {
	const op = "service.GetTour"

	t, err := s.loadTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ok, err := s.canSee(ctx, t, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	out := toTour(t, caller)
	return &out, nil
}

// ListTours returns the calendar of every guide visible to caller, or of one of them.
func (s *Service) ListTours(ctx context.Context, caller string, q api.TourListQuery) ([]api.Tour, error) {
	const op = "service.ListTours"

	if err := parseDate("from", q.From); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := parseDate("to", q.To); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	from, _ := time.Parse(time.DateOnly, q.From)
	to, _ := time.Parse(time.DateOnly, q.To)
	if to.Before(from) {
		return nil, fmt.Errorf("%s: %w", op, badRequest("to must not be before from"))
	}
	if to.Sub(from) > maxListSpan {
		return nil, fmt.Errorf("%s: %w", op, badRequest("date range is too long"))
	}

	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	guides := sharing.VisibleGuides(caller, shares)
	if q.GuideID != "" {
		if !sharing.CanView(caller, q.GuideID, shares) {
			return nil, fmt.Errorf("%s: %w", op, forbidden("guide calendar is not shared with you"))
		}
		guides = []string{q.GuideID}
	}

	tours, err := s.store.ListTours(ctx, guides, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.Tour, 0, len(tours))
	for i := range tours {
		out = append(out, toTour(&tours[i], caller))
	}
	return out, nil
}

func (s *Service) AcceptTour(ctx context.Context, caller, id string) (*api.Tour, error) {
	const op = "service.AcceptTour"

	t, err := s.loadTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if t.GuideID != caller {
		return nil, fmt.Errorf("%s: %w", op, forbidden("only the guide can accept a tour"))
	}
	if t.Status != models.TourPending {
		return nil, fmt.Errorf("%s: %w", op, precondition("tour is not pending"))
	}
	if booking.IsPast(t.Date, s.today()) {
		return nil, fmt.Errorf("%s: %w", op, reason(booking.ErrPastDate))
	}

	err = s.withLock(ctx, lock.ToursKey(t.GuideID, t.Date), func() error {
		window := booking.Interval{Start: t.StartTime, End: t.EndTime}
		if err := s.checkConflict(ctx, t, window); err != nil {
			return err
		}
		return s.store.UpdateTourStatus(ctx, t.ID, models.TourPending, models.TourAccepted)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t.Status = models.TourAccepted

	if t.CreatedBy != caller {
		s.notifier.Notify(ctx, t.CreatedBy, notify.Message{
			Title: "Tour accepted",
			Body:  fmt.Sprintf("Your %s tour on %s was accepted.", t.Type, t.Date),
			Data:  map[string]any{"tour_id": t.ID, "url": "./index.html"},
		})
	}

	out := toTour(t, caller)
	return &out, nil
}

// DeclineTour removes a pending request.
func (s *Service) DeclineTour(ctx context.Context, caller, id string) error {
	const op = "service.DeclineTour"

	t, err := s.loadTour(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if t.GuideID != caller {
		return fmt.Errorf("%s: %w", op, forbidden("only the guide can decline a tour"))
	}
	if t.Status != models.TourPending {
		return fmt.Errorf("%s: %w", op, precondition("tour is not pending"))
	}

	if err := s.store.DeleteTour(ctx, t.ID); err != nil {
		return fmt.Errorf("%s: %w", op, reason(err))
	}

	if t.CreatedBy != caller {
		s.notifier.Notify(ctx, t.CreatedBy, notify.Message{
			Title: "Tour declined",
			Body:  fmt.Sprintf("Your %s tour on %s was declined.", t.Type, t.Date),
			Data:  map[string]any{"url": "./index.html"},
		})
	}

	return nil
}

func (s *Service) UpdateTourTime(ctx context.Context, caller, id string, req *api.TourTimeRequest) (*api.Tour, error) {
	const op = "service.UpdateTourTime"

	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, badRequest("start_time must be HH:MM"))
	}
	end, err := models.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, badRequest("end_time must be HH:MM"))
	}
	window, err := booking.NewInterval(start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	t, err := s.loadTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if t.GuideID != caller {
		return nil, fmt.Errorf("%s: %w", op, forbidden("only the guide can change the time"))
	}
	if booking.IsPast(t.Date, s.today()) {
		return nil, fmt.Errorf("%s: %w", op, reason(booking.ErrPastDate))
	}
	if t.ParticipantsLocked {
		return nil, fmt.Errorf("%s: %w", op, reason(booking.ErrAlreadyLocked))
	}

	update := func() error {
		return s.store.UpdateTourTime(ctx, t.ID, window.Start, window.End)
	}
	if t.Status == models.TourAccepted {
		err = s.withLock(ctx, lock.ToursKey(t.GuideID, t.Date), func() error {
			if err := s.checkConflict(ctx, t, window); err != nil {
				return err
			}
			return update()
		})
	} else {
		err = update()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	t.StartTime, t.EndTime = window.Start, window.End
	out := toTour(t, caller)
	return &out, nil
}

// DeleteTour is open to the guide, and to the creator while the request is pending.
func (s *Service) DeleteTour(ctx context.Context, caller, id string) error {
	const op = "service.DeleteTour"

	t, err := s.loadTour(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	allowed := t.GuideID == caller || (t.CreatedBy == caller && t.Status == models.TourPending)
	if !allowed {
		return fmt.Errorf("%s: %w", op, forbidden("only the guide can delete this tour"))
	}
	if booking.IsPast(t.Date, s.today()) {
		return fmt.Errorf("%s: %w", op, reason(booking.ErrPastDate))
	}
	if t.ParticipantsLocked {
		return fmt.Errorf("%s: %w", op, reason(booking.ErrAlreadyLocked))
	}

	if err := s.store.DeleteTour(ctx, t.ID); err != nil {
		return fmt.Errorf("%s: %w", op, reason(err))
	}

	other := t.CreatedBy
	if caller == t.CreatedBy {
		other = t.GuideID
	}
	if other != caller {
		s.notifier.Notify(ctx, other, notify.Message{
			Title: "Tour removed",
			Body:  fmt.Sprintf("The %s tour on %s was removed.", t.Type, t.Date),
			Data:  map[string]any{"url": "./index.html"},
		})
	}

	return nil
}
