package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tours-service/internal/events"
	"tours-service/internal/lock"
	"tours-service/internal/models"
	"tours-service/internal/notify"
	"tours-service/internal/pdf"
	"tours-service/pkg/response"
)

type Service struct {
	log      *slog.Logger
	store    Store
	locker   lock.Locker
	renderer pdf.Renderer
	blobs    BlobStore
	notifier Notifier
	events   events.Publisher

	loc           *time.Location
	lockTTL       time.Duration
	renderTimeout time.Duration
	now           func() time.Time
}

// Deps are the collaborators beyond the store and the lock. Zero fields fall
// back to no-op or default implementations, except Renderer and Blobs which
// LockTour needs.
type Deps struct {
	Renderer      pdf.Renderer
	Blobs         BlobStore
	Notifier      Notifier
	Events        events.Publisher
	Location      *time.Location
	LockTTL       time.Duration
	RenderTimeout time.Duration
	Now           func() time.Time
}

func NewService(log *slog.Logger, store Store, locker lock.Locker, deps Deps) *Service {
	s := &Service{
		log:           log,
		store:         store,
		locker:        locker,
		renderer:      deps.Renderer,
		blobs:         deps.Blobs,
		notifier:      deps.Notifier,
		events:        deps.Events,
		loc:           deps.Location,
		lockTTL:       deps.LockTTL,
		renderTimeout: deps.RenderTimeout,
		now:           deps.Now,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 10 * time.Second
	}
	if s.renderTimeout <= 0 {
		s.renderTimeout = 30 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type Store interface {
	// Tours
	CreateTour(ctx context.Context, t *models.Tour) error
	GetTour(ctx context.Context, id string) (*models.Tour, error)
	ListTours(ctx context.Context, guideIDs []string, from, to string) ([]models.Tour, error)
	AcceptedToursOn(ctx context.Context, guideID, date string) ([]models.Tour, error)
	UpdateTourStatus(ctx context.Context, id string, from, to models.TourStatus) error
	UpdateTourTime(ctx context.Context, id string, start, end models.TimeOfDay) error
	DeleteTour(ctx context.Context, id string) error
	LockTour(ctx context.Context, id, invoicePath string) (bool, error)

	// Participants
	AddParticipant(ctx context.Context, p *models.Participant) error
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
	SetAttendance(ctx context.Context, id string, status models.AttendanceStatus) error

	// Tour types
	CreateTourType(ctx context.Context, tt *models.TourType) error
	GetTourType(ctx context.Context, id string) (*models.TourType, error)
	TourTypeByName(ctx context.Context, guideID, name string) (*models.TourType, error)
	ListTourTypes(ctx context.Context, guideIDs []string) ([]models.TourType, error)
	UpdateTourType(ctx context.Context, tt *models.TourType) error
	DeleteTourType(ctx context.Context, id string) error

	// Profiles
	GetProfile(ctx context.Context, id string) (*models.GuideProfile, error)
	ProfileByEmail(ctx context.Context, email string) (*models.GuideProfile, error)
	ListProfiles(ctx context.Context, ids []string) ([]models.GuideProfile, error)
	SaveProfile(ctx context.Context, p *models.GuideProfile) error
	UpdateBankDetails(ctx context.Context, id, accountName, sortCode, accountNumber string) error

	// Availability
	SetAvailability(ctx context.Context, guideID, date string, available bool) error
	ListAvailability(ctx context.Context, guideID, from, to string) ([]string, error)
	IsAvailable(ctx context.Context, guideID, date string) (bool, error)

	// Sharing
	SharesOf(ctx context.Context, guideID string) ([]models.GuideShare, error)
	GetShare(ctx context.Context, id string) (*models.GuideShare, error)
	DeleteShare(ctx context.Context, id string) error
	InviteBetween(ctx context.Context, from, to string) (*models.ShareInvite, error)
	GetInvite(ctx context.Context, id string) (*models.ShareInvite, error)
	CreateInvite(ctx context.Context, inv *models.ShareInvite) error
	UpdateInviteStatus(ctx context.Context, id string, status models.InviteStatus) error
	PendingInvites(ctx context.Context, guideID string) ([]models.ShareInvite, error)
	AcceptInvite(ctx context.Context, inviteID string, share *models.GuideShare) error

	// Push
	UpsertPushSubscription(ctx context.Context, sub *models.PushSubscription) error
}

type BlobStore interface {
	Put(path string, data []byte) error
	Get(path string) ([]byte, error)
	Delete(path string) error
}

type Notifier interface {
	Send(ctx context.Context, userID string, msg notify.Message) (notify.Result, error)
	Notify(ctx context.Context, userID string, msg notify.Message)
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, notify.Message) (notify.Result, error) {
	return notify.Result{Errors: []string{}}, nil
}

func (nopNotifier) Notify(context.Context, string, notify.Message) {}

// today is the current date in the service time zone, as an ISO string.
func (s *Service) today() string {
	return s.now().In(s.loc).Format(time.DateOnly)
}

// withLock runs fn under the distributed lock on key. Contention surfaces as
// response.ErrLocked.
func (s *Service) withLock(ctx context.Context, key string, fn func() error) error {
	return s.withLockFor(ctx, key, s.lockTTL, fn)
}

func (s *Service) withLockFor(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	err := lock.WithLock(ctx, s.locker, key, ttl, fn)
	if errors.Is(err, lock.ErrBusy) {
		return response.ErrLocked
	}
	return err
}
