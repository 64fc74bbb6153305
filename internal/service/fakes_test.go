package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"tours-service/internal/blob"
	"tours-service/internal/booking"
	"tours-service/internal/invoice"
	"tours-service/internal/models"
	"tours-service/internal/notify"
	"tours-service/pkg/response"
)

const (
	alice = "11111111-1111-4111-8111-111111111111"
	bob   = "22222222-2222-4222-8222-222222222222"
	carol = "33333333-3333-4333-8333-333333333333"
)

// memStore keeps everything in maps and mimics the row-level guards of the
// postgres storage.
type memStore struct {
	mu           sync.Mutex
	tours        map[string]*models.Tour
	participants map[string]*models.Participant
	types        map[string]*models.TourType
	profiles     map[string]*models.GuideProfile
	shares       map[string]*models.GuideShare
	invites      map[string]*models.ShareInvite
	available    map[string]bool
	subs         map[string]*models.PushSubscription

	lockOK  *bool
	lockErr error
}

func newMemStore() *memStore {
	return &memStore{
		tours:        map[string]*models.Tour{},
		participants: map[string]*models.Participant{},
		types:        map[string]*models.TourType{},
		profiles:     map[string]*models.GuideProfile{},
		shares:       map[string]*models.GuideShare{},
		invites:      map[string]*models.ShareInvite{},
		available:    map[string]bool{},
		subs:         map[string]*models.PushSubscription{},
	}
}

func (m *memStore) withParticipants(t models.Tour) *models.Tour {
	t.Participants = nil
	for _, p := range m.participants {
		if p.TourID == t.ID {
			t.Participants = append(t.Participants, *p)
		}
	}
	slices.SortFunc(t.Participants, func(a, b models.Participant) int { return strings.Compare(a.ID, b.ID) })
	return &t
}

func (m *memStore) CreateTour(_ context.Context, t *models.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	cp := *t
	m.tours[t.ID] = &cp
	return nil
}

func (m *memStore) GetTour(_ context.Context, id string) (*models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return m.withParticipants(*t), nil
}

func (m *memStore) ListTours(_ context.Context, guideIDs []string, from, to string) ([]models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tour
	for _, t := range m.tours {
		if slices.Contains(guideIDs, t.GuideID) && t.Date >= from && t.Date <= to {
			out = append(out, *m.withParticipants(*t))
		}
	}
	slices.SortFunc(out, func(a, b models.Tour) int {
		return strings.Compare(a.Date+a.StartTime.String(), b.Date+b.StartTime.String())
	})
	return out, nil
}

func (m *memStore) AcceptedToursOn(_ context.Context, guideID, date string) ([]models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tour
	for _, t := range m.tours {
		if t.GuideID == guideID && t.Date == date && t.Status == models.TourAccepted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateTourStatus(_ context.Context, id string, from, to models.TourStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok || t.Status != from {
		return response.WithReason(response.ErrPrecondition, "tour is no longer "+string(from))
	}
	t.Status = to
	return nil
}

func (m *memStore) UpdateTourTime(_ context.Context, id string, start, end models.TimeOfDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok || t.ParticipantsLocked {
		return booking.ErrAlreadyLocked
	}
	t.StartTime, t.EndTime = start, end
	return nil
}

func (m *memStore) DeleteTour(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok || t.ParticipantsLocked {
		return booking.ErrAlreadyLocked
	}
	delete(m.tours, id)
	for pid, p := range m.participants {
		if p.TourID == id {
			delete(m.participants, pid)
		}
	}
	return nil
}

func (m *memStore) LockTour(_ context.Context, id, invoicePath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return false, m.lockErr
	}
	if m.lockOK != nil {
		return *m.lockOK, nil
	}
	t, ok := m.tours[id]
	if !ok || t.ParticipantsLocked {
		return false, nil
	}
	t.ParticipantsLocked = true
	t.InvoicePath = &invoicePath
	return true, nil
}

func (m *memStore) AddParticipant(_ context.Context, p *models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[p.TourID]
	if !ok || t.ParticipantsLocked {
		return booking.ErrAlreadyLocked
	}
	cp := *p
	m.participants[p.ID] = &cp
	return nil
}

func (m *memStore) GetParticipant(_ context.Context, id string) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) DeleteParticipant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return response.ErrNotFound
	}
	if m.tours[p.TourID].ParticipantsLocked {
		return booking.ErrAlreadyLocked
	}
	delete(m.participants, id)
	return nil
}

func (m *memStore) SetAttendance(_ context.Context, id string, status models.AttendanceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return response.ErrNotFound
	}
	if m.tours[p.TourID].ParticipantsLocked {
		return booking.ErrAlreadyLocked
	}
	p.AttendanceStatus = status
	return nil
}

func (m *memStore) CreateTourType(_ context.Context, tt *models.TourType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.types {
		if other.GuideID == tt.GuideID && other.Name == tt.Name {
			return response.WithReason(response.ErrConflict, "tour type with this name already exists")
		}
	}
	cp := *tt
	m.types[tt.ID] = &cp
	return nil
}

func (m *memStore) GetTourType(_ context.Context, id string) (*models.TourType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tt, ok := m.types[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *tt
	return &cp, nil
}

func (m *memStore) TourTypeByName(_ context.Context, guideID, name string) (*models.TourType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tt := range m.types {
		if tt.GuideID == guideID && tt.Name == name {
			cp := *tt
			return &cp, nil
		}
	}
	return nil, response.ErrNotFound
}

func (m *memStore) ListTourTypes(_ context.Context, guideIDs []string) ([]models.TourType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TourType
	for _, tt := range m.types {
		if slices.Contains(guideIDs, tt.GuideID) {
			out = append(out, *tt)
		}
	}
	slices.SortFunc(out, func(a, b models.TourType) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *memStore) UpdateTourType(_ context.Context, tt *models.TourType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.types[tt.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *tt
	m.types[tt.ID] = &cp
	return nil
}

func (m *memStore) DeleteTourType(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.types, id)
	return nil
}

func (m *memStore) GetProfile(_ context.Context, id string) (*models.GuideProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ProfileByEmail(_ context.Context, email string) (*models.GuideProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, response.ErrNotFound
}

func (m *memStore) ListProfiles(_ context.Context, ids []string) ([]models.GuideProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GuideProfile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) SaveProfile(_ context.Context, p *models.GuideProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.profiles[p.ID]
	if !ok {
		cp := *p
		m.profiles[p.ID] = &cp
		return nil
	}
	cur.Email, cur.FirstName, cur.LastName = p.Email, p.FirstName, p.LastName
	return nil
}

func (m *memStore) UpdateBankDetails(_ context.Context, id, accountName, sortCode, accountNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return response.ErrNotFound
	}
	p.AccountName, p.SortCode, p.AccountNumber = accountName, sortCode, accountNumber
	return nil
}

func (m *memStore) SetAvailability(_ context.Context, guideID, date string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if available {
		m.available[guideID+"/"+date] = true
	} else {
		delete(m.available, guideID+"/"+date)
	}
	return nil
}

func (m *memStore) ListAvailability(_ context.Context, guideID, from, to string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.available {
		g, d, _ := strings.Cut(k, "/")
		if g == guideID && d >= from && d <= to {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (m *memStore) IsAvailable(_ context.Context, guideID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available[guideID+"/"+date], nil
}

func (m *memStore) SharesOf(_ context.Context, guideID string) ([]models.GuideShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GuideShare
	for _, s := range m.shares {
		if s.GuideID == guideID || s.SharedWithID == guideID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) GetShare(_ context.Context, id string) (*models.GuideShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shares[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteShare(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shares[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.shares, id)
	return nil
}

func (m *memStore) InviteBetween(_ context.Context, from, to string) (*models.ShareInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.FromGuideID == from && inv.ToGuideID == to {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, response.ErrNotFound
}

func (m *memStore) GetInvite(_ context.Context, id string) (*models.ShareInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memStore) CreateInvite(_ context.Context, inv *models.ShareInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.CreatedAt = time.Now()
	cp := *inv
	m.invites[inv.ID] = &cp
	return nil
}

func (m *memStore) UpdateInviteStatus(_ context.Context, id string, status models.InviteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok {
		return response.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (m *memStore) PendingInvites(_ context.Context, guideID string) ([]models.ShareInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ShareInvite
	for _, inv := range m.invites {
		if (inv.FromGuideID == guideID || inv.ToGuideID == guideID) && inv.Status == models.InvitePending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (m *memStore) AcceptInvite(_ context.Context, inviteID string, share *models.GuideShare) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[inviteID]
	if !ok || inv.Status != models.InvitePending {
		return response.ErrNotFound
	}
	inv.Status = models.InviteAccepted
	share.CreatedAt = time.Now()
	cp := *share
	m.shares[share.ID] = &cp
	return nil
}

func (m *memStore) UpsertPushSubscription(_ context.Context, sub *models.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.subs {
		if cur.Endpoint == sub.Endpoint {
			sub.ID = cur.ID
		}
	}
	cp := *sub
	m.subs[sub.ID] = &cp
	return nil
}

// memLocker is an in-process Locker. expires keeps the last expiry handed
// out per key.
type memLocker struct {
	mu      sync.Mutex
	held    map[string]string
	expires map[string]time.Time
	seq     int
}

func (l *memLocker) Lock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
		l.expires = map[string]time.Time{}
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.seq++
	token := fmt.Sprintf("t%d", l.seq)
	l.held[key] = token
	l.expires[key] = time.Now().Add(ttl)
	return token, true, nil
}

func (l *memLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

func (l *memLocker) expiry(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expires[key]
}

type stubRenderer struct {
	err      error
	calls    int
	deadline time.Time
	during   func()
}

func (r *stubRenderer) Render(ctx context.Context, inv *invoice.Invoice) ([]byte, error) {
	r.calls++
	r.deadline, _ = ctx.Deadline()
	if r.during != nil {
		r.during()
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + inv.Number), nil
}

// failingBlobs wraps a blob store and fails Put when putErr is set.
type failingBlobs struct {
	*blob.Store
	putErr error
}

func (f *failingBlobs) Put(p string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Store.Put(p, data)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]notify.Message
}

func (n *recordingNotifier) Send(_ context.Context, userID string, msg notify.Message) (notify.Result, error) {
	n.Notify(context.Background(), userID, msg)
	return notify.Result{Sent: 1, Total: 1, Errors: []string{}}, nil
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[string][]notify.Message{}
	}
	n.sent[userID] = append(n.sent[userID], msg)
}

func (n *recordingNotifier) count(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[userID])
}

var errBoom = errors.New("boom")

type env struct {
	svc      *Service
	store    *memStore
	renderer *stubRenderer
	blobs    *failingBlobs
	fs       afero.Fs
	notifier *recordingNotifier
	locker   *memLocker
}

// fixedNow makes today 2026-03-01.
var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newEnv() *env {
	fs := afero.NewMemMapFs()
	e := &env{
		store:    newMemStore(),
		renderer: &stubRenderer{},
		blobs:    &failingBlobs{Store: blob.NewWithFs(fs)},
		fs:       fs,
		notifier: &recordingNotifier{},
		locker:   &memLocker{},
	}
	e.svc = NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), e.store, e.locker, Deps{
		Renderer: e.renderer,
		Blobs:    e.blobs,
		Notifier: e.notifier,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	return e
}

func (e *env) share(a, b string) {
	id := a[:8] + "-share-" + b[:8]
	e.store.shares[id] = &models.GuideShare{ID: id, GuideID: a, SharedWithID: b}
}

func (e *env) tourType(guide, name string, pricing models.Pricing, shareable bool) {
	id := guide[:8] + "-type-" + name
	e.store.types[id] = &models.TourType{ID: id, GuideID: guide, Name: name, Pricing: pricing, Shareable: shareable}
}
