package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"tours-service/api"
	"tours-service/internal/blob"
	"tours-service/internal/booking"
	"tours-service/internal/events"
	"tours-service/internal/invoice"
	"tours-service/internal/lock"
	"tours-service/internal/models"
	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

// invoiceParty loads a tour that caller may invoice: its guide or its creator.
func (s *Service) invoiceParty(ctx context.Context, caller, id string) (*models.Tour, error) {
	t, err := s.loadTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.GuideID != caller && t.CreatedBy != caller {
		return nil, forbidden("only the guide or the creator can invoice a tour")
	}
	return t, nil
}

// buildInvoice tolerates a deleted tour type or profile; the document then
// carries zero amounts or blank payee fields.
func (s *Service) buildInvoice(ctx context.Context, t *models.Tour) (*invoice.Invoice, error) {
	tt, err := s.store.TourTypeByName(ctx, t.GuideID, t.Type)
	if err != nil && !errors.Is(err, response.ErrNotFound) {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, t.GuideID)
	if err != nil && !errors.Is(err, response.ErrNotFound) {
		return nil, err
	}
	inv, err := invoice.Build(t, tt, profile)
	if err != nil {
		return nil, reason(err)
	}
	return inv, nil
}

func (s *Service) PreviewInvoice(ctx context.Context, caller, id string) (*api.Invoice, error) {
	const op = "service.PreviewInvoice"

	t, err := s.invoiceParty(ctx, caller, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := booking.CanInvoice(t, caller); err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	inv, err := s.buildInvoice(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := toInvoice(inv)
	return &out, nil
}

// LockTour renders and stores the invoice, then freezes the participant list.
// The flag is only set after the document is stored; any failure leaves the
// tour unlocked and removes a document this call uploaded.
func (s *Service) LockTour(ctx context.Context, caller, id string) (*api.LockResponse, error) {
	const op = "service.LockTour"

	log := s.log.With(slog.String("op", op), slog.String("tour_id", id))

	var (
		t        *models.Tour
		inv      *invoice.Invoice
		filePath string
	)

	// The participant lock is held for the whole render plus the usual
	// budget, and the work runs under a deadline that ends before the key
	// can expire, so participants cannot change under the snapshot.
	hold := s.lockTTL + s.renderTimeout
	lctx, cancel := context.WithTimeout(ctx, hold)
	defer cancel()

	err := s.withLockFor(lctx, lock.TourKey(id), hold, func() error {
		var err error
		t, err = s.invoiceParty(lctx, caller, id)
		if err != nil {
			return err
		}
		if err := booking.CanLock(t, caller, s.today()); err != nil {
			return reason(err)
		}

		inv, err = s.buildInvoice(lctx, t)
		if err != nil {
			return err
		}

		rctx, rcancel := context.WithTimeout(lctx, s.renderTimeout)
		doc, err := s.renderer.Render(rctx, inv)
		rcancel()
		if err != nil {
			return fmt.Errorf("render: %w: %w", response.ErrUpstream, err)
		}

		filePath = blob.InvoicePath(t.GuideID, t.Date, t.ID, inv.FileName())
		if err := s.blobs.Put(filePath, doc); err != nil {
			return fmt.Errorf("upload: %w: %w", response.ErrUpstream, err)
		}

		ok, err := s.store.LockTour(lctx, t.ID, filePath)
		if err == nil && ok {
			return nil
		}

		s.discardInvoice(ctx, log, t.ID, filePath)
		if err != nil {
			return err
		}
		return reason(booking.ErrAlreadyLocked)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishLocked(ctx, log, t, inv, filePath)

	return &api.LockResponse{
		TourID:   t.ID,
		FilePath: filePath,
		Invoice:  toInvoice(inv),
	}, nil
}

// discardInvoice removes an uploaded document after the lock update failed,
// unless the tour turned out to be locked already and the document is its own.
func (s *Service) discardInvoice(ctx context.Context, log *slog.Logger, tourID, filePath string) {
	if current, err := s.store.GetTour(ctx, tourID); err == nil && current.ParticipantsLocked &&
		current.InvoicePath != nil && *current.InvoicePath == filePath {
		return
	}
	if err := s.blobs.Delete(filePath); err != nil {
		log.Error("failed to remove orphaned invoice", slog.String("path", filePath), sl.Err(err))
	}
}

func (s *Service) publishLocked(ctx context.Context, log *slog.Logger, t *models.Tour, inv *invoice.Invoice, filePath string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := s.events.PublishTourLocked(ctx, events.TourLockedEvent{
		TourID:       t.ID,
		GuideID:      t.GuideID,
		Date:         t.Date,
		InvoiceNo:    inv.Number,
		InvoicePath:  filePath,
		PersonsTotal: inv.PersonsTotal,
		Gross:        inv.Gross.StringFixed(2),
		Commission:   inv.Commission.StringFixed(2),
		Total:        inv.Net.StringFixed(2),
		LockedAt:     s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Warn("failed to publish tour locked event", sl.Err(err))
	}
}

func (s *Service) DownloadInvoice(ctx context.Context, caller, id string) (*api.InvoiceFile, error) {
	const op = "service.DownloadInvoice"

	t, err := s.invoiceParty(ctx, caller, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !t.ParticipantsLocked || t.InvoicePath == nil {
		return nil, fmt.Errorf("%s: %w", op, precondition("invoice has not been issued"))
	}

	data, err := s.blobs.Get(*t.InvoicePath)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.InvoiceFile{Name: path.Base(*t.InvoicePath), Data: data}, nil
}
