package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tours-service/internal/models"
	"tours-service/pkg/response"
)

// tourTypeRow is the flat table shape of models.TourType.
type tourTypeRow struct {
	ID                string          `db:"id"`
	GuideID           string          `db:"guide_id"`
	Name              string          `db:"name"`
	Description       string          `db:"description"`
	PaymentType       string          `db:"payment_type"`
	TicketPrice       decimal.Decimal `db:"ticket_price"`
	CommissionPercent decimal.Decimal `db:"commission_percent"`
	FeePerParticipant decimal.Decimal `db:"fee_per_participant"`
	Shareable         bool            `db:"shareable"`
	InvoiceOrgName    string          `db:"invoice_org_name"`
	InvoiceOrgAddress string          `db:"invoice_org_address"`
}

const tourTypeColumns = `id, guide_id, name, description, payment_type, ticket_price, commission_percent,
	fee_per_participant, shareable, invoice_org_name, invoice_org_address`

func (r tourTypeRow) model() models.TourType {
	tt := models.TourType{
		ID:                r.ID,
		GuideID:           r.GuideID,
		Name:              r.Name,
		Description:       r.Description,
		Shareable:         r.Shareable,
		InvoiceOrgName:    r.InvoiceOrgName,
		InvoiceOrgAddress: r.InvoiceOrgAddress,
	}
	if models.PaymentMode(r.PaymentType) == models.PaymentFree {
		tt.Pricing = models.Free{FeePerParticipant: r.FeePerParticipant}
	} else {
		tt.Pricing = models.Prepaid{TicketPrice: r.TicketPrice, Commission: r.CommissionPercent}
	}
	return tt
}

func rowOf(tt *models.TourType) tourTypeRow {
	r := tourTypeRow{
		ID:                tt.ID,
		GuideID:           tt.GuideID,
		Name:              tt.Name,
		Description:       tt.Description,
		Shareable:         tt.Shareable,
		InvoiceOrgName:    tt.InvoiceOrgName,
		InvoiceOrgAddress: tt.InvoiceOrgAddress,
	}
	switch p := tt.Pricing.(type) {
	case models.Free:
		r.PaymentType = string(models.PaymentFree)
		r.FeePerParticipant = p.FeePerParticipant
	case models.Prepaid:
		r.PaymentType = string(models.PaymentPrepaid)
		r.TicketPrice = p.TicketPrice
		r.CommissionPercent = p.Commission
	}
	return r
}

var errTypeExists = response.WithReason(response.ErrConflict, "tour type with this name already exists")

func (s *Storage) CreateTourType(ctx context.Context, tt *models.TourType) error {
	const op = "storage.postgres.CreateTourType"

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO tour_types (`+tourTypeColumns+`)
		VALUES (:id, :guide_id, :name, :description, :payment_type, :ticket_price, :commission_percent,
			:fee_per_participant, :shareable, :invoice_org_name, :invoice_org_address)`,
		rowOf(tt),
	)
	if isUnique(err) {
		return fmt.Errorf("%s: %w", op, errTypeExists)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetTourType(ctx context.Context, id string) (*models.TourType, error) {
	const op = "storage.postgres.GetTourType"

	var r tourTypeRow
	err := s.db.GetContext(ctx, &r, `SELECT `+tourTypeColumns+` FROM tour_types WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tt := r.model()
	return &tt, nil
}

// TourTypeByName resolves the type a tour refers to by its name.
func (s *Storage) TourTypeByName(ctx context.Context, guideID, name string) (*models.TourType, error) {
	const op = "storage.postgres.TourTypeByName"

	var r tourTypeRow
	err := s.db.GetContext(ctx, &r,
		`SELECT `+tourTypeColumns+` FROM tour_types WHERE guide_id = $1 AND name = $2`, guideID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tt := r.model()
	return &tt, nil
}

func (s *Storage) ListTourTypes(ctx context.Context, guideIDs []string) ([]models.TourType, error) {
	const op = "storage.postgres.ListTourTypes"

	var rows []tourTypeRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+tourTypeColumns+` FROM tour_types WHERE guide_id = ANY($1) ORDER BY name, id`,
		pq.Array(guideIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.TourType, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}

	return out, nil
}

func (s *Storage) UpdateTourType(ctx context.Context, tt *models.TourType) error {
	const op = "storage.postgres.UpdateTourType"

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE tour_types SET
			name = :name, description = :description, payment_type = :payment_type,
			ticket_price = :ticket_price, commission_percent = :commission_percent,
			fee_per_participant = :fee_per_participant, shareable = :shareable,
			invoice_org_name = :invoice_org_name, invoice_org_address = :invoice_org_address
		WHERE id = :id`,
		rowOf(tt),
	)
	if isUnique(err) {
		return fmt.Errorf("%s: %w", op, errTypeExists)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteTourType(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteTourType"

	res, err := s.db.ExecContext(ctx, `DELETE FROM tour_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
