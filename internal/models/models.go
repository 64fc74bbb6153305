package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TourStatus string

const (
	TourPending  TourStatus = "pending"
	TourAccepted TourStatus = "accepted"
)

type AttendanceStatus string

const (
	AttendanceUnset   AttendanceStatus = "unset"
	AttendanceArrived AttendanceStatus = "arrived"
	AttendanceAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) Resolved() bool {
	return s == AttendanceArrived || s == AttendanceAbsent
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

type Tour struct {
	ID                 string     `db:"id"`
	Date               string     `db:"date"`
	StartTime          TimeOfDay  `db:"start_time"`
	EndTime            TimeOfDay  `db:"end_time"`
	Type               string     `db:"type"`
	Status             TourStatus `db:"status"`
	GuideID            string     `db:"guide_id"`
	CreatedBy          string     `db:"created_by"`
	IsPrivate          bool       `db:"is_private"`
	ParticipantsLocked bool       `db:"participants_locked"`
	InvoicePath        *string    `db:"invoice_path"`
	CreatedAt          time.Time  `db:"created_at"`

	Participants []Participant `db:"-"`
}

// PrivateTo reports whether the tour is hidden from viewer.
func (t *Tour) PrivateTo(viewer string) bool {
	return t.IsPrivate && viewer != t.GuideID && viewer != t.CreatedBy
}

func (t *Tour) OwnedBy(user string) bool {
	return t.GuideID == user
}

type Participant struct {
	ID               string           `db:"id"`
	TourID           string           `db:"tour_id"`
	Name             string           `db:"name"`
	GroupSize        int              `db:"group_size"`
	AttendanceStatus AttendanceStatus `db:"attendance_status"`
}

type PaymentMode string

const (
	PaymentPrepaid PaymentMode = "prepaid"
	PaymentFree    PaymentMode = "free"
)

// Pricing is either Prepaid or Free.
type Pricing interface {
	Mode() PaymentMode
	UnitPrice() decimal.Decimal
	CommissionPercent() decimal.Decimal
}

type Prepaid struct {
	TicketPrice decimal.Decimal
	Commission  decimal.Decimal
}

func (p Prepaid) Mode() PaymentMode                  { return PaymentPrepaid }
func (p Prepaid) UnitPrice() decimal.Decimal         { return p.TicketPrice }
func (p Prepaid) CommissionPercent() decimal.Decimal { return p.Commission }

type Free struct {
	FeePerParticipant decimal.Decimal
}

func (f Free) Mode() PaymentMode                  { return PaymentFree }
func (f Free) UnitPrice() decimal.Decimal         { return f.FeePerParticipant }
func (f Free) CommissionPercent() decimal.Decimal { return decimal.Zero }

// TourType is a guide's pricing template. Tours refer to it by name.
type TourType struct {
	ID                string
	GuideID           string
	Name              string
	Description       string
	Pricing           Pricing
	Shareable         bool
	InvoiceOrgName    string
	InvoiceOrgAddress string
}

type GuideProfile struct {
	ID            string `db:"id"`
	Email         string `db:"email"`
	FirstName     string `db:"first_name"`
	LastName      string `db:"last_name"`
	AccountName   string `db:"account_name"`
	SortCode      string `db:"sort_code"`
	AccountNumber string `db:"account_number"`
}

func (g *GuideProfile) FullName() string {
	return g.FirstName + " " + g.LastName
}

type GuideShare struct {
	ID           string    `db:"id"`
	GuideID      string    `db:"guide_id"`
	SharedWithID string    `db:"shared_with_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type ShareInvite struct {
	ID          string       `db:"id"`
	FromGuideID string       `db:"from_guide_id"`
	ToGuideID   string       `db:"to_guide_id"`
	Status      InviteStatus `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
}

type Availability struct {
	GuideID string `db:"guide_id"`
	Date    string `db:"date"`
}

type PushSubscription struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Endpoint  string `db:"endpoint"`
	P256dh    string `db:"p256dh"`
	Auth      string `db:"auth"`
	UserAgent string `db:"user_agent"`
}
