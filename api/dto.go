package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// #### tours ####

type TourCreateRequest struct {
	GuideID   string `json:"guide_id,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Type      string `json:"type"`
	IsPrivate bool   `json:"is_private"`
}

type TourTimeRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Tour is redacted for viewers a private tour is hidden from: Type is emptied
// and Participants omitted.
type Tour struct {
	ID                 string        `json:"id"`
	Date               string        `json:"date"`
	StartTime          string        `json:"start_time"`
	EndTime            string        `json:"end_time"`
	Type               string        `json:"type,omitempty"`
	Status             string        `json:"status"`
	GuideID            string        `json:"guide_id"`
	CreatedBy          string        `json:"created_by"`
	IsPrivate          bool          `json:"is_private"`
	Redacted           bool          `json:"redacted,omitempty"`
	ParticipantsLocked bool          `json:"participants_locked"`
	HasInvoice         bool          `json:"has_invoice"`
	PersonsBooked      int           `json:"persons_booked"`
	Participants       []Participant `json:"participants,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

type TourListQuery struct {
	From    string
	To      string
	GuideID string
}

// #### participants ####

type ParticipantRequest struct {
	Name      string `json:"name"`
	GroupSize int    `json:"group_size"`
}

type AttendanceRequest struct {
	Status string `json:"attendance_status"`
}

type Participant struct {
	ID               string `json:"id"`
	TourID           string `json:"tour_id"`
	Name             string `json:"name"`
	GroupSize        int    `json:"group_size"`
	AttendanceStatus string `json:"attendance_status"`
}

// #### invoices ####

// Invoice carries raw amounts as fixed two-decimal strings plus their display form.
type Invoice struct {
	InvoiceNo     string           `json:"invoice_no"`
	BookingRef    string           `json:"booking_ref"`
	PrettyDate    string           `json:"pretty_date"`
	TourLabel     string           `json:"tour_label"`
	ClientName    string           `json:"client_name"`
	PersonsTotal  int              `json:"persons_total"`
	UnitPrice     string           `json:"unit_price"`
	Gross         string           `json:"gross"`
	CommissionPct string           `json:"commission_percent"`
	Commission    string           `json:"commission"`
	Total         string           `json:"total"`
	Display       InvoiceFormatted `json:"display"`
}

type InvoiceFormatted struct {
	UnitPrice  string `json:"unit_price"`
	Gross      string `json:"gross"`
	Commission string `json:"commission"`
	Total      string `json:"total"`
}

type LockResponse struct {
	TourID   string  `json:"tour_id"`
	FilePath string  `json:"file_path"`
	Invoice  Invoice `json:"invoice"`
}

// InvoiceFile is a stored document ready to stream.
type InvoiceFile struct {
	Name string
	Data []byte
}

// #### tour types ####

type TourTypeRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PaymentType       string          `json:"payment_type"`
	TicketPrice       decimal.Decimal `json:"ticket_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	FeePerParticipant decimal.Decimal `json:"fee_per_participant"`
	Shareable         bool            `json:"shareable"`
	InvoiceOrgName    string          `json:"invoice_org_name"`
	InvoiceOrgAddress string          `json:"invoice_org_address"`
}

type TourType struct {
	ID                string          `json:"id"`
	GuideID           string          `json:"guide_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PaymentType       string          `json:"payment_type"`
	TicketPrice       decimal.Decimal `json:"ticket_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	FeePerParticipant decimal.Decimal `json:"fee_per_participant"`
	Shareable         bool            `json:"shareable"`
	InvoiceOrgName    string          `json:"invoice_org_name"`
	InvoiceOrgAddress string          `json:"invoice_org_address"`
	Own               bool            `json:"own"`
}

// #### profile ####

type ProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type BankDetailsRequest struct {
	AccountName   string `json:"account_name"`
	SortCode      string `json:"sort_code"`
	AccountNumber string `json:"account_number"`
}

type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	AccountName   string `json:"account_name"`
	SortCode      string `json:"sort_code"`
	AccountNumber string `json:"account_number"`
}

type Guide struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// #### availability ####

type AvailabilityRequest struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type Availability struct {
	GuideID string   `json:"guide_id"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Dates   []string `json:"dates"`
}

// #### sharing ####

type InviteRequest struct {
	Email string `json:"email"`
}

type InviteResponseRequest struct {
	Accept bool `json:"accept"`
}

type Invite struct {
	ID          string    `json:"id"`
	FromGuideID string    `json:"from_guide_id"`
	ToGuideID   string    `json:"to_guide_id"`
	Status      string    `json:"status"`
	Incoming    bool      `json:"incoming"`
	CreatedAt   time.Time `json:"created_at"`
}

type Share struct {
	ID           string    `json:"id"`
	GuideID      string    `json:"guide_id"`
	SharedWithID string    `json:"shared_with_id"`
	Guide        *Guide    `json:"guide,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// #### push ####

type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type PushSubscriptionRequest struct {
	Endpoint  string   `json:"endpoint"`
	Keys      PushKeys `json:"keys"`
	UserAgent string   `json:"user_agent"`
}

type NotificationRequest struct {
	ToUserID string         `json:"to_user_id"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data"`
}

type NotificationResult struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Removed int      `json:"removed"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors"`
}
