package invoice

import (
	_ "embed"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"tours-service/internal/models"
)

//go:embed templates/invoice.html
var defaultTemplate string

const defaultClient = "Invoice client"

// Invoice is everything a renderer needs: the breakdown plus the presentation fields.
type Invoice struct {
	Number     string
	BookingRef string
	PrettyDate string
	TourLabel  string
	ClientName string
	OrgAddress string

	Guide models.GuideProfile

	Breakdown
}

// Build assembles the invoice of t. tt and guide may be nil when the type or
// profile row no longer exists; the document then carries empty fields.
func Build(t *models.Tour, tt *models.TourType, guide *models.GuideProfile) (*Invoice, error) {
	const op = "invoice.Build"

	number, err := Number(t.Date, t.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ref, _ := BookingRef(t.ID)
	pretty, err := PrettyDate(t.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inv := &Invoice{
		Number:     number,
		BookingRef: ref,
		PrettyDate: pretty,
		TourLabel:  t.Type,
		ClientName: defaultClient,
	}
	if inv.TourLabel == "" {
		inv.TourLabel = "Tour"
	}

	var pricing models.Pricing
	if tt != nil {
		pricing = tt.Pricing
		if tt.InvoiceOrgName != "" {
			inv.ClientName = tt.InvoiceOrgName
		}
		inv.OrgAddress = tt.InvoiceOrgAddress
	}
	if guide != nil {
		inv.Guide = *guide
	}
	inv.Breakdown = Compute(t.Participants, pricing)

	return inv, nil
}

// Tokens is the flat string map substituted into the HTML template.
func (inv *Invoice) Tokens() map[string]string {
	return map[string]string{
		"invoiceNo":         inv.Number,
		"guideFirstName":    inv.Guide.FirstName,
		"guideLastName":     inv.Guide.LastName,
		"clientName":        inv.ClientName,
		"clientAddress":     inv.OrgAddress,
		"prettyDate":        inv.PrettyDate,
		"bookingRef":        inv.BookingRef,
		"tourLabel":         inv.TourLabel,
		"personsTotal":      strconv.Itoa(inv.PersonsTotal),
		"pricePerPerson":    Money(inv.UnitPrice),
		"gross":             Money(inv.Gross),
		"commissionPct":     Percent(inv.CommissionPct),
		"commission":        Money(inv.Commission),
		"total":             Money(inv.Net),
		"bankPayeeName":     inv.Guide.AccountName,
		"bankSortCode":      inv.Guide.SortCode,
		"bankAccountNumber": inv.Guide.AccountNumber,
		"bankEmail":         inv.Guide.Email,
	}
}

// FileName is the blob name of the rendered document.
func (inv *Invoice) FileName() string {
	return inv.Number + ".pdf"
}

// Template renders invoices from an HTML source with {{token}} placeholders.
type Template struct {
	src string
}

// NewTemplate returns the built-in template when src is empty.
func NewTemplate(src string) *Template {
	if src == "" {
		src = defaultTemplate
	}
	return &Template{src: src}
}

// HTML substitutes every {{ token }} with its escaped value. Unknown tokens become empty.
func (t *Template) HTML(inv *Invoice) string {
	tokens := inv.Tokens()
	return fasttemplate.ExecuteFuncString(t.src, "{{", "}}", func(w io.Writer, tag string) (int, error) {
		v, ok := tokens[strings.TrimSpace(tag)]
		if !ok {
			return 0, nil
		}
		return w.Write([]byte(html.EscapeString(v)))
	})
}
