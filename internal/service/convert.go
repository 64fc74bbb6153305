package service

import (
	"tours-service/api"
	"tours-service/internal/invoice"
	"tours-service/internal/models"
)

func toTour(t *models.Tour, viewer string) api.Tour {
	out := api.Tour{
		ID:                 t.ID,
		Date:               t.Date,
		StartTime:          t.StartTime.String(),
		EndTime:            t.EndTime.String(),
		Type:               t.Type,
		Status:             string(t.Status),
		GuideID:            t.GuideID,
		CreatedBy:          t.CreatedBy,
		IsPrivate:          t.IsPrivate,
		ParticipantsLocked: t.ParticipantsLocked,
		HasInvoice:         t.InvoicePath != nil,
		CreatedAt:          t.CreatedAt,
	}

	if t.PrivateTo(viewer) {
		out.Type = ""
		out.Redacted = true
		return out
	}

	for _, p := range t.Participants {
		out.PersonsBooked += p.GroupSize
		out.Participants = append(out.Participants, toParticipant(&p))
	}
	return out
}

func toParticipant(p *models.Participant) api.Participant {
	return api.Participant{
		ID:               p.ID,
		TourID:           p.TourID,
		Name:             p.Name,
		GroupSize:        p.GroupSize,
		AttendanceStatus: string(p.AttendanceStatus),
	}
}

func toInvoice(inv *invoice.Invoice) api.Invoice {
	return api.Invoice{
		InvoiceNo:     inv.Number,
		BookingRef:    inv.BookingRef,
		PrettyDate:    inv.PrettyDate,
		TourLabel:     inv.TourLabel,
		ClientName:    inv.ClientName,
		PersonsTotal:  inv.PersonsTotal,
		UnitPrice:     inv.UnitPrice.StringFixed(2),
		Gross:         inv.Gross.StringFixed(2),
		CommissionPct: inv.CommissionPct.StringFixed(2),
		Commission:    inv.Commission.StringFixed(2),
		Total:         inv.Net.StringFixed(2),
		Display: api.InvoiceFormatted{
			UnitPrice:  invoice.Money(inv.UnitPrice),
			Gross:      invoice.Money(inv.Gross),
			Commission: invoice.Money(inv.Commission),
			Total:      invoice.Money(inv.Net),
		},
	}
}

func toTourType(tt *models.TourType, viewer string) api.TourType {
	out := api.TourType{
		ID:                tt.ID,
		GuideID:           tt.GuideID,
		Name:              tt.Name,
		Description:       tt.Description,
		Shareable:         tt.Shareable,
		InvoiceOrgName:    tt.InvoiceOrgName,
		InvoiceOrgAddress: tt.InvoiceOrgAddress,
		Own:               tt.GuideID == viewer,
	}
	switch p := tt.Pricing.(type) {
	case models.Free:
		out.PaymentType = string(models.PaymentFree)
		out.FeePerParticipant = p.FeePerParticipant
	case models.Prepaid:
		out.PaymentType = string(models.PaymentPrepaid)
		out.TicketPrice = p.TicketPrice
		out.CommissionPercent = p.Commission
	}
	return out
}

func toProfile(p *models.GuideProfile) api.Profile {
	return api.Profile{
		ID:            p.ID,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		AccountName:   p.AccountName,
		SortCode:      p.SortCode,
		AccountNumber: p.AccountNumber,
	}
}

func toGuide(p *models.GuideProfile) *api.Guide {
	return &api.Guide{ID: p.ID, Email: p.Email, FirstName: p.FirstName, LastName: p.LastName}
}

func toInvite(inv *models.ShareInvite, viewer string) api.Invite {
	return api.Invite{
		ID:          inv.ID,
		FromGuideID: inv.FromGuideID,
		ToGuideID:   inv.ToGuideID,
		Status:      string(inv.Status),
		Incoming:    inv.ToGuideID == viewer,
		CreatedAt:   inv.CreatedAt,
	}
}
