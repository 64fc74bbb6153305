// Package invoice derives the monetary breakdown of a locked tour and the
// token set its document is rendered from. Nothing here touches I/O.
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tours-service/internal/models"
)

const refLength = 8

var hundred = decimal.NewFromInt(100)

var ErrShortID = errors.New("tour id is too short for a booking reference")

// Breakdown is the monetary result for one tour. Gross and Commission are rounded
// half-even to pence, Net is their exact difference.
type Breakdown struct {
	PersonsTotal  int
	UnitPrice     decimal.Decimal
	CommissionPct decimal.Decimal
	Gross         decimal.Decimal
	Commission    decimal.Decimal
	Net           decimal.Decimal
}

// Persons sums group sizes of arrived participants only.
func Persons(participants []models.Participant) int {
	total := 0
	for _, p := range participants {
		if p.AttendanceStatus == models.AttendanceArrived {
			total += p.GroupSize
		}
	}
	return total
}

// Compute applies pricing to the arrived headcount of participants. A nil pricing
// is treated as a zero-priced prepaid type.
func Compute(participants []models.Participant, pricing models.Pricing) Breakdown {
	if pricing == nil {
		pricing = models.Prepaid{}
	}

	persons := Persons(participants)
	unit := pricing.UnitPrice()
	pct := pricing.CommissionPercent()

	gross := unit.Mul(decimal.NewFromInt(int64(persons))).RoundBank(2)
	commission := gross.Mul(pct).Div(hundred).RoundBank(2)

	return Breakdown{
		PersonsTotal:  persons,
		UnitPrice:     unit,
		CommissionPct: pct,
		Gross:         gross,
		Commission:    commission,
		Net:           gross.Sub(commission),
	}
}

// BookingRef is the upper-cased first eight characters of the tour id.
func BookingRef(tourID string) (string, error) {
	if len(tourID) < refLength {
		return "", ErrShortID
	}
	return strings.ToUpper(tourID[:refLength]), nil
}

// Number returns INV-YYYYMMDD-XXXXXXXX for the tour.
func Number(date, tourID string) (string, error) {
	const op = "invoice.Number"

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	ref, err := BookingRef(tourID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return "INV-" + strings.ReplaceAll(date, "-", "") + "-" + ref, nil
}

// PrettyDate renders an ISO date the way a British invoice prints it, e.g. "Mon, 2 Mar 2026".
func PrettyDate(date string) (string, error) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("invoice.PrettyDate: %w", err)
	}
	return d.Format("Mon, 2 Jan 2006"), nil
}
