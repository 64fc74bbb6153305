package invoice

import (
	"testing"

	"github.com/shopspring/decimal"

	"tours-service/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func participant(size int, st models.AttendanceStatus) models.Participant {
	return models.Participant{GroupSize: size, AttendanceStatus: st}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestCompute_Prepaid(t *testing.T) {
	pricing := models.Prepaid{TicketPrice: dec("20.00"), Commission: dec("15")}
	ps := []models.Participant{
		participant(2, models.AttendanceArrived),
		participant(1, models.AttendanceArrived),
	}

	b := Compute(ps, pricing)

	if b.PersonsTotal != 3 {
		t.Errorf("PersonsTotal = %d, want 3", b.PersonsTotal)
	}
	assertDec(t, "gross", b.Gross, "60.00")
	assertDec(t, "commission", b.Commission, "9.00")
	assertDec(t, "net", b.Net, "51.00")
}

func TestCompute_Free(t *testing.T) {
	pricing := models.Free{FeePerParticipant: dec("5.00")}
	ps := []models.Participant{
		participant(4, models.AttendanceArrived),
		participant(3, models.AttendanceAbsent),
	}

	b := Compute(ps, pricing)

	if b.PersonsTotal != 4 {
		t.Errorf("PersonsTotal = %d, want 4", b.PersonsTotal)
	}
	assertDec(t, "gross", b.Gross, "20.00")
	assertDec(t, "commission", b.Commission, "0")
	assertDec(t, "net", b.Net, "20.00")
}

func TestPersons_OnlyArrivedCount(t *testing.T) {
	tests := []struct {
		name string
		ps   []models.Participant
		want int
	}{
		{"empty", nil, 0},
		{"all absent", []models.Participant{participant(3, models.AttendanceAbsent)}, 0},
		{"unset ignored", []models.Participant{participant(5, models.AttendanceUnset), participant(2, models.AttendanceArrived)}, 2},
		{"mixed", []models.Participant{
			participant(1, models.AttendanceArrived),
			participant(6, models.AttendanceAbsent),
			participant(4, models.AttendanceArrived),
		}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Persons(tt.ps); got != tt.want {
				t.Errorf("Persons = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute_RoundsCommissionHalfEven(t *testing.T) {
	// 3 x 0.45 = 1.35; 1.35 * 50% = 0.675 -> 0.68 (half-even rounds to the even 8)
	b := Compute([]models.Participant{participant(3, models.AttendanceArrived)},
		models.Prepaid{TicketPrice: dec("0.45"), Commission: dec("50")})
	assertDec(t, "commission", b.Commission, "0.68")
	assertDec(t, "net", b.Net, "0.67")

	// 1 x 1.25 * 50% = 0.625 -> 0.62
	b = Compute([]models.Participant{participant(1, models.AttendanceArrived)},
		models.Prepaid{TicketPrice: dec("1.25"), Commission: dec("50")})
	assertDec(t, "commission", b.Commission, "0.62")
	assertDec(t, "net", b.Net, "0.63")
}

func TestCompute_NilPricing(t *testing.T) {
	b := Compute([]models.Participant{participant(2, models.AttendanceArrived)}, nil)
	if b.PersonsTotal != 2 {
		t.Errorf("PersonsTotal = %d, want 2", b.PersonsTotal)
	}
	assertDec(t, "gross", b.Gross, "0")
	assertDec(t, "net", b.Net, "0")
}

func TestNumberAndRef(t *testing.T) {
	n, err := Number("2026-03-02", "3f2a9c1d-aaaa-bbbb-cccc-000000000000")
	if err != nil {
		t.Fatalf("Number: %v", err)
	}
	if n != "INV-20260302-3F2A9C1D" {
		t.Errorf("unexpected invoice number %q", n)
	}

	ref, err := BookingRef("3f2a9c1d-aaaa")
	if err != nil || ref != "3F2A9C1D" {
		t.Errorf("BookingRef = %q, %v", ref, err)
	}

	if _, err := Number("02/03/2026", "3f2a9c1d-aaaa"); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := BookingRef("abc"); err == nil {
		t.Error("expected error for short id")
	}
}

func TestPrettyDate(t *testing.T) {
	got, err := PrettyDate("2026-03-02")
	if err != nil {
		t.Fatalf("PrettyDate: %v", err)
	}
	if got != "Mon, 2 Mar 2026" {
		t.Errorf("PrettyDate = %q", got)
	}
}

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"0":      "£0.00",
		"9":      "£9.00",
		"51.5":   "£51.50",
		"20.005": "£20.01",
		"-3.2":   "-£3.20",
		"1234.5": "£1,234.50",
		"0.995":  "£1.00",
		// beyond float64 precision
		"123456789012345.67": "£123,456,789,012,345.67",
	}
	for in, want := range tests {
		if got := Money(dec(in)); got != want {
			t.Errorf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}
