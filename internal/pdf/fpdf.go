package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"tours-service/internal/invoice"
)

// FPDFRenderer draws the invoice directly, without a browser.
type FPDFRenderer struct{}

func NewFPDFRenderer() *FPDFRenderer {
	return &FPDFRenderer{}
}

func (FPDFRenderer) Render(ctx context.Context, inv *invoice.Invoice) ([]byte, error) {
	const op = "pdf.FPDFRenderer.Render"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens := inv.Tokens()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(inv.Number, true)
	doc.SetMargins(16, 18, 16)
	doc.AddPage()
	// cp1252 so that the pound sign survives the core fonts
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(100, 10, "INVOICE", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 10, tr(tokens["guideFirstName"]+" "+tokens["guideLastName"]), "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(97, 110, 124)
	doc.CellFormat(100, 5, tokens["invoiceNo"], "", 0, "L", false, 0, "")
	doc.CellFormat(0, 5, tr(tokens["bankEmail"]), "", 1, "R", false, 0, "")
	doc.CellFormat(100, 5, tokens["prettyDate"], "", 1, "L", false, 0, "")
	doc.SetTextColor(31, 41, 51)

	y := doc.GetY() + 4
	doc.Line(16, y, 194, y)
	doc.SetY(y + 6)

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, "Bill to", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, tr(tokens["clientName"]), "", 1, "L", false, 0, "")
	if addr := tokens["clientAddress"]; addr != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, tr(addr), "", "L", false)
	}
	doc.Ln(8)

	widths := []float64{70, 30, 22, 28, 28}
	headers := []string{"Description", "Booking ref", "Persons", "Price", "Amount"}
	aligns := []string{"L", "L", "R", "R", "R"}

	doc.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "B", 0, aligns[i], false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	row := []string{
		tokens["tourLabel"] + " (" + tokens["prettyDate"] + ")",
		tokens["bookingRef"],
		tokens["personsTotal"],
		tokens["pricePerPerson"],
		tokens["gross"],
	}
	for i, v := range row {
		doc.CellFormat(widths[i], 8, tr(v), "B", 0, aligns[i], false, 0, "")
	}
	doc.Ln(12)

	totals := [][2]string{
		{"Gross", tokens["gross"]},
		{"Commission (" + tokens["commissionPct"] + "%)", "-" + tokens["commission"]},
	}
	for _, line := range totals {
		doc.CellFormat(122, 7, "", "", 0, "L", false, 0, "")
		doc.CellFormat(28, 7, line[0], "", 0, "R", false, 0, "")
		doc.CellFormat(28, 7, tr(line[1]), "", 1, "R", false, 0, "")
	}
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(122, 9, "", "", 0, "L", false, 0, "")
	doc.CellFormat(28, 9, "Total due", "T", 0, "R", false, 0, "")
	doc.CellFormat(28, 9, tr(tokens["total"]), "T", 1, "R", false, 0, "")

	doc.Ln(14)
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, "Payment details", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, tr("Payee: "+tokens["bankPayeeName"]), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Sort code: "+tokens["bankSortCode"], "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Account number: "+tokens["bankAccountNumber"], "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
