// Package pdf turns an invoice into an A4 PDF document.
package pdf

import (
	"context"
	"fmt"

	"tours-service/internal/invoice"
)

type Renderer interface {
	Render(ctx context.Context, inv *invoice.Invoice) ([]byte, error)
}

const (
	KindChrome = "chrome"
	KindFPDF   = "fpdf"
)

// New picks a renderer by kind. chromePath may be empty to let chromedp find a browser.
func New(kind, chromePath string, tmpl *invoice.Template) (Renderer, error) {
	switch kind {
	case KindChrome:
		return NewChromeRenderer(chromePath, tmpl), nil
	case KindFPDF, "":
		return NewFPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("pdf.New: unknown renderer %q", kind)
	}
}
