package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"tours-service/internal/invoice"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromeRenderer prints the HTML invoice through a headless browser, one
// browser process per document.
type ChromeRenderer struct {
	execPath string
	tmpl     *invoice.Template
}

func NewChromeRenderer(execPath string, tmpl *invoice.Template) *ChromeRenderer {
	if tmpl == nil {
		tmpl = invoice.NewTemplate("")
	}
	return &ChromeRenderer{execPath: execPath, tmpl: tmpl}
}

func (c *ChromeRenderer) Render(ctx context.Context, inv *invoice.Invoice) ([]byte, error) {
	const op = "pdf.ChromeRenderer.Render"

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	html := c.tmpl.HTML(inv)

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
