package config

import (
	"context"
	"fmt"
	"membership/domain"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"
)

// ChromeRenderer prints HTML to PDF through a shared headless-Chrome
// allocator. Every Render call opens its own browser tab and cancels it on
// every exit path; a semaphore bounds how many tabs run at once.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	sem         *semaphore.Weighted
	timeout     time.Duration
}

func getRenderPoolSize() int64 {
	if v := os.Getenv("RENDER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return int64(n)
		}
	}
	return 2
}

func getRenderTimeout() time.Duration {
	if v := os.Getenv("RENDER_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 30 * time.Second
}

func BootRenderer() (*ChromeRenderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	fmt.Println("PDF renderer initialized")
	return &ChromeRenderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		sem:         semaphore.NewWeighted(getRenderPoolSize()),
		timeout:     getRenderTimeout(),
	}, nil
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &domain.RenderError{Err: err}
	}
	defer r.sem.Release(1)

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, r.timeout)
	defer runCancel()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, runCancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(cctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(cctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(cctx)
		}),
		chromedp.ActionFunc(func(cctx context.Context) error {
			// A4 with margins around 10mm, background printing on.
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(cctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &domain.RenderError{Err: err}
	}

	return pdf, nil
}

// Shutdown releases the shared browser allocator.
func (r *ChromeRenderer) Shutdown() {
	r.allocCancel()
}
