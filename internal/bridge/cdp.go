package bridge

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const readyPollInterval = 200 * time.Millisecond

// NavigatePage uses raw CDP Page.navigate + polls document.readyState until the
// document is parsed (DOMContentLoaded). Subresources are not waited for.
func NavigatePage(ctx context.Context, url string) error {
	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errText, _, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errText != "" {
				return &navErrText{errText}
			}
			return nil
		}),
	)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		var state string
		err = chromedp.Run(ctx,
			chromedp.Evaluate("document.readyState", &state),
		)
		if err == nil && (state == "interactive" || state == "complete") {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// navErrText carries Chrome's own load failure, e.g. net::ERR_NAME_NOT_RESOLVED.
type navErrText struct{ text string }

func (e *navErrText) Error() string { return e.text }

var ImageBlockPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
}

var MediaBlockPatterns = append(append([]string{}, ImageBlockPatterns...),
	"*.mp4", "*.webm", "*.ogg", "*.mp3", "*.wav", "*.flac", "*.aac",
)

// SetResourceBlocking uses Network.setBlockedURLs to block resources by URL pattern.
func SetResourceBlocking(ctx context.Context, patterns []string) error {
	return chromedp.Run(ctx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(patterns) == 0 {
				return network.SetBlockedURLs([]string{}).Do(ctx)
			}
			return network.SetBlockedURLs(patterns).Do(ctx)
		}),
	)
}

// SetViewport pins the page's layout size, independent of the window size.
func SetViewport(ctx context.Context, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false).Do(ctx)
		}),
	)
}

// BodyText returns document.body.innerText, or "" before the body exists.
func BodyText(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Run(ctx,
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	return text, err
}

const bodyVisibleJS = `(() => {
  const b = document.body;
  if (!b) return false;
  const r = b.getBoundingClientRect();
  return r.width > 0 && r.height > 0 && getComputedStyle(b).visibility !== 'hidden';
})()`

// BodyVisible reports whether the body has a non-empty, visible box.
func BodyVisible(ctx context.Context) (bool, error) {
	var ok bool
	err := chromedp.Run(ctx, chromedp.Evaluate(bodyVisibleJS, &ok))
	return ok, err
}
