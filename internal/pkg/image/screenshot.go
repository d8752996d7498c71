// Package image converts a rendered chart page into a PNG screenshot.
package image

import (
	"context"
	"fmt"
	"io"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Screenshotter captures a PNG image from an HTML chart page.
type Screenshotter struct {
	options
}

// New builds a [Screenshotter].
func New(opts ...Option) *Screenshotter {
	return &Screenshotter{
		options: optionsWithDefaults(opts),
	}
}

// Capture renders the HTML read from source in a headless browser and
// writes the resulting PNG screenshot to dest.
func (s *Screenshotter) Capture(dest io.Writer, source io.Reader) error {
	screenshot, err := s.screenshot(source)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	return nil
}

func (s *Screenshotter) screenshot(reader io.Reader) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	const qualityPNG = 100 // 100 forces PNG output

	var screenshot []byte
	err = chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    s.Height,
			Width:     s.Width,
			Landscape: true,
		}),
		chromedp.Navigate("data:text/html,"+string(content)),
		// the charts are drawn by a script: give the page time to settle
		chromedp.Sleep(s.SleepDuration),
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}
