package render

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"locality-insights/utils"
)

const snapshotTimeout = 45 * time.Second

// Snapshotter opens a rendered HTML report in headless Chrome and saves a
// full-page screenshot of it.
type Snapshotter struct {
	chromeBin string
	logger    *utils.Logger
}

// NewSnapshotter uses chromeBin when set, otherwise searches the usual
// install locations.
func NewSnapshotter(chromeBin string, logger *utils.Logger) *Snapshotter {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &Snapshotter{chromeBin: chromeBin, logger: logger}
}

// Capture loads htmlPath and writes a PNG screenshot to pngPath.
func (s *Snapshotter) Capture(ctx context.Context, htmlPath, pngPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: resolve %q: %w", htmlPath, err)
	}
	pageURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, snapshotTimeout)
	defer cancelTimeout()

	var shot []byte
	s.logger.Debug("[snapshot] Rendering %s", pageURL)
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, 90),
	); err != nil {
		return fmt.Errorf("snapshot: render %s: %w", pageURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(pngPath, shot, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", pngPath, err)
	}

	s.logger.Info("[snapshot] Saved report snapshot to %s", pngPath)
	return nil
}

// findChromeBinary returns CHROME_BIN, else the first Chrome or Chromium
// found on PATH or at a well-known install location, else "".
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
