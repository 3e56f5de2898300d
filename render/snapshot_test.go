package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"locality-insights/utils"
)

func TestFindChromeBinaryHonoursEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	if got := findChromeBinary(); got != "/opt/custom/chrome" {
		t.Errorf("findChromeBinary: got %q", got)
	}
}

func TestNewSnapshotterPrefersExplicitBinary(t *testing.T) {
	s := NewSnapshotter("/usr/local/bin/chromium", utils.NewNopLogger())
	if s.chromeBin != "/usr/local/bin/chromium" {
		t.Errorf("chromeBin: got %q", s.chromeBin)
	}
}

func TestCaptureRendersReport(t *testing.T) {
	if os.Getenv("SNAPSHOT_TEST") == "" {
		t.Skip("set SNAPSHOT_TEST=1 to run against a local Chrome")
	}
	bin := findChromeBinary()
	if bin == "" {
		t.Skip("no Chrome/Chromium binary found")
	}

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteReport(f, samplePayload(), ""); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pngPath := filepath.Join(dir, "out", "report.png")
	s := NewSnapshotter(bin, utils.NewNopLogger())
	if err := s.Capture(context.Background(), htmlPath, pngPath); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if info, err := os.Stat(pngPath); err != nil || info.Size() == 0 {
		t.Errorf("expected a non-empty screenshot, stat err=%v", err)
	}
}
