package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"locality-insights/client"
	"locality-insights/config"
	"locality-insights/controller"
	"locality-insights/render"
	"locality-insights/services"
	"locality-insights/storage"
	"locality-insights/utils"
)

const loopPayload = `{"summary":"Wakad grew steadily.","query":"Give me analysis of Wakad","areas":["Wakad"],
"chart":[{"name":"Wakad","points":[{"year":2021,"price":95,"demand":4},{"year":2020,"price":90,"demand":3}]}],
"table":[{"locality":"Wakad","year":2020,"note":"resale, new"}]}`

func newTestApp(t *testing.T, handler http.HandlerFunc) (*app, string) {
	a, dir, _ := newTestAppWithOutput(t, handler)
	return a, dir
}

// newTestAppWithOutput also returns the buffer that receives the printer and
// prompt output.
func newTestAppWithOutput(t *testing.T, handler http.HandlerFunc) (*app, string, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:     srv.URL,
		OutputDir:      dir,
		ExportFilename: "filtered_data.csv",
		ChartFilename:  "trend_chart.png",
		ReportFilename: "report.html",
	}
	sink, err := storage.NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := utils.NewNopLogger()
	out := &bytes.Buffer{}

	return &app{
		cfg:       cfg,
		logger:    logger,
		ctrl:      controller.New(client.NewHTTPService(srv.URL, nil, logger), logger),
		printer:   render.NewPrinter(out, false),
		exporter:  services.NewExporter(sink, cfg.ExportFilename, logger),
		inspector: services.NewInspector(logger),
		charts:    render.NewChartRenderer(800, 300),
		out:       out,
	}, dir, out
}

func TestLoopSubmitsAndExports(t *testing.T) {
	var calls int32
	a, dir := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(loopPayload))
	})

	in := strings.NewReader("   \n:t 1\n:export\n:quit\nnever submitted\n")
	a.loop(context.Background(), in)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("requests: got %d, want 1", n)
	}

	csv, err := os.ReadFile(filepath.Join(dir, "filtered_data.csv"))
	if err != nil {
		t.Fatalf("export missing: %v", err)
	}
	if want := "locality,year,note\nWakad,2020,\"resale, new\""; string(csv) != want {
		t.Errorf("csv: got %q, want %q", csv, want)
	}

	for _, name := range []string{"trend_chart.png", "report.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestLoopErrorSkipsArtifacts(t *testing.T) {
	a, dir := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No matching localities found in dataset"}`))
	})

	a.loop(context.Background(), strings.NewReader("Give me analysis of Atlantis\n:export\n"))

	st := a.ctrl.State()
	if st.Status != controller.StatusError || st.Message != "No matching localities found in dataset" {
		t.Errorf("state: got %+v", st)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no artifacts expected after an error, found %d", len(entries))
	}
}

func TestLoopStopsOnCancelledContext(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	a.loop(ctx, pr)
}

func TestSubmitPrintsPendingOnceThenPayload(t *testing.T) {
	a, _, out := newTestAppWithOutput(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loopPayload))
	})

	a.submit(context.Background(), "Give me analysis of Wakad")

	got := out.String()
	if n := strings.Count(got, "Analyzing..."); n != 1 {
		t.Errorf("pending indicator: got %d, want 1", n)
	}
	if n := strings.Count(got, "INSIGHT SUMMARY"); n != 1 {
		t.Errorf("payload renders: got %d, want 1", n)
	}
	if strings.Index(got, "Analyzing...") > strings.Index(got, "INSIGHT SUMMARY") {
		t.Error("pending indicator should come before the payload")
	}
}

func TestSingleYearResponseWritesChart(t *testing.T) {
	a, dir := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":"s","query":"q","areas":["Wakad"],
"chart":[{"name":"Wakad","points":[{"year":2020,"price":100,"demand":5}]}],
"table":[{"locality":"Wakad","year":2020,"price":100}]}`))
	})

	a.submit(context.Background(), "Give me analysis of Wakad")

	if _, err := os.Stat(filepath.Join(dir, "trend_chart.png")); err != nil {
		t.Errorf("chart not written for a single year: %v", err)
	}
}

func TestExportReportsFailedSave(t *testing.T) {
	a, dir, out := newTestAppWithOutput(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loopPayload))
	})
	a.submit(context.Background(), "Give me analysis of Wakad")

	// A directory in place of the export file makes the rename fail.
	if err := os.Mkdir(filepath.Join(dir, "filtered_data.csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "filtered_data.csv", "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	a.export()

	if strings.Contains(out.String(), "Exported to") {
		t.Errorf("success reported after a failed save: %q", out.String())
	}
	if !strings.Contains(out.String(), "Export failed") {
		t.Errorf("output: got %q", out.String())
	}
}
