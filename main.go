package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"locality-insights/client"
	"locality-insights/config"
	"locality-insights/controller"
	"locality-insights/models"
	"locality-insights/render"
	"locality-insights/services"
	"locality-insights/storage"
	"locality-insights/utils"
)

// app bundles everything the prompt loop needs.
type app struct {
	cfg       *config.Config
	logger    *utils.Logger
	ctrl      *controller.Controller
	printer   *render.Printer
	exporter  *services.Exporter
	inspector *services.Inspector
	charts    *render.ChartRenderer
	snapshots *render.Snapshotter
	history   storage.HistoryReader
	out       io.Writer
}

func main() {
	os.Exit(run())
}

func run() int {
	query := flag.String("q", "", "Submit a single query and exit")
	export := flag.Bool("export", false, "With -q, also export the dataset as CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger := utils.NewLoggerWithOptions(utils.LoggerOptions{Level: cfg.LogLevel, File: cfg.LogFile})
	logger.Info("=== Locality Insights client starting ===")
	logger.Info("Config: api: %s | output: %s | history: %s | snapshots: %v",
		cfg.APIBaseURL, cfg.OutputDir, cfg.HistoryBackend, cfg.SnapshotEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := storage.NewFileSink(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to prepare output directory: %v", err)
		return 1
	}

	store, err := openHistory(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open history store: %v", err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	svc := client.NewHTTPService(cfg.APIBaseURL, nil, logger)
	a := &app{
		cfg:       cfg,
		logger:    logger,
		ctrl:      controller.New(svc, logger),
		printer:   render.NewPrinter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd())),
		exporter:  services.NewExporter(sink, cfg.ExportFilename, logger),
		inspector: services.NewInspector(logger),
		charts:    render.NewChartRenderer(cfg.ChartWidth, cfg.ChartHeight),
		out:       os.Stdout,
	}
	if cfg.SnapshotEnabled {
		a.snapshots = render.NewSnapshotter(cfg.ChromeBin, logger)
	}
	if store != nil {
		a.history = store
		recorder := storage.NewRecorder(store, logger)
		a.ctrl.Machine().Subscribe(func(_, next controller.State) {
			if next.Status == controller.StatusSuccess {
				recorder.Record(ctx, next.Payload)
			}
		})
	}

	if *query != "" {
		a.submit(ctx, *query)
		st := a.ctrl.State()
		if *export && st.Status == controller.StatusSuccess {
			a.export()
		}
		if st.Status == controller.StatusError {
			return 2
		}
		return 0
	}

	a.printer.Print(a.ctrl.State())
	a.loop(ctx, os.Stdin)
	return 0
}

func openHistory(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.HistoryStore, error) {
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}

	switch cfg.HistoryBackend {
	case config.HistoryPostgres:
		ph, err := storage.NewPostgresHistory(ctx, cfg.DSN(), retry)
		if err != nil {
			return nil, err
		}
		return ph, nil
	case config.HistoryRedis:
		rh, err := storage.NewRedisHistory(ctx, cfg.RedisURL, cfg.RedisHistoryKey, cfg.RedisHistoryLimit, retry)
		if err != nil {
			return nil, err
		}
		return rh, nil
	default:
		return nil, nil
	}
}

func (a *app) loop(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(a.out, "query> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(l)
		}

		switch {
		case line == ":quit" || line == ":q":
			return
		case line == ":help":
			fmt.Fprintln(a.out, "  :t <n> submit template n | :templates | :export | :history | :quit")
		case line == ":templates":
			a.printer.PrintTemplates()
		case line == ":export":
			a.export()
		case line == ":history":
			a.showHistory(ctx)
		case strings.HasPrefix(line, ":t "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":t ")))
			if err != nil {
				fmt.Fprintln(a.out, "  usage: :t <n>")
				continue
			}
			q, err := controller.TemplateQuery(n)
			if err != nil {
				fmt.Fprintf(a.out, "  %v\n", err)
				continue
			}
			a.submit(ctx, q)
		default:
			a.submit(ctx, line)
		}
	}
}

// submit issues the query, shows the pending indicator, waits for the
// request to settle and renders the outcome.
func (a *app) submit(ctx context.Context, q string) {
	if !a.ctrl.Submit(ctx, q) {
		return
	}
	a.printer.Print(controller.Loading())
	a.ctrl.Wait()

	st := a.ctrl.State()
	a.printer.Print(st)
	if st.Status == controller.StatusSuccess {
		a.inspector.Inspect(st.Payload)
		a.publish(ctx, st.Payload)
	}
}

// publish writes the chart image, the HTML report and, if enabled, its
// browser snapshot. Failures are logged only.
func (a *app) publish(ctx context.Context, p *models.InsightPayload) {
	chartFile := ""
	if err := a.writeChart(p); err != nil {
		if !errors.Is(err, render.ErrNoData) {
			a.logger.Warn("[render] Chart failed: %v", err)
		}
	} else {
		chartFile = a.cfg.ChartFilename
		a.logger.Info("[render] Trend chart saved to %s", a.cfg.ChartPath())
	}

	reportPath := a.cfg.ReportPath()
	f, err := os.Create(reportPath)
	if err != nil {
		a.logger.Warn("[render] Report failed: %v", err)
		return
	}
	err = render.WriteReport(f, p, chartFile)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.logger.Warn("[render] Report failed: %v", err)
		return
	}
	a.logger.Info("[render] Report saved to %s", reportPath)

	if a.snapshots != nil {
		png := strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".png"
		if err := a.snapshots.Capture(ctx, reportPath, png); err != nil {
			a.logger.Warn("[snapshot] %v", err)
		}
	}
}

func (a *app) writeChart(p *models.InsightPayload) error {
	path := a.cfg.ChartPath()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.charts.Render(p.Chart, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func (a *app) export() {
	st := a.ctrl.State()
	if st.Status != controller.StatusSuccess {
		fmt.Fprintln(a.out, "  Nothing to export yet")
		return
	}
	if st.Payload.Table.Empty() {
		fmt.Fprintln(a.out, "  No rows to export")
		return
	}
	if !a.exporter.Export(st.Payload.Table) {
		fmt.Fprintln(a.out, "  Export failed, see log")
		return
	}
	fmt.Fprintf(a.out, "  Exported to %s\n", a.cfg.ExportPath())
}

func (a *app) showHistory(ctx context.Context) {
	if a.history == nil {
		fmt.Fprintln(a.out, "  History is disabled (set HISTORY_BACKEND)")
		return
	}
	entries, err := a.history.Recent(ctx, 10)
	if err != nil {
		a.logger.Warn("[history] %v", err)
		return
	}
	a.printer.PrintHistory(entries)
}
