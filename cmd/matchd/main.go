package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lifematch-ai/matchd/internal/api"
	"github.com/lifematch-ai/matchd/internal/config"
	"github.com/lifematch-ai/matchd/internal/events"
	"github.com/lifematch-ai/matchd/internal/groq"
	"github.com/lifematch-ai/matchd/internal/history"
	"github.com/lifematch-ai/matchd/internal/matcher"
	"github.com/lifematch-ai/matchd/internal/pipeline"
	"github.com/lifematch-ai/matchd/internal/record"
	"github.com/lifematch-ai/matchd/internal/results"
)

func main() {
	analyzePath := flag.String("analyze", "", "run one analysis on the given conversation file and exit")
	outputPath := flag.String("out", "analysis_results.csv", "output path for -analyze mode")
	flag.Parse()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("matchd starting", "port", cfg.Port, "model", cfg.GroqModel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Groq client. A missing key is not fatal: /api/health reports it and the
	// first analysis surfaces the auth failure.
	if cfg.GroqAPIKey == "" {
		slog.Warn("GROQ_API_KEY not set — analyses will fail until configured")
	}
	llm := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqTimeout)

	// Analysis history (optional — matchd works without Postgres, just no history)
	var hist *history.Store
	if cfg.DatabaseURL != "" {
		var err error
		hist, err = history.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without analysis history")
	}

	// Completion events (optional)
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	res := results.NewStore()
	pipe := pipeline.New(matcher.New(llm, slog.Default()), res, hist, pub, slog.Default())

	// One-shot mode mirrors the original standalone analyzer script.
	if *analyzePath != "" {
		rec, err := pipe.Run(ctx, *analyzePath, *outputPath)
		if err != nil {
			slog.Error("analysis failed", "error", err)
			os.Exit(1)
		}
		printMatch(os.Stdout, rec, results.ExportPath(*outputPath))
		return
	}

	// A nil *history.Store must stay a nil interface so the API can detect it.
	var histAPI api.History
	if hist != nil {
		histAPI = hist
	}

	srv := api.NewServer(cfg.Port, pipe, res, histAPI, cfg.GroqAPIKey != "", slog.Default())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("matchd ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		slog.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}
	slog.Info("matchd stopped")
}

func printMatch(w io.Writer, rec record.FlatRecord, exportedPath string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "BEST MATCH FOR IMMEDIATE TRANSPLANT")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Patient ID: %s\n", rec.PatientID)
	fmt.Fprintf(w, "Medical Urgency: %s\n", rec.PatientMedicalUrgency)
	fmt.Fprintf(w, "Wait Time: %s days\n", rec.PatientWaitTime)
	fmt.Fprintf(w, "Blood Type: %s\n", rec.PatientBloodType)
	fmt.Fprintf(w, "Organ Needed: %s\n", rec.PatientOrganNeeded)
	fmt.Fprintf(w, "Donor ID: %s\n", rec.DonorID)
	fmt.Fprintf(w, "Compatibility Score: %s\n", rec.CompatibilityScore)
	fmt.Fprintf(w, "Match Priority: %s\n", rec.MatchPriority)
	if rec.KeyPoints != "" {
		fmt.Fprintln(w, "\nKey Points:")
		for _, p := range strings.Split(rec.KeyPoints, record.KeyPointsSeparator) {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "\nResults also saved to: %s\n", exportedPath)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
