package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ttsgateway/internal/platform/config"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts"
	"ttsgateway/internal/tts/durability"
	httptransport "ttsgateway/internal/transport/http"

	// Provider registration.
	_ "ttsgateway/internal/providers/deepgram"
	_ "ttsgateway/internal/providers/elevenlabs"
	_ "ttsgateway/internal/providers/google"
	_ "ttsgateway/internal/providers/polly"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tts-gateway failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	provider := flag.String("provider", config.OrDefault("TTS_PROVIDER", "polly"),
		"provider adapter to run (polly, elevenlabs, google, deepgram)")
	addr := flag.String("addr", config.OrDefault("TTS_LISTEN_ADDR", ":8080"), "listen address")
	mode := flag.String("mode", "live", "durability mode (live or replay)")
	journalPath := flag.String("journal", "", "sqlite journal path; empty keeps the journal in memory")
	logLevel := flag.String("log-level", config.OrDefault("TTS_LOG_LEVEL", "info"), "log level")
	logDir := flag.String("log-dir", "", "log directory; empty logs to stdout only")
	flag.Parse()

	config.LoadDotEnv()

	logCfg := logging.Config{Level: *logLevel}
	if *logDir != "" {
		logCfg.Dir = *logDir
		logCfg.Filename = "tts-gateway.log"
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer log.Close()

	var journal durability.Journal
	if *journalPath != "" {
		journal, err = durability.NewSqliteJournal(*journalPath, executionID(*provider))
		if err != nil {
			return err
		}
	} else {
		journal = durability.NewMemoryJournal()
	}

	durabilityMode := durability.ModeLive
	if *mode == "replay" {
		durabilityMode = durability.ModeReplay
	}

	p, err := tts.NewProvider(*provider, log)
	if err != nil {
		return err
	}
	wrapper := durability.NewWrapper(p, journal, durabilityMode, log)
	facade := tts.NewFacade(wrapper, log)

	router := httptransport.Build(httptransport.Options{
		Logger: log,
		Debug:  *logLevel == "debug",
	})
	httptransport.NewHandlers(facade, log).Mount(router.API)

	server := &http.Server{
		Addr:              *addr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("listening", "addr", *addr, "provider", *provider, "mode", string(durabilityMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// executionID scopes journal rows so one sqlite file can hold journals for
// several runs side by side.
func executionID(provider string) string {
	if id, ok := config.Optional("TTS_EXECUTION_ID"); ok {
		return id
	}
	return provider
}
