// Command chainwatch resolves and validates per-chain parameters at
// startup: structural validation, cache-or-discovery resolution of the
// missing parameters, post-discovery validation, and a merged summary
// served over the status API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/chainwatch/monitor/cache"
	"github.com/Cogwheel-Validator/chainwatch/monitor/config"
	"github.com/Cogwheel-Validator/chainwatch/monitor/discovery"
	"github.com/Cogwheel-Validator/chainwatch/monitor/report"
	"github.com/Cogwheel-Validator/chainwatch/monitor/resolver"
	"github.com/Cogwheel-Validator/chainwatch/monitor/status"
	"github.com/Cogwheel-Validator/chainwatch/monitor/validation"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()
}

func main() {
	configPath := flag.String("config", "./chains.toml", "chain configuration file")
	cacheDir := flag.String("cache-dir", "./chainwatch-cache", "directory for the parameter cache database")
	listenAddr := flag.String("listen", ":8087", "address for the status API")
	timeout := flag.Duration("timeout", discovery.DefaultTimeout, "HTTP timeout for discovery requests")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("config", *configPath).Msg("Starting chainwatch")

	chains, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load chain config")
	}
	log.Info().Int("count", chains.Len()).Msg("Loaded chains")

	// Structural pass runs before any network traffic.
	result := validation.ValidateAll(chains)
	if !result.IsValid() {
		log.Error().Int("errors", len(result.Errors)).Msg("Configuration validation failed")
	} else if result.HasWarnings() {
		log.Warn().Int("warnings", len(result.Warnings)).Msg("Configuration validated with warnings")
	} else {
		log.Info().Msg("Configuration validated successfully")
	}

	// A broken cache downgrades to discovery-every-run, never to a crash.
	store, err := cache.Open(*cacheDir)
	if err != nil {
		log.Error().Err(err).Str("dir", *cacheDir).Msg("Failed to open parameter cache, continuing without it")
		store = nil
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close parameter cache")
		}
	}()

	engine := discovery.NewEngine(*timeout)
	resolver.New(engine, store).ResolveAll(chains)

	postResult := validation.ValidatePostDiscovery(chains)
	if !postResult.IsValid() {
		log.Error().Int("errors", len(postResult.Errors)).Msg("Post-discovery validation failed")
	} else {
		log.Info().Msg("Post-discovery validation passed")
	}
	result.Merge(postResult)

	summary := report.BuildSummary(result)
	log.Info().
		Str("state", string(summary.State)).
		Int("total", summary.TotalChains).
		Int("valid", summary.ValidChains).
		Int("errors", summary.ErrorCount).
		Int("warnings", summary.WarningCount).
		Msg("Validation summary ready")

	server := status.NewServer(*listenAddr, summary, chains)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Status server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
