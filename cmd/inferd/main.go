package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/config"
	"inferd/internal/httpapi"
	"inferd/internal/manager"
	"inferd/internal/registry"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("INFERD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultModelsDir := "~/models/llm"
	if v := os.Getenv("INFERD_MODELS_DIR"); v != "" {
		defaultModelsDir = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	modelsDir := flag.String("models-dir", defaultModelsDir, "Directory to scan for *.gguf model files")
	defaultModel := flag.String("default-model", "", "Default model id when request omits model")
	configPath := flag.String("config", "", "Optional config file (.yaml, .json or .toml)")
	maxQueueDepth := flag.Int("max-queue-depth", 0, "Max queued generate requests before 429 (0=default)")
	maxWait := flag.Duration("max-wait", 0, "Max time a generate request may wait for the slot (0=default)")
	idleUnload := flag.Duration("idle-unload", 0, "Unload the model after this much inactivity (0=never)")
	cacheTTL := flag.Duration("cache-ttl", 0, "TTL for the deterministic response cache (0=disabled)")
	generateTimeout := flag.Duration("generate-timeout", 0, "Per-request generation timeout (0=none)")
	corsOrigins := flag.String("cors", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", false, "Log JSON instead of console output")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// File config is the base; explicitly set flags win.
	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalf("failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}
	if set["addr"] || cfg.Addr == "" {
		cfg.Addr = *addr
	}
	if set["models-dir"] || cfg.ModelsDir == "" {
		cfg.ModelsDir = *modelsDir
	}
	if set["default-model"] || cfg.DefaultModel == "" {
		cfg.DefaultModel = *defaultModel
	}
	if set["max-queue-depth"] {
		cfg.MaxQueueDepth = *maxQueueDepth
	}
	if set["max-wait"] {
		cfg.MaxWaitMS = int(maxWait.Milliseconds())
	}
	if set["idle-unload"] {
		cfg.IdleUnloadSec = int(idleUnload.Seconds())
	}
	if set["cache-ttl"] {
		cfg.CacheTTLSec = int(cacheTTL.Seconds())
	}
	if set["cors"] {
		cfg.CORSOrigins = splitCSV(*corsOrigins)
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = *logLevel
	}

	logger := newLogger(cfg.LogLevel, *logJSON)

	// Load registry by scanning the models dir for *.gguf
	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.ModelsDir).Msg("failed to load models")
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Registry:      reg,
		DefaultModel:  cfg.DefaultModel,
		Logger:        logger,
		Publisher:     logPublisher{log: logger},
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		IdleUnload:    time.Duration(cfg.IdleUnloadSec) * time.Second,
		CacheTTL:      time.Duration(cfg.CacheTTLSec) * time.Second,
		CacheCapacity: cfg.CacheCapacity,
		ContextSize:   cfg.ContextSize,
		Threads:       cfg.Threads,
		GPULayers:     cfg.GPULayers,
		BatchSize:     cfg.BatchSize,
		MaxTokens:     cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		TopK:          cfg.TopK,
		RepeatPenalty: cfg.RepeatPenalty,
	})

	// Base context lets shutdown cancel in-flight generations.
	baseCtx, baseCancel := context.WithCancel(context.Background())
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetGenerateTimeout(*generateTimeout)
	if len(cfg.CORSOrigins) > 0 {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	}

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Int("models", len(reg)).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
	baseCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	if err := mgr.Close(); err != nil {
		logger.Error().Err(err).Msg("manager close error")
	}
}

// newLogger builds the root logger. Console output by default, JSON when
// asked, level from config/flags with info as the fallback.
func newLogger(level string, jsonOut bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && parsed != zerolog.NoLevel {
			lvl = parsed
		}
	}
	var out io.Writer = os.Stderr
	if !jsonOut {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// logPublisher forwards manager lifecycle events to the log.
type logPublisher struct {
	log zerolog.Logger
}

func (p logPublisher) Publish(ev manager.Event) {
	e := p.log.Info().Str("event", ev.Name)
	if ev.ModelID != "" {
		e = e.Str("model", ev.ModelID)
	}
	for k, v := range ev.Fields {
		e = e.Interface(k, v)
	}
	e.Msg("manager event")
}

// splitCSV splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	logger.Fatal().Msgf(format, args...)
}
