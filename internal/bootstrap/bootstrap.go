// Package bootstrap wires configuration, logging, storage, the analysis
// pipeline and the HTTP transport into a running service.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"interviewly-voice-go/internal/domain/analysis"
	domainauth "interviewly-voice-go/internal/domain/auth"
	"interviewly-voice-go/internal/domain/audio"
	"interviewly-voice-go/internal/domain/eventbus"
	"interviewly-voice-go/internal/domain/history"
	"interviewly-voice-go/internal/domain/sentiment"
	"interviewly-voice-go/internal/domain/transcribe"
	"interviewly-voice-go/internal/domain/voicequality"
	platformconfig "interviewly-voice-go/internal/platform/config"
	platformerrors "interviewly-voice-go/internal/platform/errors"
	platformlogging "interviewly-voice-go/internal/platform/logging"
	platformobservability "interviewly-voice-go/internal/platform/observability"
	"interviewly-voice-go/internal/platform/storage"
	httptransport "interviewly-voice-go/internal/transport/http"

	// Register the transcription provider adapters.
	_ "interviewly-voice-go/internal/domain/transcribe/openai"
	_ "interviewly-voice-go/internal/domain/transcribe/whisperserver"
)

const tagBoot = "BOOT"

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger

	observabilityShutdown platformobservability.ShutdownFunc

	historyStore history.Store
	recorder     *history.Recorder

	ingestor    *audio.Ingestor
	transcriber *transcribe.Manager
	sentiment   *sentiment.Analyzer
	voice       *voicequality.Analyzer
	detector    *analysis.FillerDetector
	vocabWatch  *analysis.VocabularyWatcher
	pipeline    *analysis.Pipeline

	authTokens *domainauth.AuthToken
}

// Run starts the whole service lifecycle: configuration, dependencies,
// HTTP serving, and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	cfg := state.config
	logger := state.logger
	if cfg == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	if shutdown := state.observabilityShutdown; shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.WarnTag(tagBoot, "observability shutdown failed: %v", err)
			}
		}()
	}
	defer func() {
		if state.vocabWatch != nil {
			_ = state.vocabWatch.Stop()
		}
		if state.historyStore != nil {
			_ = state.historyStore.Close(context.Background())
		}
		_ = state.transcriber.Close()
		eventbus.Shutdown()
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag(tagBoot, "service stopped cleanly")
	logger.Close()
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.InfoTag(tagBoot, "initialisation order:")
	for _, step := range steps {
		logger.InfoTag(tagBoot, "  %s - %s", step.ID, step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}
			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph declares the ordered initialisation steps and their dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "observability:setup",
			Title:     "Set up observability hooks",
			DependsOn: []string{"logging:init"},
			Execute:   setupObservabilityStep,
		},
		{
			ID:        "eventbus:init",
			Title:     "Configure event bus workers",
			DependsOn: []string{"config:load"},
			Execute:   initEventBusStep,
		},
		{
			ID:        "history:init",
			Title:     "Initialise analysis history",
			DependsOn: []string{"logging:init", "eventbus:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initHistoryStep,
		},
		{
			ID:        "analysis:init",
			Title:     "Build analysis pipeline",
			DependsOn: []string{"logging:init", "eventbus:init"},
			Kind:      platformerrors.KindAnalysis,
			Execute:   initAnalysisStep,
		},
		{
			ID:        "auth:init",
			Title:     "Initialise auth tokens",
			DependsOn: []string{"config:load"},
			Execute:   initAuthStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	platformlogging.DefaultLogger = logger
	state.logger = logger
	logger.InfoTag(tagBoot, "configuration loaded from %s", state.configPath)
	return nil
}

func setupObservabilityStep(ctx context.Context, state *appState) error {
	shutdown, err := platformobservability.Setup(ctx, platformobservability.Config{
		Enabled: state.config.Observability.Enabled,
	}, state.logger.Slog())
	if err != nil {
		return err
	}
	state.observabilityShutdown = shutdown
	return nil
}

func initEventBusStep(_ context.Context, state *appState) error {
	eventbus.Configure(state.config.EventBus.Workers)
	return nil
}

func initHistoryStep(_ context.Context, state *appState) error {
	if !state.config.History.Enabled {
		state.logger.InfoTag(tagBoot, "history disabled")
		return nil
	}

	storeCfg := history.FromConfig(state.config.History.Store)
	deps := history.Dependencies{}
	if storeCfg.Driver == history.DriverSQLite {
		dsn := ""
		if storeCfg.SQLite != nil {
			dsn = storeCfg.SQLite.DSN
		}
		db, err := storage.Open(dsn)
		if err != nil {
			return err
		}
		deps.SQLiteDB = db
	}

	store, err := history.New(storeCfg, deps)
	if err != nil {
		return err
	}
	state.historyStore = store

	state.recorder = history.NewRecorder(store, state.logger)
	if err := state.recorder.Start(); err != nil {
		return err
	}
	state.logger.InfoTag(tagBoot, "history store ready (%s)", state.config.History.Store.Type)
	return nil
}

func initAnalysisStep(_ context.Context, state *appState) error {
	cfg := state.config

	asrCfg, ok := cfg.ASR[cfg.Selected.ASR]
	if !ok {
		return fmt.Errorf("selected ASR entry %q not present in config", cfg.Selected.ASR)
	}

	state.ingestor = audio.NewIngestor(cfg.Audio, state.logger)
	state.transcriber = transcribe.NewManager(asrCfg, state.logger)
	state.sentiment = sentiment.NewAnalyzer(state.logger)
	state.voice = voicequality.NewAnalyzer(state.logger)
	state.detector = analysis.NewFillerDetector(cfg.Analysis.FillerWords, cfg.Analysis.FillerPhrases)

	if cfg.Analysis.VocabularyFile != "" {
		if words, phrases, err := analysis.LoadVocabulary(cfg.Analysis.VocabularyFile); err == nil {
			state.detector.SetVocabulary(words, phrases)
		} else {
			state.logger.WarnTag(tagBoot, "vocabulary file unreadable, using configured lists: %v", err)
		}
		watcher, err := analysis.NewVocabularyWatcher(cfg.Analysis.VocabularyFile, state.detector, state.logger)
		if err != nil {
			state.logger.WarnTag(tagBoot, "vocabulary watcher unavailable: %v", err)
		} else {
			state.vocabWatch = watcher
		}
	}

	state.pipeline = analysis.NewPipeline(
		state.ingestor,
		state.transcriber,
		state.detector,
		state.sentiment,
		state.voice,
		state.logger,
	)
	return nil
}

func initAuthStep(_ context.Context, state *appState) error {
	authCfg := state.config.Server.Auth
	if !authCfg.Enabled {
		return nil
	}
	if authCfg.Secret == "" {
		return fmt.Errorf("auth enabled but no secret configured")
	}
	state.authTokens = domainauth.NewAuthToken(authCfg.Secret).WithTTL(authCfg.TTL)
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, ctx context.Context) error {
	cfg := state.config

	var authMW gin.HandlerFunc
	if cfg.Server.Auth.Enabled {
		authMW = httptransport.AuthMiddleware(cfg.Server, state.authTokens)
	}

	router, err := httptransport.Build(httptransport.Options{
		Config:         cfg,
		Logger:         state.logger,
		AuthMiddleware: authMW,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "bootstrap.http", "build router", err)
	}

	apiGroup := router.API
	if router.Secured != nil {
		apiGroup = router.Secured
	}

	analyzeSvc := httptransport.NewAnalyzeService(state.pipeline, state.historyStore, cfg.Audio, state.logger)
	analyzeSvc.Register(apiGroup)

	healthSvc := httptransport.NewHealthService(state.transcriber, state.sentiment)
	healthSvc.Register(router.API)

	if cfg.Server.Auth.Enabled {
		httptransport.NewAuthService(cfg.Server, state.authTokens).Register(router.API)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		state.logger.InfoTag(tagBoot, "http server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return platformerrors.Wrap(platformerrors.KindTransport, "bootstrap.http", "serve", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return nil
}

func waitForShutdown(
	signalCtx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-signalCtx.Done()
	logger.InfoTag(tagBoot, "shutdown signal received")
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
