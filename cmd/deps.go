package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spigell/guest-tracker/internal/ai"
	"github.com/spigell/guest-tracker/internal/ai/gemini"
	"github.com/spigell/guest-tracker/internal/ai/ollama"
	"github.com/spigell/guest-tracker/internal/cache"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/logger"
	"github.com/spigell/guest-tracker/internal/metrics"
	"github.com/spigell/guest-tracker/internal/narration"
	"github.com/spigell/guest-tracker/internal/scoring"
	"github.com/spigell/guest-tracker/internal/secrets"
	"github.com/spigell/guest-tracker/internal/tracker"
	"go.uber.org/zap"
)

const (
	providerGemini = "gemini"
	providerOllama = "ollama"
)

// newGenerator returns nil when AI is disabled.
func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerGemini:
		gcfg := cfg.Gemini
		if gcfg == nil {
			gcfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  gcfg.APIKeyFile,
			Value: gcfg.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.WithCommonFields(log, providerGemini, gcfg.Model).
			With(zap.Int("ai_retry_attempts", gcfg.MaxRetries))

		generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
			Model:       gcfg.Model,
			MaxRetries:  gcfg.MaxRetries,
			Temperature: float32(cfg.Temperature),
			Timeout:     gcfg.Timeout,
		}, genLogger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	case providerOllama:
		ocfg := cfg.Ollama
		if ocfg == nil {
			ocfg = &OllamaConfig{}
		}

		return ollama.New(ollama.Options{
			URL:         ocfg.URL,
			Model:       ocfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   ocfg.MaxTokens,
			Timeout:     ocfg.Timeout,
		}, logger.WithCommonFields(log, providerOllama, ocfg.Model)), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// buildTracker wires every collaborator of the orchestrator from config.
// Without a working generator the tracker still runs on curated files,
// deterministic channel DNA and templated narration.
func buildTracker(ctx context.Context, config *Config, reg prometheus.Registerer, log *zap.Logger) (*tracker.Tracker, error) {
	generator, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		log.Warn("continuing without text generation", zap.Error(err))
		generator = nil
	}

	maxLogLength := 0
	if config.AI != nil {
		maxLogLength = config.AI.MaxLogLength
	}

	var next guest.Extractor
	if generator != nil {
		next = guest.NewLLMExtractor(generator, log.Named("guest"), maxLogLength)
	}
	guests := guest.NewFileExtractor(config.Guests.ProfilesDir, next, log.Named("guest"))

	var (
		videos host.VideoSource = host.SampleSource{}
		dna    host.DNAGenerator
	)
	if config.Host.VideosDir != "" {
		videos = host.FileSource{Dir: config.Host.VideosDir}
	} else {
		dna = host.StaticDNA{Report: host.SampleReport()}
	}
	if generator != nil {
		dna = host.NewLLMDNA(generator, log.Named("host"), maxLogLength)
	}
	hosts := host.NewService(videos, dna, config.Host.MaxVideos, log.Named("host"))

	scorer, err := scoring.NewScorer(config.Scoring.Weights)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	narrator := narration.New(generator, log.Named("narration"), maxLogLength,
		narration.WithFallbackHook(func(error) { m.ObserveNarrationFallback() }),
	)

	return tracker.New(tracker.Deps{
		Guests:   guests,
		Hosts:    hosts,
		Cache:    cache.New(config.Cache.TTL),
		Scorer:   scorer,
		Narrator: narrator,
		Metrics:  m,
		Logger:   log,
	})
}
