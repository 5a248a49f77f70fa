package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/logger"
	"github.com/spigell/guest-tracker/internal/report"
	"github.com/spigell/guest-tracker/internal/scoring"
	"github.com/spigell/guest-tracker/internal/utils"
	"go.uber.org/zap"
)

var errNoHostAnalysis = errors.New("host analysis is missing")

type hostFunc func(ctx context.Context) (*host.Analysis, error)

// Analyze runs the whole pipeline for one guest. It always returns a record;
// on failure only the error and the request metadata are kept.
func (t *Tracker) Analyze(ctx context.Context, req Request) *AnalysisResult {
	channelURL := strings.TrimSpace(req.HostChannelURL)
	return t.analyze(ctx, req, func(ctx context.Context) (*host.Analysis, error) {
		return t.hostAnalysis(ctx, channelURL, req.UseCache)
	})
}

func (t *Tracker) hostAnalysis(ctx context.Context, channelURL string, useCache bool) (*host.Analysis, error) {
	if !useCache {
		return t.hosts.Analyze(ctx, channelURL)
	}
	analysis, hit, err := t.cache.GetOrCompute(ctx, channelURL, func(ctx context.Context) (*host.Analysis, error) {
		return t.hosts.Analyze(ctx, channelURL)
	})
	if err == nil {
		t.metrics.ObserveCache(hit)
	}
	return analysis, err
}

func (t *Tracker) analyze(ctx context.Context, req Request, hostAnalysis hostFunc) *AnalysisResult {
	started := t.now()

	name := strings.TrimSpace(req.GuestName)
	if name == "" || name == "Unknown" {
		name = guest.NameFromURL(req.GuestURL)
	}

	meta := Metadata{
		RequestID:      t.newID(),
		GuestName:      name,
		GuestURL:       req.GuestURL,
		HostChannelURL: req.HostChannelURL,
	}
	log := t.logger.With(logger.AnalysisFields(meta.RequestID, name, req.GuestURL, req.HostChannelURL)...)
	log.Info("starting guest analysis", zap.Bool("use_cache", req.UseCache))

	var (
		profile    *guest.Profile
		analysis   *host.Analysis
		result     *scoring.Result
		validation string
		final      string
	)

	elapsed, err := t.runSteps(ctx, log, []step{
		{name: stepGuest, run: func(ctx context.Context) error {
			p, err := t.guests.Extract(ctx, name, req.GuestURL)
			if err != nil {
				return err
			}
			if p == nil {
				return guest.ErrProfileMissing
			}
			profile = p
			return nil
		}},
		{name: stepHost, run: func(ctx context.Context) error {
			a, err := hostAnalysis(ctx)
			if err != nil {
				return err
			}
			if a == nil {
				return errNoHostAnalysis
			}
			analysis = a
			return nil
		}},
		{name: stepScoring, run: func(context.Context) error {
			r, err := t.scorer.Score(profile, analysis)
			if err != nil {
				return err
			}
			result = r
			return nil
		}},
		{name: stepNarration, run: func(ctx context.Context) error {
			validation = t.narrator.Narrate(ctx, result, profile, analysis)
			return nil
		}},
		{name: stepReport, run: func(context.Context) error {
			text, err := report.Build(report.Input{
				Profile:    profile,
				Analysis:   analysis,
				Result:     result,
				Validation: validation,
				Generated:  t.now(),
			})
			if err != nil {
				return err
			}
			final = text
			return nil
		}},
	})

	meta.AnalyzedAt = t.now().UTC()
	if err != nil {
		meta.Status = StatusFailed
		t.metrics.ObserveAnalysis(StatusFailed)
		log.Error("guest analysis failed", zap.Error(err))
		return &AnalysisResult{Error: err.Error(), Metadata: meta}
	}

	meta.TotalTime = seconds(t.now().Sub(started).Seconds())
	meta.Performance = &StepTimes{
		GuestAnalysis: seconds(elapsed[stepGuest].Seconds()),
		HostAnalysis:  seconds(elapsed[stepHost].Seconds()),
		Scoring:       seconds(elapsed[stepScoring].Seconds()),
		Narration:     seconds(elapsed[stepNarration].Seconds()),
		Report:        seconds(elapsed[stepReport].Seconds()),
	}
	t.metrics.ObserveAnalysis(StatusSuccess)

	log.Info("guest analysis complete",
		zap.Int("overall_score", result.OverallScore),
		zap.String("recommendation", string(result.Recommendation)),
		zap.String("confidence", string(result.Confidence)),
		zap.Float64("total_seconds", meta.TotalTime),
	)

	return &AnalysisResult{
		Metadata:     meta,
		GuestProfile: profile,
		HostAnalysis: analysis,
		Relevance:    result,
		Validation:   validation,
		FinalReport:  final,
		Summary: &Summary{
			OverallScore:       result.OverallScore,
			Recommendation:     result.Recommendation,
			Confidence:         result.Confidence,
			KeyDecisionFactors: report.KeyDecisionFactors(result),
		},
	}
}

func seconds(v float64) float64 {
	return utils.Round(v, 1)
}
