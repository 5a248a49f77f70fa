package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/logger"
	"github.com/spigell/guest-tracker/internal/report"
	"go.uber.org/zap"
)

// AnalyzeBatch analyzes the host channel once and then every guest in input
// order. Guest failures are recorded and never stop the batch.
func (t *Tracker) AnalyzeBatch(ctx context.Context, refs []guest.Ref, channelURL string) *BatchResult {
	channelURL = strings.TrimSpace(channelURL)
	log := t.logger.With(zap.String(logger.FieldChannel, channelURL), zap.Int("guests", len(refs)))
	log.Info("starting batch analysis")

	out := &BatchResult{
		GuestAnalyses:  []*AnalysisResult{},
		FailedAnalyses: []FailedAnalysis{},
		Ranking:        []RankEntry{},
	}

	// Batches always recompute the channel but join any compute already in flight.
	analysis, hostErr := t.cache.Refresh(ctx, channelURL, func(ctx context.Context) (*host.Analysis, error) {
		return t.hosts.Analyze(ctx, channelURL)
	})
	if hostErr == nil && analysis == nil {
		hostErr = errNoHostAnalysis
	}
	if hostErr != nil {
		log.Error("batch host analysis failed", zap.Error(hostErr))
		hostErr = fmt.Errorf("%s: %w", stepHost, hostErr)
	}

	shared := func(context.Context) (*host.Analysis, error) {
		return analysis, nil
	}

	for i, ref := range refs {
		log.Info("analyzing batch guest", zap.Int("position", i+1), zap.String(logger.FieldGuest, ref.Name))

		if hostErr != nil {
			out.FailedAnalyses = append(out.FailedAnalyses, FailedAnalysis{GuestInfo: ref, Error: hostErr.Error()})
			t.metrics.ObserveBatchGuest("failed")
			continue
		}

		result := t.analyze(ctx, Request{
			GuestName:      ref.Name,
			GuestURL:       ref.URL,
			HostChannelURL: channelURL,
			UseCache:       true,
		}, shared)

		if result.Failed() {
			out.FailedAnalyses = append(out.FailedAnalyses, FailedAnalysis{GuestInfo: ref, Error: result.Error})
			t.metrics.ObserveBatchGuest("failed")
			continue
		}
		out.GuestAnalyses = append(out.GuestAnalyses, result)
		t.metrics.ObserveBatchGuest("succeeded")
	}

	sort.SliceStable(out.GuestAnalyses, func(i, j int) bool {
		return out.GuestAnalyses[i].Summary.OverallScore > out.GuestAnalyses[j].Summary.OverallScore
	})

	entries := make([]report.Entry, 0, len(out.GuestAnalyses))
	for i, r := range out.GuestAnalyses {
		out.Ranking = append(out.Ranking, RankEntry{
			Rank:           i + 1,
			Name:           r.Metadata.GuestName,
			Score:          r.Summary.OverallScore,
			Recommendation: r.Summary.Recommendation,
		})
		entries = append(entries, report.Entry{
			Name:           r.Metadata.GuestName,
			Score:          r.Summary.OverallScore,
			Recommendation: r.Summary.Recommendation,
		})
	}

	out.Summary = report.BatchSummary(entries, len(out.FailedAnalyses))
	out.Metadata = BatchMetadata{
		TotalGuests:        len(refs),
		SuccessfulAnalyses: len(out.GuestAnalyses),
		FailedAnalyses:     len(out.FailedAnalyses),
		HostChannelURL:     channelURL,
		AnalyzedAt:         t.now().UTC(),
	}

	log.Info("batch analysis complete",
		zap.Int("successful", out.Metadata.SuccessfulAnalyses),
		zap.Int("failed", out.Metadata.FailedAnalyses),
	)
	return out
}
