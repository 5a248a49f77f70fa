package host

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultMaxVideos = 50

// Analyzer produces a host channel analysis.
type Analyzer interface {
	Analyze(ctx context.Context, channelURL string) (*Analysis, error)
}

// Service combines a video source with a DNA generator. Upstream failures
// are absorbed: missing videos give a degraded analysis and a failing DNA
// generator gives FallbackReport.
type Service struct {
	videos    VideoSource
	dna       DNAGenerator
	maxVideos int
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(videos VideoSource, dna DNAGenerator, maxVideos int, logger *zap.Logger) *Service {
	if maxVideos <= 0 {
		maxVideos = DefaultMaxVideos
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{videos: videos, dna: dna, maxVideos: maxVideos, logger: logger, now: time.Now}
}

func (s *Service) Analyze(ctx context.Context, channelURL string) (*Analysis, error) {
	channelURL = strings.TrimSpace(channelURL)
	if channelURL == "" {
		return nil, errors.New("host channel url is required")
	}

	analysis := &Analysis{ChannelURL: channelURL, AnalyzedAt: s.now().UTC()}

	videos, err := s.videos.Videos(ctx, channelURL, s.maxVideos)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("fetching channel videos failed", zap.String("channel", channelURL), zap.Error(err))
		analysis.Degraded = true
		analysis.Error = err.Error()
		videos = nil
	}

	metrics := ComputeMetrics(videos)

	var report *Report
	if s.dna != nil {
		report, err = s.dna.Generate(ctx, channelURL, metrics)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("channel dna generation failed, using fallback", zap.String("channel", channelURL), zap.Error(err))
			report = nil
		}
	}
	if report == nil {
		fallback := FallbackReport(metrics)
		report = &fallback
	}

	if videos == nil {
		videos = []Video{}
	}

	analysis.VideosAnalyzed = len(videos)
	analysis.Performance = metrics
	analysis.ChannelDNA = *report
	analysis.RawVideoData = videos

	s.logger.Info("host channel analyzed",
		zap.String("channel", channelURL),
		zap.Int("videos", len(videos)),
		zap.String("dominant_theme", metrics.ContentThemes.DominantTheme),
		zap.Bool("degraded", analysis.Degraded),
	)

	return analysis, nil
}
