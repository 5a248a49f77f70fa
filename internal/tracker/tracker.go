package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/guest-tracker/internal/cache"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/metrics"
	"github.com/spigell/guest-tracker/internal/narration"
	"github.com/spigell/guest-tracker/internal/scoring"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Scorer rates a guest against a host channel.
type Scorer interface {
	Score(g *guest.Profile, h *host.Analysis) (*scoring.Result, error)
}

// Narrator explains a score. It must not fail.
type Narrator interface {
	Narrate(ctx context.Context, result *scoring.Result, profile *guest.Profile, analysis *host.Analysis) string
}

// Deps aggregates the collaborators of a Tracker.
type Deps struct {
	Guests   guest.Extractor
	Hosts    host.Analyzer
	Cache    *cache.HostAnalysisCache
	Scorer   Scorer
	Narrator Narrator
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
	NewID    func() string
}

// Tracker runs guest analyses one at a time.
type Tracker struct {
	guests   guest.Extractor
	hosts    host.Analyzer
	cache    *cache.HostAnalysisCache
	scorer   Scorer
	narrator Narrator
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func New(deps Deps) (*Tracker, error) {
	if deps.Guests == nil {
		return nil, errors.New("guest extractor is required")
	}
	if deps.Hosts == nil {
		return nil, errors.New("host analyzer is required")
	}
	if deps.Scorer == nil {
		return nil, errors.New("scorer is required")
	}

	t := &Tracker{
		guests:   deps.Guests,
		hosts:    deps.Hosts,
		cache:    deps.Cache,
		scorer:   deps.Scorer,
		narrator: deps.Narrator,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      deps.Now,
		newID:    deps.NewID,
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.cache == nil {
		t.cache = cache.New(cache.DefaultTTL)
	}
	if t.narrator == nil {
		t.narrator = narration.New(nil, t.logger, 0)
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	return t, nil
}

// CachedChannels reports how many host analyses are held in the cache.
func (t *Tracker) CachedChannels() int {
	return t.cache.Len()
}
