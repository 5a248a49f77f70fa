package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spigell/guest-tracker/internal/cache"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/metrics"
	"github.com/spigell/guest-tracker/internal/scoring"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubExtractor struct {
	mu    sync.Mutex
	fail  map[string]error
	names []string
}

func (s *stubExtractor) Extract(_ context.Context, name, url string) (*guest.Profile, error) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	if err := s.fail[name]; err != nil {
		return nil, err
	}
	return &guest.Profile{
		Name:           name,
		ExpertiseAreas: []string{"artificial intelligence", "startups"},
		KeyTopics:      []string{"technology"},
		Metadata:       guest.Metadata{DataQualityScore: 60, ConfidenceScore: 60, SourcesUsed: []string{url}},
	}, nil
}

type stubAnalyzer struct {
	mu       sync.Mutex
	calls    int
	err      error
	degraded bool

	// When release is set, every call signals started once and then blocks
	// until release is closed.
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stubAnalyzer) Analyze(_ context.Context, channelURL string) (*host.Analysis, error) {
	if s.release != nil {
		s.once.Do(func() { close(s.started) })
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	a := &host.Analysis{
		ChannelURL:     channelURL,
		VideosAnalyzed: 12,
		Degraded:       s.degraded,
		ChannelDNA:     host.SampleReport(),
		RawVideoData:   host.SampleVideos(),
	}
	return a, nil
}

func (s *stubAnalyzer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fixedScorer returns preset scores by guest name.
type fixedScorer map[string]int

func (f fixedScorer) Score(g *guest.Profile, h *host.Analysis) (*scoring.Result, error) {
	if g == nil || h == nil {
		return nil, scoring.ErrMissingInput
	}
	score := f[g.Name]
	return &scoring.Result{
		GuestName:      g.Name,
		OverallScore:   score,
		Recommendation: scoring.RecommendationFor(score),
		Confidence:     scoring.ConfidenceMedium,
		KeyStrengths:   []string{},
		AreasOfConcern: []string{},
	}, nil
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now advances 250ms per call: a step that reads no clock itself reports 0.2s.
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(250 * time.Millisecond)
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	tracker   *Tracker
	extractor *stubExtractor
	analyzer  *stubAnalyzer
	clock     *stepClock
	logs      *observer.ObservedLogs
	registry  *prometheus.Registry
}

func newFixture(t *testing.T, scorer Scorer) *fixture {
	t.Helper()

	f := &fixture{
		extractor: &stubExtractor{fail: map[string]error{}},
		analyzer:  &stubAnalyzer{},
		clock:     &stepClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		registry:  prometheus.NewRegistry(),
	}
	core, logs := observer.New(zapcore.InfoLevel)
	f.logs = logs

	if scorer == nil {
		s, err := scoring.NewScorer(scoring.DefaultWeights())
		if err != nil {
			t.Fatalf("new scorer: %v", err)
		}
		scorer = s
	}

	var ids atomic.Int32
	tr, err := New(Deps{
		Guests:  f.extractor,
		Hosts:   f.analyzer,
		Cache:   cache.New(24*time.Hour, cache.WithClock(f.clock.Now)),
		Scorer:  scorer,
		Metrics: metrics.New(f.registry),
		Logger:  zap.New(core),
		Now:     f.clock.Now,
		NewID: func() string {
			return fmt.Sprintf("req-%d", ids.Add(1))
		},
	})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	f.tracker = tr
	return f
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatal("expected error without collaborators")
	}
	if _, err := New(Deps{Guests: &stubExtractor{}, Hosts: &stubAnalyzer{}}); err == nil {
		t.Fatal("expected error without scorer")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	f := newFixture(t, nil)

	res := f.tracker.Analyze(context.Background(), Request{
		GuestName:      "Alex Rivera",
		GuestURL:       "https://twitter.com/alex",
		HostChannelURL: "https://youtube.com/@show",
		UseCache:       true,
	})

	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.Metadata.RequestID != "req-1" || res.Metadata.Status != "" {
		t.Fatalf("unexpected metadata: %+v", res.Metadata)
	}
	if res.Summary.OverallScore != res.Relevance.OverallScore || res.Summary.Recommendation != res.Relevance.Recommendation {
		t.Fatalf("summary does not match relevance: %+v", res.Summary)
	}
	if res.Validation == "" || !strings.Contains(res.FinalReport, res.Validation) {
		t.Fatalf("expected fallback narration inside the report")
	}
	if !strings.Contains(res.FinalReport, "**Guest:** Alex Rivera") {
		t.Fatalf("unexpected report:\n%s", res.FinalReport)
	}

	perf := res.Metadata.Performance
	if perf == nil || perf.GuestAnalysis != 0.2 || perf.Scoring != 0.2 {
		t.Fatalf("unexpected step times: %+v", perf)
	}
	if res.Metadata.TotalTime <= perf.GuestAnalysis {
		t.Fatalf("total time must cover the steps: %v", res.Metadata.TotalTime)
	}

	steps := f.logs.FilterMessage("analysis step").All()
	if len(steps) != 5 {
		t.Fatalf("expected five step entries, got %d", len(steps))
	}
	for _, entry := range steps {
		if entry.ContextMap()["request_id"] != "req-1" {
			t.Fatalf("step entry without request id: %v", entry.ContextMap())
		}
	}

	expected := `
# HELP guest_tracker_analyses_total Total number of single guest analyses by status
# TYPE guest_tracker_analyses_total counter
guest_tracker_analyses_total{status="SUCCESS"} 1
`
	if err := testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "guest_tracker_analyses_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestAnalyzeDerivesNameFromURL(t *testing.T) {
	f := newFixture(t, nil)

	for _, name := range []string{"", "Unknown"} {
		res := f.tracker.Analyze(context.Background(), Request{
			GuestName:      name,
			GuestURL:       "https://twitter.com/naval",
			HostChannelURL: "https://youtube.com/@show",
		})
		if res.Metadata.GuestName != "Naval" {
			t.Fatalf("expected derived name, got %q", res.Metadata.GuestName)
		}
	}
	if len(f.extractor.names) != 2 || f.extractor.names[0] != "Naval" {
		t.Fatalf("extractor received %v", f.extractor.names)
	}
}

func TestAnalyzeFailureRecord(t *testing.T) {
	f := newFixture(t, nil)
	f.extractor.fail["Broken"] = errors.New("profile service unavailable")

	res := f.tracker.Analyze(context.Background(), Request{
		GuestName:      "Broken",
		GuestURL:       "https://example.com/broken",
		HostChannelURL: "https://youtube.com/@show",
	})

	if !res.Failed() || !strings.Contains(res.Error, "profile service unavailable") || !strings.HasPrefix(res.Error, stepGuest) {
		t.Fatalf("unexpected error %q", res.Error)
	}
	if res.Metadata.Status != StatusFailed || res.Metadata.GuestName != "Broken" {
		t.Fatalf("unexpected metadata: %+v", res.Metadata)
	}
	if res.GuestProfile != nil || res.Relevance != nil || res.Summary != nil || res.FinalReport != "" {
		t.Fatal("partial results must be discarded")
	}
	if f.analyzer.Calls() != 0 {
		t.Fatal("host analysis must not run after a failed guest step")
	}
	if n := f.logs.FilterMessage("guest analysis failed").Len(); n != 1 {
		t.Fatalf("expected failure log, got %d", n)
	}
}

func TestAnalyzeHostFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.analyzer.err = errors.New("channel not found")

	res := f.tracker.Analyze(context.Background(), Request{GuestName: "A", HostChannelURL: "https://youtube.com/@missing", UseCache: true})
	if !res.Failed() || !strings.HasPrefix(res.Error, stepHost) {
		t.Fatalf("expected host failure, got %q", res.Error)
	}
	if f.tracker.CachedChannels() != 0 {
		t.Fatal("failed analyses must not be cached")
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.tracker.Analyze(ctx, Request{GuestName: "A", HostChannelURL: "https://youtube.com/@show"})
	if !res.Failed() || !strings.Contains(res.Error, context.Canceled.Error()) {
		t.Fatalf("expected cancellation failure, got %q", res.Error)
	}
}

func TestAnalyzeHostCache(t *testing.T) {
	f := newFixture(t, nil)
	req := Request{GuestName: "A", HostChannelURL: "https://youtube.com/@show", UseCache: true}

	first := f.tracker.Analyze(context.Background(), req)
	second := f.tracker.Analyze(context.Background(), req)
	if f.analyzer.Calls() != 1 {
		t.Fatalf("expected one host analysis within ttl, got %d", f.analyzer.Calls())
	}
	if first.HostAnalysis != second.HostAnalysis {
		t.Fatal("expected the cached host analysis to be reused")
	}

	f.clock.Advance(25 * time.Hour)
	f.tracker.Analyze(context.Background(), req)
	if f.analyzer.Calls() != 2 {
		t.Fatalf("expected recompute after ttl, got %d calls", f.analyzer.Calls())
	}

	req.UseCache = false
	f.tracker.Analyze(context.Background(), req)
	if f.analyzer.Calls() != 3 {
		t.Fatalf("expected cache bypass, got %d calls", f.analyzer.Calls())
	}
}
