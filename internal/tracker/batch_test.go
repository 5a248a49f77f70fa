package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/scoring"
)

func TestAnalyzeBatchRanking(t *testing.T) {
	f := newFixture(t, fixedScorer{"A": 55, "B": 90, "C": 70, "E": 70})
	f.extractor.fail["D"] = errors.New("no profile")

	refs := []guest.Ref{
		{Name: "A", URL: "https://twitter.com/a"},
		{Name: "B", URL: "https://twitter.com/b"},
		{Name: "C", URL: "https://twitter.com/c"},
		{Name: "D", URL: "https://twitter.com/d"},
		{Name: "E", URL: "https://twitter.com/e"},
	}
	res := f.tracker.AnalyzeBatch(context.Background(), refs, "https://youtube.com/@show")

	want := []RankEntry{
		{Rank: 1, Name: "B", Score: 90, Recommendation: scoring.HighlyRecommended},
		{Rank: 2, Name: "C", Score: 70, Recommendation: scoring.Recommended},
		{Rank: 3, Name: "E", Score: 70, Recommendation: scoring.Recommended},
		{Rank: 4, Name: "A", Score: 55, Recommendation: scoring.Consider},
	}
	if diff := cmp.Diff(want, res.Ranking); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}

	if len(res.FailedAnalyses) != 1 || res.FailedAnalyses[0].GuestInfo.Name != "D" || !strings.Contains(res.FailedAnalyses[0].Error, "no profile") {
		t.Fatalf("unexpected failures: %+v", res.FailedAnalyses)
	}
	for _, entry := range res.Ranking {
		if entry.Name == "D" {
			t.Fatal("failed guest must not be ranked")
		}
	}

	meta := res.Metadata
	if meta.TotalGuests != 5 || meta.SuccessfulAnalyses != 4 || meta.FailedAnalyses != 1 || meta.HostChannelURL != "https://youtube.com/@show" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	if f.analyzer.Calls() != 1 {
		t.Fatalf("expected a single host analysis, got %d", f.analyzer.Calls())
	}
	host := res.GuestAnalyses[0].HostAnalysis
	for _, r := range res.GuestAnalyses {
		if r.HostAnalysis != host {
			t.Fatal("every guest must share the batch host analysis")
		}
	}
	if f.tracker.CachedChannels() != 1 {
		t.Fatal("batch host analysis must be cached")
	}

	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E"}, f.extractor.names); diff != "" {
		t.Fatalf("guests must be processed in input order (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.Summary, "1. B - 90/100") || !strings.Contains(res.Summary, "Failed Analyses: 1") {
		t.Fatalf("unexpected summary:\n%s", res.Summary)
	}
}

func TestAnalyzeBatchHostFailure(t *testing.T) {
	f := newFixture(t, fixedScorer{})
	f.analyzer.err = errors.New("channel not found")

	refs := []guest.Ref{{Name: "A"}, {Name: "B"}}
	res := f.tracker.AnalyzeBatch(context.Background(), refs, "https://youtube.com/@missing")

	if len(res.FailedAnalyses) != 2 || len(res.Ranking) != 0 || len(res.GuestAnalyses) != 0 {
		t.Fatalf("expected every guest to fail: %+v", res)
	}
	if !strings.Contains(res.FailedAnalyses[1].Error, "channel not found") {
		t.Fatalf("unexpected error: %q", res.FailedAnalyses[1].Error)
	}
	if res.Summary != "No successful analyses completed." {
		t.Fatalf("unexpected summary %q", res.Summary)
	}
	if len(f.extractor.names) != 0 {
		t.Fatal("guests must not be extracted without a host analysis")
	}
}

func TestAnalyzeBatchDegradedHost(t *testing.T) {
	f := newFixture(t, fixedScorer{"A": 60, "B": 40})
	f.analyzer.degraded = true

	res := f.tracker.AnalyzeBatch(context.Background(), []guest.Ref{{Name: "A"}, {Name: "B"}}, "https://youtube.com/@show")

	if res.Metadata.SuccessfulAnalyses != 2 {
		t.Fatalf("expected degraded host data to still score guests: %+v", res.Metadata)
	}
	if f.analyzer.Calls() != 1 {
		t.Fatalf("expected a single host analysis, got %d", f.analyzer.Calls())
	}
	if f.tracker.CachedChannels() != 0 {
		t.Fatal("degraded analyses must not be cached")
	}
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	f := newFixture(t, fixedScorer{})

	res := f.tracker.AnalyzeBatch(context.Background(), nil, "https://youtube.com/@show")
	if res.Metadata.TotalGuests != 0 || res.Ranking == nil || res.FailedAnalyses == nil {
		t.Fatalf("unexpected empty batch result: %+v", res)
	}
}

func TestConcurrentAnalysesShareHostCompute(t *testing.T) {
	f := newFixture(t, fixedScorer{"A": 80, "B": 60})
	f.analyzer.started = make(chan struct{})
	f.analyzer.release = make(chan struct{})

	const channel = "https://youtube.com/@show"
	refs := []guest.Ref{{Name: "A"}, {Name: "B"}}

	var wg sync.WaitGroup
	batches := make([]*BatchResult, 2)
	var single *AnalysisResult

	wg.Add(1)
	go func() {
		defer wg.Done()
		batches[0] = f.tracker.AnalyzeBatch(context.Background(), refs, channel)
	}()
	<-f.analyzer.started

	wg.Add(2)
	go func() {
		defer wg.Done()
		batches[1] = f.tracker.AnalyzeBatch(context.Background(), refs, channel+"/")
	}()
	go func() {
		defer wg.Done()
		single = f.tracker.Analyze(context.Background(), Request{GuestName: "A", HostChannelURL: channel, UseCache: true})
	}()

	time.Sleep(20 * time.Millisecond)
	close(f.analyzer.release)
	wg.Wait()

	if got := f.analyzer.Calls(); got != 1 {
		t.Fatalf("expected one host compute for the channel, got %d", got)
	}
	for i, b := range batches {
		if b.Metadata.SuccessfulAnalyses != 2 {
			t.Fatalf("batch %d: unexpected metadata %+v", i, b.Metadata)
		}
	}
	if single.Failed() {
		t.Fatalf("single analysis failed: %s", single.Error)
	}
	if single.HostAnalysis != batches[0].GuestAnalyses[0].HostAnalysis {
		t.Fatal("concurrent callers must share the computed host analysis")
	}
}

func TestAnalyzeBatchRecomputesCachedChannel(t *testing.T) {
	f := newFixture(t, fixedScorer{"A": 80})
	const channel = "https://youtube.com/@show"

	f.tracker.Analyze(context.Background(), Request{GuestName: "A", HostChannelURL: channel, UseCache: true})
	f.tracker.AnalyzeBatch(context.Background(), []guest.Ref{{Name: "A"}}, channel)

	if got := f.analyzer.Calls(); got != 2 {
		t.Fatalf("batch must recompute the host channel, got %d calls", got)
	}
}
