package cli

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/licensefinder/pkg/observability"
)

// runStats counts lookup events for the end-of-run statistics line.
type runStats struct {
	observability.NoopResolveHooks

	mu        sync.Mutex
	requests  int
	failures  int // transport errors, not HTTP status failures
	cacheHits int
	stages    map[string]int // stage runs with a verdict, by stage
}

func newRunStats() *runStats {
	return &runStats{stages: make(map[string]int)}
}

// install registers s as the global resolve, cache and HTTP hooks and
// returns a function that restores the no-op defaults.
func (s *runStats) install() func() {
	observability.SetResolveHooks(s)
	observability.SetCacheHooks(s)
	observability.SetHTTPHooks(s)
	return observability.Reset
}

func (s *runStats) OnStageComplete(_ context.Context, stage, _, outcome string, _ time.Duration, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages[stage+":"+outcome]++
}

func (s *runStats) OnCacheHit(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheHits++
}

func (s *runStats) OnCacheMiss(context.Context, string) {}

func (s *runStats) OnRequest(context.Context, string, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
}

func (s *runStats) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (s *runStats) OnError(context.Context, string, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

// stageCount returns how often stage ended with outcome.
func (s *runStats) stageCount(stage, outcome string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stages[stage+":"+outcome]
}
