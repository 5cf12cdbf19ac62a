package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/licensefinder/pkg/observability"
)

func TestRunStatsCountsHooks(t *testing.T) {
	ctx := context.Background()
	stats := newRunStats()
	restore := stats.install()

	observability.HTTP().OnRequest(ctx, "GET", "registry.npmjs.org", "/a")
	observability.HTTP().OnRequest(ctx, "GET", "api.github.com", "/repos/o/r/license")
	observability.HTTP().OnError(ctx, "GET", "api.github.com", "/repos/o/r/license", errors.New("reset"))
	observability.Cache().OnCacheHit(ctx, "npm:")
	observability.Resolve().OnStageComplete(ctx, "registry", "node_modules/a", "failed", time.Millisecond, errors.New("boom"))
	restore()

	// Events after restore go to the no-op hooks.
	observability.HTTP().OnRequest(ctx, "GET", "registry.npmjs.org", "/b")

	if stats.requests != 2 || stats.failures != 1 || stats.cacheHits != 1 {
		t.Errorf("requests=%d failures=%d cacheHits=%d", stats.requests, stats.failures, stats.cacheHits)
	}
	if got := stats.stageCount("registry", "failed"); got != 1 {
		t.Errorf("stageCount(registry, failed) = %d, want 1", got)
	}
}

func TestPrintStatsSkipsZero(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, stat{3, "dependencies"}, stat{0, "skipped"}, stat{1, "request errors"})

	out := buf.String()
	if !strings.Contains(out, "3") || !strings.Contains(out, "dependencies") || !strings.Contains(out, "request errors") {
		t.Errorf("printStats() = %q", out)
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("zero counter printed: %q", out)
	}

	buf.Reset()
	printStats(&buf, stat{0, "dependencies"})
	if buf.Len() != 0 {
		t.Errorf("all-zero printStats() = %q, want empty", buf.String())
	}
}
