package health

import (
	"context"
	"testing"
	"time"
)

type staticChecker struct {
	name    string
	healthy bool
}

func (c staticChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: c.name, Healthy: c.healthy}
	if !c.healthy {
		res.Error = "down"
	}
	return res
}

func TestProbeRunnerReady(t *testing.T) {
	runner := NewProbeRunner(time.Second, 0,
		staticChecker{name: "db", healthy: true},
		staticChecker{name: "redis", healthy: true},
	)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatalf("expected ready, got %+v", results)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestProbeRunnerUnhealthyDependency(t *testing.T) {
	runner := NewProbeRunner(time.Second, 0,
		staticChecker{name: "db", healthy: true},
		staticChecker{name: "redis", healthy: false},
	)
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected not ready")
	}
	var found bool
	for _, res := range results {
		if res.Name == "redis" && !res.Healthy && res.Error == "down" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected redis failure in results, got %+v", results)
	}
}

func TestProbeRunnerGracePeriod(t *testing.T) {
	runner := NewProbeRunner(time.Second, time.Hour, staticChecker{name: "db", healthy: true})
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected not ready during the grace period")
	}
	if len(results) != 1 || results[0].Name != "startup_grace" {
		t.Fatalf("expected startup_grace result, got %+v", results)
	}
}

func TestProbeRunnerNilIsAlwaysReady(t *testing.T) {
	var runner *ProbeRunner
	ready, results := runner.Ready(context.Background())
	if !ready || results != nil {
		t.Fatalf("nil runner should be ready with no results, got ready=%v results=%+v", ready, results)
	}
}

func TestProbeRunnerNoCheckers(t *testing.T) {
	runner := NewProbeRunner(time.Second, 0)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready with no checkers")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}
