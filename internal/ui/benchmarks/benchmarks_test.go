package benchmarks

import (
	"testing"
	"time"
)

func TestEstimateRemaining_NoHistory(t *testing.T) {
	// At security-group phase, 1s elapsed, no history
	remaining := EstimateRemaining("security-group", 1*time.Second, nil)

	// Should be: (3-1) + 2 + 15 + 40 = 59s
	expected := 59 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_MidwayPhase(t *testing.T) {
	// At wait-running phase, 10s elapsed, earlier phases each took twice
	// their benchmark
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "security-group", StartedAt: now.Add(-6 * time.Second), EndedAt: now},
		{Phase: "placement-group", StartedAt: now.Add(-4 * time.Second), EndedAt: now},
		{Phase: "nodes", StartedAt: now.Add(-30 * time.Second), EndedAt: now},
		{Phase: "wait-running", StartedAt: now},
	}

	remaining := EstimateRemaining("wait-running", 10*time.Second, history)

	// Scale = (6+4+30)/(3+2+15) = 2x, so: max(0, 40*2 - 10) = 70s
	expected := 70 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_ElapsedExceedsExpected(t *testing.T) {
	// At security-group phase, but already spent 6s (over the 3s estimate)
	remaining := EstimateRemaining("security-group", 6*time.Second, nil)

	// Overrun scales future predictions: 6s/3s = 2x
	// Should be: max(0, 3*2-6)=0 + (2 + 15 + 40) * 2 = 114s
	expected := 114 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestPerformanceScale(t *testing.T) {
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "security-group", StartedAt: now.Add(-4500 * time.Millisecond), EndedAt: now},
	}

	scale := PerformanceScale("placement-group", 0, history)
	if scale < 1.49 || scale > 1.51 {
		t.Fatalf("expected ~1.5 scale, got %f", scale)
	}
}

func TestPerformanceScale_Capped(t *testing.T) {
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "nodes", StartedAt: now.Add(-5 * time.Minute), EndedAt: now},
	}

	scale := PerformanceScale("wait-running", 0, history)
	if scale != 3.0 {
		t.Fatalf("expected scale capped at 3.0, got %f", scale)
	}
}

func TestEstimateRemaining_UnknownPhase(t *testing.T) {
	// Rollback and terminate phases carry no ETA
	remaining := EstimateRemaining("rollback", 0, nil)
	if remaining != 0 {
		t.Errorf("expected 0 for phase outside the launch plan, got %v", remaining)
	}
}

func TestEstimateRemaining_LastPhase(t *testing.T) {
	// At wait-running phase, 10s elapsed
	remaining := EstimateRemaining("wait-running", 10*time.Second, nil)

	// Should be: max(0, 40-10) = 30s (no future phases)
	expected := 30 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestTotalEstimate(t *testing.T) {
	total := TotalEstimate()

	// Sum of all phase timings: 3 + 2 + 15 + 40 = 60s
	expected := 60 * time.Second
	if total != expected {
		t.Errorf("expected %v, got %v", expected, total)
	}
}

func TestPhaseRecordDuration(t *testing.T) {
	start := time.Now().Add(-10 * time.Second)
	rec := PhaseRecord{Phase: "nodes", StartedAt: start, EndedAt: start.Add(7 * time.Second)}
	if got := rec.Duration(); got != 7*time.Second {
		t.Errorf("expected 7s, got %v", got)
	}
	if !rec.Done() {
		t.Error("expected completed record to report Done")
	}

	running := PhaseRecord{Phase: "nodes", StartedAt: start}
	if running.Done() {
		t.Error("expected running record to not report Done")
	}
	if got := running.Duration(); got < 9*time.Second {
		t.Errorf("expected running duration to track elapsed time, got %v", got)
	}
}
