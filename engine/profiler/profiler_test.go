package profiler

import (
	"testing"
	"time"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	for i := 0; i < 10; i++ {
		if p.Tick() {
			t.Fatal("Tick logged before the interval elapsed")
		}
	}
}

func TestTickLogsAfterInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Nanosecond))
	time.Sleep(time.Millisecond)
	if !p.Tick() {
		t.Error("Tick did not log after the interval elapsed")
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	// A non-positive interval keeps the 1s default, so an immediate tick
	// must not log.
	p := NewProfiler(WithInterval(-1))
	if p.Tick() {
		t.Error("Tick logged immediately despite the default interval")
	}
}
