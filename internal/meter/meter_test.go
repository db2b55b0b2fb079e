package meter

import "testing"

func framesAt(level float32, n int) [][2]float32 {
	out := make([][2]float32, n)
	for i := range out {
		out[i] = [2]float32{level, level}
	}
	return out
}

func TestTickStoppedForcesZero(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	e.L.OutputLevel = 0.8
	e.Tick(framesAt(0.5, 10), false)
	if e.L.OutputLevel != 0 || e.L.InputLevel != 0 || e.L.Decay != 0 {
		t.Errorf("stopped tick: L = %+v, want all zero", e.L)
	}
}

func TestOutputLevelMonotonicNonIncreasingWithZeroInput(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	e.Tick(framesAt(0.9, 10), true)
	prev := e.L.OutputLevel
	for i := 0; i < 20; i++ {
		e.Tick(framesAt(0, 10), true)
		if e.L.OutputLevel > prev {
			t.Fatalf("tick %d: OutputLevel increased from %v to %v with zero input", i, prev, e.L.OutputLevel)
		}
		prev = e.L.OutputLevel
	}
}

func TestOutputLevelStaysInUnitRange(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	for i := 0; i < 50; i++ {
		e.Tick(framesAt(1.0, 10), true)
		if e.L.OutputLevel < 0 || e.L.OutputLevel > 1 {
			t.Fatalf("OutputLevel = %v, outside [0,1]", e.L.OutputLevel)
		}
	}
}

func TestIsLimitingTracksDelta(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	e.Tick(framesAt(0.9, 10), true)
	if !e.L.IsLimiting() {
		t.Error("large jump from silence: want IsLimiting() = true")
	}
	for i := 0; i < 100; i++ {
		e.Tick(framesAt(0.9, 10), true)
	}
	if e.L.IsLimiting() {
		t.Error("settled steady level: want IsLimiting() = false")
	}
}
