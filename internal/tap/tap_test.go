package tap

import "testing"

func framesOf(vals ...float32) []Frame {
	out := make([]Frame, len(vals))
	for i, v := range vals {
		out[i] = Frame{v, v}
	}
	return out
}

func TestPushDrainPreservesOrder(t *testing.T) {
	t.Parallel()

	tp := New(4)
	tp.Push(framesOf(1, 2, 3))
	got := tp.DrainAll()
	if len(got) != 3 {
		t.Fatalf("len(DrainAll()) = %d, want 3", len(got))
	}
	for i, want := range []float32{1, 2, 3} {
		if got[i][0] != want {
			t.Errorf("got[%d] = %v, want %v", i, got[i][0], want)
		}
	}
}

func TestPushNeverBlocksAndDropsOldestOnOverflow(t *testing.T) {
	t.Parallel()

	tp := New(4)
	tp.Push(framesOf(1, 2, 3, 4, 5, 6)) // 2 frames overflow
	if got := tp.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
	got := tp.DrainAll()
	if len(got) != 4 {
		t.Fatalf("len(DrainAll()) = %d, want 4", len(got))
	}
	for i, want := range []float32{3, 4, 5, 6} {
		if got[i][0] != want {
			t.Errorf("got[%d] = %v, want %v", i, got[i][0], want)
		}
	}
}

func TestDrainOnEmptyTapReturnsEmptySlice(t *testing.T) {
	t.Parallel()

	tp := New(4)
	got := tp.DrainAll()
	if len(got) != 0 {
		t.Errorf("len(DrainAll()) = %d, want 0", len(got))
	}
}

func TestDrainResetsDroppedCounter(t *testing.T) {
	t.Parallel()

	tp := New(2)
	tp.Push(framesOf(1, 2, 3))
	tp.DrainAll()
	if got := tp.Dropped(); got != 0 {
		t.Errorf("Dropped() after DrainAll() = %d, want 0", got)
	}
}
