package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock_AdvanceMovesNow(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.Advance(90 * time.Second)

	if got := vc.Now(); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Fatalf("expected now=%s, got %s", epoch.Add(90*time.Second), got)
	}
}

func TestVirtualClock_SetToPastPanics(t *testing.T) {
	vc := NewVirtualClock(epoch)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when setting time to the past")
		}
	}()
	vc.Set(epoch.Add(-time.Second))
}

func TestVirtualClock_NegativeAdvancePanics(t *testing.T) {
	vc := NewVirtualClock(epoch)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on negative advance")
		}
	}()
	vc.Advance(-time.Nanosecond)
}

func TestRealClock_IsCloseToTimeNow(t *testing.T) {
	before := time.Now()
	got := NewRealClock().Now()
	if got.Before(before) {
		t.Fatalf("expected real clock to be monotonic with time.Now")
	}
}
