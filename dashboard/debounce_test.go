package dashboard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int64

	for i := 0; i < 5; i++ {
		d.Debounce("reload", func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int64(1), calls.Load())
	require.Zero(t, d.Pending())
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var a, b atomic.Int64

	d.Debounce("a", func() { a.Add(1) })
	d.Debounce("b", func() { b.Add(1) })

	require.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int64

	d.Debounce("x", func() { calls.Add(1) })
	require.Equal(t, 1, d.Pending())
	d.Stop()
	require.Zero(t, d.Pending())

	d.Debounce("x", func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, calls.Load())
}

func TestDebouncer_DefaultWait(t *testing.T) {
	require.Equal(t, DefaultDebounceWait, NewDebouncer(0).Wait())
}
