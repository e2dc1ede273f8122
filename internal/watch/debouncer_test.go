package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fired struct {
	reason string
	count  int
}

func startDebouncer(t *testing.T, quiet, maxDelay time.Duration) (*Debouncer, <-chan fired) {
	t.Helper()
	d, err := NewDebouncer(quiet, maxDelay)
	require.NoError(t, err)

	out := make(chan fired, 10)
	go d.Run(t.Context(), func(_ context.Context, reason string, count int) {
		out <- fired{reason: reason, count: count}
	})
	select {
	case <-d.Ready():
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for debouncer ready")
	}
	return d, out
}

func TestDebouncer_BurstCoalescesToSingleFire(t *testing.T) {
	d, out := startDebouncer(t, 25*time.Millisecond, 500*time.Millisecond)

	for _, r := range []string{"a", "b", "c", "d", "e"} {
		d.Request(r)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case got := <-out:
		require.Equal(t, 5, got.count)
		require.Equal(t, "e", got.reason)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for fire")
	}

	select {
	case <-out:
		t.Fatal("expected only one fire for burst")
	case <-time.After(75 * time.Millisecond):
	}
}

func TestDebouncer_MaxDelayForcesFire(t *testing.T) {
	d, out := startDebouncer(t, 100*time.Millisecond, 150*time.Millisecond)

	stop := time.After(400 * time.Millisecond)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.Request("tick")
			continue
		case <-out:
			return
		case <-stop:
			t.Fatal("max delay did not force a fire while requests kept coming")
		}
	}
}

func TestNewDebouncerValidation(t *testing.T) {
	_, err := NewDebouncer(0, time.Second)
	require.Error(t, err)
	_, err = NewDebouncer(time.Second, time.Millisecond)
	require.Error(t, err)
}
