package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresTicker(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	f := NewFake(start)

	tk := f.NewTicker(10 * time.Second)
	defer tk.Stop()

	f.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("ticker fired early")
	default:
	}

	f.Advance(5 * time.Second)
	select {
	case got := <-tk.C():
		assert.Equal(t, start.Add(10*time.Second), got)
	default:
		t.Fatal("ticker did not fire")
	}

	assert.Equal(t, start.Add(10*time.Second), f.Now())
}

func TestFake_DropsUnconsumedTicks(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	tk := f.NewTicker(time.Second)
	defer tk.Stop()

	f.Advance(5 * time.Second)

	<-tk.C()
	select {
	case <-tk.C():
		t.Fatal("expected a single buffered tick")
	default:
	}
}

func TestFake_StopRemovesTicker(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	tk := f.NewTicker(time.Second)
	tk.Stop()

	f.Advance(3 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFake_SetIgnoresPast(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFake(start)
	f.Set(time.Unix(50, 0))
	assert.Equal(t, start, f.Now())
}

func TestSleep_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Real().Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, NewFake(time.Now()).Sleep(ctx, time.Hour), context.Canceled)
	require.NoError(t, NewFake(time.Now()).Sleep(context.Background(), time.Hour))
}
