package guestevent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFOOrderAcrossGoroutines(t *testing.T) {
	q := NewQueue(1, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.True(t, q.TryEnqueue(1, 0xA, 0xB))
		require.True(t, q.TryEnqueue(2, 0xC, 0xD))
		require.True(t, q.TryEnqueue(ShutdownKind, 0, 0))
	}()
	wg.Wait()

	var got []Event
	for {
		ev, ok := q.TryDequeue()
		if !ok {
			continue
		}
		got = append(got, ev)
		if ev.Kind == ShutdownKind {
			break
		}
	}

	require.Len(t, got, 3)
	require.EqualValues(t, 1, got[0].Kind)
	require.EqualValues(t, 0xA, got[0].Data1)
	require.EqualValues(t, 2, got[1].Kind)
	require.EqualValues(t, ShutdownKind, got[2].Kind)
}

func TestTryEnqueueFailsWhenFull(t *testing.T) {
	q := NewQueue(1, 2)
	require.True(t, q.TryEnqueue(1, 0, 0))
	require.True(t, q.TryEnqueue(2, 0, 0))
	require.False(t, q.TryEnqueue(3, 0, 0))

	ev, ok := q.TryDequeue()
	require.True(t, ok)
	require.EqualValues(t, 1, ev.Kind)
	require.True(t, q.TryEnqueue(3, 0, 0))
}

func TestCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	q := NewQueue(1, 5)
	require.Len(t, q.buf, 8)
}
