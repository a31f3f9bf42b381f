package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodemap/internal/interact"
)

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const goroutines, per = 8, 250

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*per)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				seq := c.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*per)
	assert.Equal(t, int64(goroutines*per), c.Current())
}

func TestSeq_InputsAndTicksInterleave(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "a", 100, 100)
	assert.Zero(t, e.Seq())

	e.Tick()
	e.Dispatch(interact.PointerDown(100, 100, interact.ButtonPrimary))
	e.Tick()
	e.Dispatch(interact.PointerUp(100, 100, interact.ButtonPrimary))
	e.Tick()

	kinds := make([]RecordKind, 0, len(e.records))
	for i, r := range e.records {
		assert.Equal(t, int64(i+1), r.Seq, "record %d", i)
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RecordKind{RecordTick, RecordInput, RecordTick, RecordInput, RecordTick}, kinds)
	assert.Equal(t, int64(5), e.Seq())
	assert.Equal(t, int64(5), e.Frame().Seq)
}

func TestSeq_QueuedInputsStampedBeforeTick(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "a", 100, 100)

	require.True(t, e.Enqueue(interact.PointerMove(300, 300)))
	require.True(t, e.Enqueue(interact.PointerMove(310, 300)))
	e.Tick()

	require.Len(t, e.records, 3)
	assert.Equal(t, RecordInput, e.records[0].Kind)
	assert.Equal(t, RecordInput, e.records[1].Kind)
	assert.Equal(t, RecordTick, e.records[2].Kind)
	assert.Equal(t, int64(3), e.records[2].Seq)
}

func TestSeq_TimerFireIsStamped(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "a", 100, 100)

	e.click(100, 100)
	before := e.Seq()
	e.advance(300 * time.Millisecond)

	require.Greater(t, e.Seq(), before)
	last := e.records[len(e.records)-1]
	assert.Equal(t, interact.EventTimerFired, last.Input.Kind)
	assert.Equal(t, e.Seq(), last.Seq)
}

func TestSeq_CallsAreNotStamped(t *testing.T) {
	e := newTestEngine(t)
	e.Tick()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Call(ctx, func() error { return nil }) }()

	// Drive the queue from this goroutine until the call completes.
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Equal(t, int64(1), e.Seq())
			assert.Len(t, e.records, 1)
			return
		case <-ctx.Done():
			t.Fatal("call did not complete")
		default:
			e.Flush()
		}
	}
}

func TestSeq_FreshEnginesRestartAtOne(t *testing.T) {
	first := newTestEngine(t)
	first.Tick()
	first.Tick()

	second := newTestEngine(t)
	second.Tick()

	assert.Equal(t, int64(2), first.Seq())
	assert.Equal(t, int64(1), second.Seq())
}
