package event_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/sahyog/pkg/event"
)

func TestFireReachesAllListeners(t *testing.T) {
	bus := event.NewBus(2)
	defer bus.Close()

	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 0; i < 3; i++ {
		bus.Listen("donation.submitted", func(any) {
			defer wg.Done()
			count.Add(1)
		})
	}

	bus.Fire("donation.submitted", nil)
	waitOn(t, &wg)
	assert.EqualValues(t, 3, count.Load())
}

func TestFireSyncOrderAndPayload(t *testing.T) {
	bus := event.NewBus(1)
	defer bus.Close()

	var got []string
	bus.Listen("e", func(p any) { got = append(got, "first:"+p.(string)) })
	bus.Listen("e", func(p any) { got = append(got, "second:"+p.(string)) })

	bus.FireSync("e", "x")
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	bus := event.NewBus(1)
	defer bus.Close()

	bus.Fire("nobody-listens", 42)
}

func TestFireAfterCloseRunsInline(t *testing.T) {
	bus := event.NewBus(1)

	ran := make(chan struct{})
	bus.Listen("e", func(any) { close(ran) })
	bus.Close()

	bus.Fire("e", nil)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("listener did not run after Close")
	}
}

func waitOn(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listeners did not finish")
	}
}
