package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Parallel()

	t.Run("publish reaches every subscriber", func(t *testing.T) {
		bus := NewBus()
		first, stopFirst := bus.Subscribe()
		defer stopFirst()
		second, stopSecond := bus.Subscribe()
		defer stopSecond()

		bus.Publish(Event{ID: "1", Type: TypeCategoryCreated})

		require.Equal(t, TypeCategoryCreated, (<-first).Type)
		require.Equal(t, TypeCategoryCreated, (<-second).Type)
	})

	t.Run("publish never blocks on a full subscriber", func(t *testing.T) {
		bus := NewBus()
		_, stop := bus.Subscribe()
		defer stop()

		done := make(chan struct{})
		go func() {
			for i := 0; i < 200; i++ {
				bus.Publish(Event{ID: "x", Type: TypeAssetUploaded})
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked on a saturated subscriber")
		}
	})

	t.Run("unsubscribed channels stop receiving", func(t *testing.T) {
		bus := NewBus()
		ch, stop := bus.Subscribe()
		stop()

		bus.Publish(Event{ID: "2", Type: TypePostUploaded})

		_, open := <-ch
		require.False(t, open)
	})
}
