package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferFrameReplacesQueued(t *testing.T) {
	ch := make(chan Frame, 1)
	offerFrame(ch, Frame{message: "first"})
	offerFrame(ch, Frame{message: "second"})
	require.Len(t, ch, 1)
	assert.Equal(t, "second", (<-ch).message)
}

func TestOfferFrameWithBusyPainter(t *testing.T) {
	ch := make(chan Frame, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-ch:
			case <-stop:
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			offerFrame(ch, Frame{})
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("offerFrame blocked while the painter drained the queue")
	}
}
