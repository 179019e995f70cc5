package viewer

import (
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

// frameDropThreshold caps how many in-flight frames in a row are cancelled
// in favour of newer ones, so a busy pointer still shows progress.
const frameDropThreshold = 10

// WindowOptions sets the initial window.
type WindowOptions struct {
	Title  string
	Width  int
	Height int
}

// Run opens a window and drives the controller returned by build until the
// window closes or the user quits. build receives the window's repaint hook
// and should hand it to New through WithOnChange.
func Run(opts WindowOptions, build func(onChange func()) *Controller) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = runWindow(s, opts, build)
	})
	return runErr
}

func runWindow(s screen.Screen, opts WindowOptions, build func(onChange func()) *Controller) error {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: opts.Width, Height: opts.Height, Title: opts.Title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	updateCh := make(chan struct{}, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	requestPaint := func() {
		select {
		case updateCh <- struct{}{}:
		default:
		}
	}

	ctl := build(requestPaint)
	defer ctl.Close()
	ctl.Resize(opts.Width, opts.Height)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan Frame, 1)
	defer close(paintCh)
	go func() {
		for f := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, f)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	stopPainting := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPainting()
				return nil
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				ctl.FocusLost()
			}
		case size.Event:
			ctl.Resize(e.WidthPx, e.HeightPx)
			requestPaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			offerFrame(paintCh, ctl.Snapshot())
		case mouse.Event:
			ctl.HandleMouse(e)
		case touch.Event:
			ctl.HandleTouch(e)
		case key.Event:
			if ctl.HandleKey(e) {
				requestPaint()
			}
			if ctl.Done() {
				stopPainting()
				return nil
			}
		case error:
			logger.WithError(e).Warn("window event")
		}
	}
}

// offerFrame queues f for the paint goroutine, replacing a frame that has
// not been picked up yet. The paint goroutine may take the queued frame at
// any moment, so the drain must not block. Only the event goroutine sends
// on ch, which leaves room for f once the drain is done.
func offerFrame(ch chan Frame, f Frame) {
	select {
	case ch <- f:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- f
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, f Frame) {
	width, height := f.Size()
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{X: width, Y: height})
	if err != nil {
		logger.WithError(err).Warn("new buffer")
		return
	}
	defer b.Release()

	f.Draw(b.RGBA())
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
