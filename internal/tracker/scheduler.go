package tracker

import (
	"sync"
	"time"
)

// Scheduler arms timers. The returned cancel funcs are idempotent. A run
// that already started may still finish after cancel; the controller drops
// such results by session generation.
type Scheduler interface {
	// Every runs fn every d until cancelled. Runs of one timer never overlap.
	Every(d time.Duration, fn func()) (cancel func())
	// After runs fn once after d unless cancelled first.
	After(d time.Duration, fn func()) (cancel func())
}

// RealScheduler is the wall-clock Scheduler
type RealScheduler struct{}

// Every starts a ticker goroutine. A callback slower than d delays the next
// run instead of stacking up.
func (RealScheduler) Every(d time.Duration, fn func()) func() {
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// A cancel racing with the tick wins
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// After wraps time.AfterFunc
func (RealScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
