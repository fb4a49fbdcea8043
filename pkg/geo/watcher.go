package geo

import (
	"context"
	"sync"
	"time"
)

// Watcher is the continuous watch-mode subscription: it refreshes a shared
// last-known position in the background, independent of any single query.
// Consumers read opportunistically via Last.
type Watcher struct {
	locator  Locator
	interval time.Duration

	mu   sync.RWMutex
	last *Position

	stop chan struct{}
	once sync.Once
}

func NewWatcher(locator Locator, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		locator:  locator,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the refresh loop. An immediate first fix is attempted so
// early queries have a chance of being grounded.
func (w *Watcher) Start() {
	go func() {
		w.refresh()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.refresh()
			}
		}
	}()
}

// Stop terminates the refresh loop.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stop) })
}

// Last returns the most recent fix, if one was ever acquired.
func (w *Watcher) Last() (*Position, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.last == nil {
		return nil, false
	}
	pos := *w.last
	return &pos, true
}

// Update records an externally supplied fix (e.g. one-shot acquisition
// performed inline by a query).
func (w *Watcher) Update(pos *Position) {
	if pos == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = pos
}

func (w *Watcher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pos, err := w.locator.Locate(ctx)
	if err != nil {
		// A failed refresh keeps the previous fix.
		return
	}
	w.Update(pos)
}
