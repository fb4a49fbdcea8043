package geo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type scriptedLocator struct {
	mu    sync.Mutex
	fixes []*Position
	errs  []error
	calls int
}

func (l *scriptedLocator) Locate(ctx context.Context) (*Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.calls
	l.calls++
	if i < len(l.errs) && l.errs[i] != nil {
		return nil, l.errs[i]
	}
	if i < len(l.fixes) {
		return l.fixes[i], nil
	}
	return nil, ErrNoFix
}

func TestWatcherStartAcquiresInitialFix(t *testing.T) {
	loc := &scriptedLocator{fixes: []*Position{{Latitude: 6.5244, Longitude: 3.3792}}}
	w := NewWatcher(loc, time.Hour)
	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool {
		pos, ok := w.Last()
		return ok && pos.Latitude == 6.5244
	}, time.Second, 10*time.Millisecond)
}

func TestWatcherKeepsLastFixOnFailure(t *testing.T) {
	w := NewWatcher(&scriptedLocator{}, time.Hour)
	w.Update(&Position{Latitude: 9.0765, Longitude: 7.3986})

	// A failed refresh must not clear the last known fix.
	w.refresh()

	pos, ok := w.Last()
	assert.True(t, ok)
	assert.Equal(t, 9.0765, pos.Latitude)
}

func TestWatcherLastBeforeAnyFix(t *testing.T) {
	w := NewWatcher(&scriptedLocator{}, time.Hour)
	_, ok := w.Last()
	assert.False(t, ok)
}

func TestWatcherUpdateFromInlineFix(t *testing.T) {
	w := NewWatcher(&scriptedLocator{}, time.Hour)

	w.Update(&Position{Latitude: 4.8156, Longitude: 7.0498})
	pos, ok := w.Last()
	assert.True(t, ok)
	assert.Equal(t, 7.0498, pos.Longitude)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w := NewWatcher(&scriptedLocator{}, time.Hour)
	w.Start()
	w.Stop()
	w.Stop()
}
