package store

import "sync"

// watchBuffer is the per-watcher channel capacity. Events beyond it are
// dropped rather than blocking store writes.
const watchBuffer = 16

// Watcher delivers store changes to a single subscriber.
type Watcher struct {
	id    int
	store *Store
	ch    chan Change
	once  sync.Once
}

// Watch subscribes to availability changes. The caller must drain Events
// and Close the watcher when done.
func (s *Store) Watch() *Watcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &Watcher{id: s.nextWatcherID, store: s, ch: make(chan Change, watchBuffer)}
	s.nextWatcherID++
	s.watchers[w.id] = w
	s.metrics.WatchersActive.Inc()
	return w
}

// Events returns the channel of store changes. Close closes it.
func (w *Watcher) Events() <-chan Change {
	return w.ch
}

// Close unsubscribes the watcher and closes its channel. Safe to call more
// than once.
func (w *Watcher) Close() {
	w.once.Do(func() {
		w.store.mu.Lock()
		delete(w.store.watchers, w.id)
		close(w.ch)
		w.store.mu.Unlock()
		w.store.metrics.WatchersActive.Dec()
	})
}

// notify fans a change out to all watchers. Callers must hold the write
// lock; a watcher that cannot keep up loses the event instead of blocking
// the write.
func (s *Store) notify(c Change) {
	for _, w := range s.watchers {
		select {
		case w.ch <- c:
		default:
			s.metrics.WatchDropped.Inc()
			s.logger.Debug("watcher buffer full, dropping change", "spot_id", c.Spot.ID, "cause", c.Cause)
		}
	}
}
