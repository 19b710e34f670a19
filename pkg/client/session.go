package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cinegrok-backend/internal/models"
)

// SessionState is what the watcher last learned from /api/auth/me.
type SessionState struct {
	LoggedIn bool
	User     *models.UserResponse
}

// SessionWatcher polls /api/auth/me at a fixed interval and tells
// subscribers when the login state changes. A failed check keeps the
// previous state until the next tick.
type SessionWatcher struct {
	client   *Client
	interval time.Duration
	logger   *zap.Logger

	mu    sync.RWMutex
	state SessionState
	subs  map[chan SessionState]struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func NewSessionWatcher(c *Client, interval time.Duration, logger *zap.Logger) *SessionWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionWatcher{
		client:   c,
		interval: interval,
		logger:   logger,
		subs:     make(map[chan SessionState]struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start checks once and then on every tick until ctx is cancelled or Stop
// is called. Calling it again has no effect.
func (w *SessionWatcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.loop(ctx)
	})
}

func (w *SessionWatcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.closeSubscribers()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Stop ends polling and closes every subscription. It waits for the loop
// to exit if Start was called.
func (w *SessionWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })

	started := true
	w.startOnce.Do(func() {
		started = false
		close(w.done)
		w.closeSubscribers()
	})
	if started {
		<-w.done
	}
}

// Check polls once. A 401 means logged out; any other error leaves the
// state alone.
func (w *SessionWatcher) Check(ctx context.Context) {
	user, err := w.client.Me(ctx)
	var next SessionState
	switch {
	case err == nil:
		next = SessionState{LoggedIn: true, User: user}
	case IsUnauthorized(err):
		next = SessionState{}
	default:
		w.logger.Debug("session check failed", zap.Error(err))
		return
	}
	w.set(next)
}

func (w *SessionWatcher) set(next SessionState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if sameSession(w.state, next) {
		w.state = next
		return
	}
	w.state = next
	for ch := range w.subs {
		// Keep only the newest state for slow subscribers.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

func sameSession(a, b SessionState) bool {
	if a.LoggedIn != b.LoggedIn {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return a.User.ID == b.User.ID
}

func (w *SessionWatcher) LoggedIn() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.LoggedIn
}

func (w *SessionWatcher) State() SessionState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Subscribe returns a channel that receives each state change. The channel
// is closed by cancel or when the watcher stops.
func (w *SessionWatcher) Subscribe() (<-chan SessionState, func()) {
	ch := make(chan SessionState, 1)

	w.mu.Lock()
	if w.subs == nil {
		close(ch)
		w.mu.Unlock()
		return ch, func() {}
	}
	w.subs[ch] = struct{}{}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[ch]; ok {
			delete(w.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (w *SessionWatcher) closeSubscribers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.subs {
		close(ch)
	}
	w.subs = nil
}
