package client_test

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/pkg/client"
)

// meServer answers /api/auth/me with whatever status the test sets.
type meServer struct {
	status atomic.Int32
	calls  atomic.Int32
}

func (s *meServer) handle(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	switch code := int(s.status.Load()); code {
	case http.StatusOK:
		io.WriteString(w, `{"id":"u1","email":"meera@example.com","is_producer":true}`)
	default:
		w.WriteHeader(code)
		io.WriteString(w, `{"error":"authentication required"}`)
	}
}

func TestSessionWatcher_Check(t *testing.T) {
	srv := &meServer{}
	srv.status.Store(http.StatusOK)
	w := client.NewSessionWatcher(newServer(t, srv.handle), time.Hour, nil)
	defer w.Stop()
	ctx := context.Background()

	assert.False(t, w.LoggedIn())

	w.Check(ctx)
	assert.True(t, w.LoggedIn())
	assert.Equal(t, "u1", w.State().User.ID)

	// Server trouble keeps the cached state.
	srv.status.Store(http.StatusInternalServerError)
	w.Check(ctx)
	assert.True(t, w.LoggedIn())

	srv.status.Store(http.StatusUnauthorized)
	w.Check(ctx)
	assert.False(t, w.LoggedIn())
	assert.Nil(t, w.State().User)
}

func TestSessionWatcher_NotifiesOnChangeOnly(t *testing.T) {
	srv := &meServer{}
	srv.status.Store(http.StatusUnauthorized)
	w := client.NewSessionWatcher(newServer(t, srv.handle), time.Hour, nil)
	defer w.Stop()
	ctx := context.Background()

	updates, cancel := w.Subscribe()
	defer cancel()

	// Logged out to logged out is not a change.
	w.Check(ctx)
	select {
	case s := <-updates:
		t.Fatalf("unexpected update %+v", s)
	default:
	}

	srv.status.Store(http.StatusOK)
	w.Check(ctx)
	w.Check(ctx)
	s := <-updates
	assert.True(t, s.LoggedIn)
	select {
	case s := <-updates:
		t.Fatalf("unexpected second update %+v", s)
	default:
	}

	srv.status.Store(http.StatusUnauthorized)
	w.Check(ctx)
	s = <-updates
	assert.False(t, s.LoggedIn)
}

func TestSessionWatcher_PollsUntilStopped(t *testing.T) {
	srv := &meServer{}
	srv.status.Store(http.StatusOK)
	w := client.NewSessionWatcher(newServer(t, srv.handle), 10*time.Millisecond, nil)

	updates, _ := w.Subscribe()
	w.Start(context.Background())

	select {
	case s := <-updates:
		assert.True(t, s.LoggedIn)
	case <-time.After(2 * time.Second):
		t.Fatal("no session update")
	}
	require.Eventually(t, func() bool { return srv.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	_, open := <-updates
	assert.False(t, open, "subscription should close on stop")

	calls := srv.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, srv.calls.Load())
}

func TestSessionWatcher_StopsOnContextCancel(t *testing.T) {
	srv := &meServer{}
	srv.status.Store(http.StatusUnauthorized)
	w := client.NewSessionWatcher(newServer(t, srv.handle), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	updates, _ := w.Subscribe()
	w.Start(ctx)
	cancel()

	select {
	case _, open := <-updates:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	w.Stop()
}

func TestSessionWatcher_StopWithoutStart(t *testing.T) {
	w := client.NewSessionWatcher(client.New("http://127.0.0.1:0"), time.Second, nil)
	updates, _ := w.Subscribe()
	w.Stop()
	w.Stop()

	_, open := <-updates
	assert.False(t, open)

	late, _ := w.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
