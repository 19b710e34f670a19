// Package telemetry records outbound clicks on profile pages. Recording is
// fire and forget: callers never wait on it and failures are only logged.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"cinegrok-backend/internal/models"
)

var clicksRecorded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cinegrok_profile_clicks_total",
		Help: "Profile clicks by category and sink outcome",
	},
	[]string{"category", "outcome"},
)

// Sink stores or forwards a click.
type Sink interface {
	RecordClick(ctx context.Context, e models.ClickEvent) error
}

type Tracker struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewTracker(logger *zap.Logger, timeout time.Duration, sinks ...Sink) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Tracker{
		sinks:   sinks,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Track hands the event to every sink in the background and returns at
// once. Only a malformed event is reported to the caller.
func (t *Tracker) Track(e models.ClickEvent) error {
	if !models.ValidClickCategory(e.Category) {
		return fmt.Errorf("unknown click category %q", e.Category)
	}
	if e.At.IsZero() {
		e.At = t.now().UTC()
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		for _, sink := range t.sinks {
			if err := sink.RecordClick(ctx, e); err != nil {
				clicksRecorded.WithLabelValues(e.Category, "failed").Inc()
				t.logger.Debug("click not recorded",
					zap.String("filmmaker_id", e.FilmmakerID.String()),
					zap.String("category", e.Category),
					zap.Error(err))
				continue
			}
			clicksRecorded.WithLabelValues(e.Category, "recorded").Inc()
		}
	}()
	return nil
}

// Wait blocks until every event tracked so far has been handled.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
