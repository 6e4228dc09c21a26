package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lumenhq/livefeed/internal/api"
	"github.com/lumenhq/livefeed/internal/channel"
	"github.com/lumenhq/livefeed/internal/event"
	"github.com/lumenhq/livefeed/internal/poll"
)

// AnalyticsView owns the analytics dashboard gauges: a flat bag of named
// metrics overwritten by each analytics_update frame.
type AnalyticsView struct {
	logger *slog.Logger

	mu        sync.Mutex
	metrics   map[string]float64
	updatedAt string

	disposer []func()
}

// NewAnalyticsView creates an empty analytics view.
func NewAnalyticsView(logger *slog.Logger) *AnalyticsView {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsView{
		logger:  logger.With("view", "analytics"),
		metrics: make(map[string]float64),
	}
}

// Bind subscribes the view's handler on a channel.
func (v *AnalyticsView) Bind(ch *channel.Channel) {
	v.disposer = append(v.disposer,
		ch.Subscribe(event.TypeAnalyticsUpdate, v.onAnalyticsUpdate),
	)
}

// Close removes all subscriptions.
func (v *AnalyticsView) Close() {
	for _, d := range v.disposer {
		d()
	}
	v.disposer = nil
}

// PollTask returns the REST task that refreshes aggregate analytics between
// live updates.
func (v *AnalyticsView) PollTask(client *api.Client) poll.Task {
	return poll.Task{
		Name: "analytics_summary",
		Fetch: func(ctx context.Context) error {
			summary, err := client.GetAnalyticsSummary(ctx)
			if err != nil {
				return err
			}
			v.mu.Lock()
			v.metrics["total_interactions"] = float64(summary.TotalInteractions)
			v.metrics["avg_processing_time"] = summary.AvgProcessingTime
			v.mu.Unlock()
			return nil
		},
	}
}

// Metrics returns a copy of the current gauges and the last update time.
func (v *AnalyticsView) Metrics() (map[string]float64, string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]float64, len(v.metrics))
	for k, val := range v.metrics {
		out[k] = val
	}
	return out, v.updatedAt
}

func (v *AnalyticsView) onAnalyticsUpdate(msg event.Message) {
	var p event.AnalyticsUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad analytics_update payload", "error", err)
		return
	}

	v.mu.Lock()
	for k, val := range p.Metrics {
		v.metrics[k] = val
	}
	v.updatedAt = p.Timestamp
	v.mu.Unlock()
}
