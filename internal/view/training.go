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

// experimentLimit caps retained completed experiments.
const experimentLimit = 50

// TrainingSnapshot is a point-in-time copy of the training dashboard state.
type TrainingSnapshot struct {
	Active      bool
	RunID       string
	Epoch       int
	Step        int64
	Loss        float64
	Accuracy    float64
	Progress    float64
	Models      map[string]event.ModelStatus
	Resources   event.ResourceUpdate
	Experiments []event.ExperimentComplete
}

// TrainingView owns the training dashboard state: live run metrics, model
// serving status, resource gauges, and completed experiments.
type TrainingView struct {
	logger *slog.Logger

	mu          sync.Mutex
	active      bool
	latest      event.TrainingUpdate
	models      map[string]event.ModelStatus
	resources   event.ResourceUpdate
	experiments []event.ExperimentComplete

	disposer []func()
}

// NewTrainingView creates an empty training view.
func NewTrainingView(logger *slog.Logger) *TrainingView {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingView{
		logger: logger.With("view", "training"),
		models: make(map[string]event.ModelStatus),
	}
}

// Bind subscribes the view's handlers on a channel.
func (v *TrainingView) Bind(ch *channel.Channel) {
	v.disposer = append(v.disposer,
		ch.Subscribe(event.TypeTrainingUpdate, v.onTrainingUpdate),
		ch.Subscribe(event.TypeModelStatus, v.onModelStatus),
		ch.Subscribe(event.TypeResourceUpdate, v.onResourceUpdate),
		ch.Subscribe(event.TypeExperimentComplete, v.onExperimentComplete),
	)
}

// Close removes all subscriptions.
func (v *TrainingView) Close() {
	for _, d := range v.disposer {
		d()
	}
	v.disposer = nil
}

// PollTask returns the REST task that refreshes training status between
// live updates.
func (v *TrainingView) PollTask(client *api.Client) poll.Task {
	return poll.Task{
		Name: "training_status",
		Fetch: func(ctx context.Context) error {
			status, err := client.GetTrainingStatus(ctx)
			if err != nil {
				return err
			}
			v.mu.Lock()
			v.active = status.TrainingActive
			if status.CurrentRunID != "" {
				v.latest.RunID = status.CurrentRunID
			}
			v.mu.Unlock()
			return nil
		},
	}
}

// Snapshot returns a copy of the current state.
func (v *TrainingView) Snapshot() TrainingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := TrainingSnapshot{
		Active:    v.active,
		RunID:     v.latest.RunID,
		Epoch:     v.latest.Epoch,
		Step:      v.latest.Step,
		Loss:      v.latest.Loss,
		Accuracy:  v.latest.Accuracy,
		Progress:  v.latest.Progress,
		Resources: v.resources,
		Models:    make(map[string]event.ModelStatus, len(v.models)),
	}
	for name, m := range v.models {
		snap.Models[name] = m
	}
	snap.Experiments = make([]event.ExperimentComplete, len(v.experiments))
	copy(snap.Experiments, v.experiments)
	return snap
}

func (v *TrainingView) onTrainingUpdate(msg event.Message) {
	var p event.TrainingUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad training_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.active = true
	v.latest = p
	v.mu.Unlock()
}

func (v *TrainingView) onModelStatus(msg event.Message) {
	var p event.ModelStatus
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad model_status payload", "error", err)
		return
	}

	v.mu.Lock()
	v.models[p.Model] = p
	v.mu.Unlock()
}

func (v *TrainingView) onResourceUpdate(msg event.Message) {
	var p event.ResourceUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad resource_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.resources = p
	v.mu.Unlock()
}

func (v *TrainingView) onExperimentComplete(msg event.Message) {
	var p event.ExperimentComplete
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad experiment_complete payload", "error", err)
		return
	}

	v.mu.Lock()
	v.experiments = append(v.experiments, p)
	if len(v.experiments) > experimentLimit {
		v.experiments = append([]event.ExperimentComplete(nil), v.experiments[len(v.experiments)-experimentLimit:]...)
	}
	v.mu.Unlock()

	v.logger.Info("experiment complete",
		"experiment_id", p.ExperimentID,
		"result", p.Result,
	)
}
