package view

import (
	"fmt"
	"testing"
)

func TestTrainingView_LiveUpdates(t *testing.T) {
	v := NewTrainingView(nil)

	v.onTrainingUpdate(frame(t, `{
		"type": "training_update",
		"run_id": "run-7",
		"epoch": 3,
		"step": 1200,
		"loss": 0.42,
		"accuracy": 0.91,
		"progress": 0.35
	}`))

	snap := v.Snapshot()
	if !snap.Active {
		t.Error("expected Active after a training_update")
	}
	if snap.RunID != "run-7" || snap.Epoch != 3 || snap.Step != 1200 {
		t.Errorf("unexpected run state: %+v", snap)
	}
	if snap.Loss != 0.42 || snap.Accuracy != 0.91 {
		t.Errorf("unexpected metrics: loss=%v accuracy=%v", snap.Loss, snap.Accuracy)
	}
}

func TestTrainingView_ModelStatus(t *testing.T) {
	v := NewTrainingView(nil)

	v.onModelStatus(frame(t, `{"type": "model_status", "model": "ranker", "status": "serving", "latency_ms": 12.5}`))
	v.onModelStatus(frame(t, `{"type": "model_status", "model": "ranker", "status": "degraded", "latency_ms": 88.0}`))
	v.onModelStatus(frame(t, `{"type": "model_status", "model": "embedder", "status": "serving"}`))

	snap := v.Snapshot()
	if len(snap.Models) != 2 {
		t.Fatalf("got %d models, want 2", len(snap.Models))
	}
	// Latest status wins per model.
	if snap.Models["ranker"].Status != "degraded" {
		t.Errorf("ranker status = %q, want degraded", snap.Models["ranker"].Status)
	}
}

func TestTrainingView_ResourceGauges(t *testing.T) {
	v := NewTrainingView(nil)

	v.onResourceUpdate(frame(t, `{"type": "resource_update", "cpu_percent": 55.5, "gpu_percent": 92.0}`))

	snap := v.Snapshot()
	if snap.Resources.CPUPercent != 55.5 || snap.Resources.GPUPercent != 92.0 {
		t.Errorf("unexpected resources: %+v", snap.Resources)
	}
}

func TestTrainingView_ExperimentCap(t *testing.T) {
	v := NewTrainingView(nil)

	for i := 0; i < experimentLimit+10; i++ {
		v.onExperimentComplete(frame(t, fmt.Sprintf(`{
			"type": "experiment_complete",
			"experiment_id": "exp-%d",
			"result": "ok"
		}`, i)))
	}

	snap := v.Snapshot()
	if len(snap.Experiments) != experimentLimit {
		t.Fatalf("got %d experiments, want %d", len(snap.Experiments), experimentLimit)
	}
	if snap.Experiments[0].ExperimentID != "exp-10" {
		t.Errorf("first retained = %q, want exp-10", snap.Experiments[0].ExperimentID)
	}
}
