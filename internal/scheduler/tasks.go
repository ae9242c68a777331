package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TaskScoreSync = "leads.score.sync"

	// TaskScoreSyncAll recomputes scores across every workspace. Enqueued
	// nightly by the worker's scheduler; carries no payload.
	TaskScoreSyncAll = "leads.score.sync.all"
)

// ScoreSyncPayload asks the worker to recompute scores for a workspace, or
// for a single lead when LeadID is set. Score writes are idempotent, so
// redelivery of the same task is harmless.
type ScoreSyncPayload struct {
	WorkspaceID string  `json:"workspaceId"`
	LeadID      *string `json:"leadId,omitempty"`
}

func NewScoreSyncTask(payload ScoreSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreSync, data), nil
}

func ParseScoreSyncPayload(task *asynq.Task) (ScoreSyncPayload, error) {
	var payload ScoreSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScoreSyncPayload{}, err
	}
	return payload, nil
}
