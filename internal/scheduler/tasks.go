package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskConfidenceRecalc = "deals.confidence.recalc"

type ConfidenceRecalcPayload struct {
	OrganizationID string `json:"organizationId"`
}

func NewConfidenceRecalcTask(payload ConfidenceRecalcPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConfidenceRecalc, data), nil
}

func ParseConfidenceRecalcPayload(task *asynq.Task) (ConfidenceRecalcPayload, error) {
	var payload ConfidenceRecalcPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConfidenceRecalcPayload{}, err
	}
	return payload, nil
}
