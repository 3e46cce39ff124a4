package governance

import "fmt"

// RetrainRequest asks the retrain pipeline to rebuild an entity's model.
type RetrainRequest struct {
	EntityID string `json:"entity_id"`
	RuleID   string `json:"rule_id"`
	Reason   string `json:"reason"`
}

// Plan is the deterministic outcome of one evaluation cycle before any side
// effect runs. Identical violations always produce an identical plan.
type Plan struct {
	EntityID string `json:"entity_id"`
	// TargetStatus is nil when no status change is demanded.
	TargetStatus    *Status          `json:"target_status,omitempty"`
	LogEntries      []ActionLogEntry `json:"log_entries"`
	RetrainRequests []RetrainRequest `json:"retrain_requests"`
}

// BuildPlan folds violations into a plan. Freeze outranks review; alert and
// retrain never change status. Every violation is logged even when a stronger
// one supersedes its status effect.
func BuildPlan(entityID string, violations []Violation) Plan {
	plan := Plan{EntityID: entityID}

	var wantFreeze, wantReview bool
	for _, v := range violations {
		reason := fmt.Sprintf("%s %s %g observed %g", v.MetricName, v.Operator, v.Threshold, v.CurrentValue)
		plan.LogEntries = append(plan.LogEntries, ActionLogEntry{
			EntityID: entityID,
			Action:   v.Action,
			RuleID:   v.RuleID,
			Reason:   reason,
		})

		switch v.Action {
		case ActionFreezeModel:
			wantFreeze = true
		case ActionManualReview:
			wantReview = true
		case ActionAutoRetrain:
			plan.RetrainRequests = append(plan.RetrainRequests, RetrainRequest{
				EntityID: entityID,
				RuleID:   v.RuleID,
				Reason:   reason,
			})
		}
	}

	switch {
	case wantFreeze:
		s := StatusFrozen
		plan.TargetStatus = &s
	case wantReview:
		s := StatusReview
		plan.TargetStatus = &s
	}
	return plan
}
