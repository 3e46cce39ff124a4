// Package governance evaluates model-health rules against metric snapshots and
// drives the freeze/alert/review/retrain lifecycle of scored entities.
package governance

import "time"

// Status is the lifecycle state of an entity's scoring model.
type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
	StatusReview Status = "review"
)

// ActionType is what a triggered rule demands.
type ActionType string

const (
	ActionFreezeModel  ActionType = "freeze_model"
	ActionAlert        ActionType = "alert"
	ActionManualReview ActionType = "manual_review"
	ActionAutoRetrain  ActionType = "auto_retrain"
)

// Severity ranks a violation by the weight of its action.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Operator is a rule comparison operator.
type Operator string

const (
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
)

// Rule is one governance condition over a snapshot metric.
type Rule struct {
	ID         string     `json:"id" yaml:"id"`
	MetricName string     `json:"metric_name" yaml:"metric_name"`
	Operator   Operator   `json:"operator" yaml:"operator"`
	Threshold  float64    `json:"threshold" yaml:"threshold"`
	Action     ActionType `json:"action" yaml:"action"`
	Active     bool       `json:"active" yaml:"active"`
}

// Violation is one rule that fired against a snapshot.
type Violation struct {
	RuleID       string     `json:"rule_id"`
	EntityID     string     `json:"entity_id"`
	MetricName   string     `json:"metric_name"`
	CurrentValue float64    `json:"current_value"`
	Operator     Operator   `json:"operator"`
	Threshold    float64    `json:"threshold"`
	Action       ActionType `json:"action"`
	Severity     Severity   `json:"severity"`
}

// State is the persisted lifecycle state of one entity.
type State struct {
	EntityID  string    `json:"entity_id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionLogEntry records one governance action taken for an entity. IDs and
// timestamps are assigned at execution time.
type ActionLogEntry struct {
	ID       string     `json:"id"`
	EntityID string     `json:"entity_id"`
	Action   ActionType `json:"action"`
	RuleID   string     `json:"rule_id,omitempty"`
	Reason   string     `json:"reason"`
	At       time.Time  `json:"at"`
}

// SeverityFor maps an action type to its severity. The action alone decides:
// freezing is always critical no matter which metric tripped it.
func SeverityFor(action ActionType) Severity {
	switch action {
	case ActionFreezeModel:
		return SeverityCritical
	case ActionManualReview:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// ValidOperator reports whether op is in the rule vocabulary.
func ValidOperator(op Operator) bool {
	switch op {
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual, OpEqual, OpNotEqual:
		return true
	}
	return false
}

// ValidAction reports whether a is in the action vocabulary.
func ValidAction(a ActionType) bool {
	switch a {
	case ActionFreezeModel, ActionAlert, ActionManualReview, ActionAutoRetrain:
		return true
	}
	return false
}
