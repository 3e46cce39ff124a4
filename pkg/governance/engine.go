package governance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dtri/shared/logging"
)

// ActionUnfreeze labels operator-initiated unfreeze entries in the action log.
// It is not a rule action.
const ActionUnfreeze ActionType = "unfreeze"

const recentActionsLimit = 20

// EvaluationResult is what one evaluation cycle produced.
type EvaluationResult struct {
	EntityID    string      `json:"entity_id"`
	Violations  []Violation `json:"violations"`
	Plan        Plan        `json:"plan"`
	State       State       `json:"state"`
	EvaluatedAt time.Time   `json:"evaluated_at"`
}

// Engine ties rule evaluation, planning and execution together for a rule set.
type Engine struct {
	mu     sync.RWMutex
	rules  []Rule
	store  StateStore
	exec   *Executor
	tracer trace.Tracer
}

// NewEngine validates the rule set and wires the engine. retrain may be nil.
func NewEngine(rules []Rule, store StateStore, actions ActionLog, retrain RetrainTrigger) (*Engine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return &Engine{
		rules:  rules,
		store:  store,
		exec:   NewExecutor(store, actions, retrain),
		tracer: otel.Tracer("dtri/governance"),
	}, nil
}

// ValidateRules rejects rules outside the operator and action vocabulary.
func ValidateRules(rules []Rule) error {
	for _, r := range rules {
		if r.ID == "" || r.MetricName == "" {
			return errors.New("rule id and metric name are required")
		}
		if !ValidOperator(r.Operator) {
			return fmt.Errorf("rule %s: unknown operator %q", r.ID, r.Operator)
		}
		if !ValidAction(r.Action) {
			return fmt.Errorf("rule %s: unknown action %q", r.ID, r.Action)
		}
	}
	return nil
}

// ReplaceRules swaps in a new rule set after validation.
func (e *Engine) ReplaceRules(rules []Rule) error {
	if err := ValidateRules(rules); err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
	return nil
}

// Evaluate runs one governance cycle for an entity: evaluate rules, build the
// plan, apply it. Re-evaluating an unchanged snapshot yields the same plan and
// leaves the state where it is.
func (e *Engine) Evaluate(ctx context.Context, entityID string, snapshot map[string]float64) (*EvaluationResult, error) {
	ctx, span := e.tracer.Start(ctx, "governance.evaluate",
		trace.WithAttributes(attribute.String("entity.id", entityID)))
	defer span.End()

	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	violations := EvaluateRules(entityID, rules, snapshot)
	for _, v := range violations {
		ruleViolations.WithLabelValues(string(v.Severity)).Inc()
	}
	span.SetAttributes(attribute.Int("governance.violations", len(violations)))

	plan := BuildPlan(entityID, violations)
	now := time.Now().UTC()

	state, err := e.exec.Apply(ctx, plan, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &EvaluationResult{
		EntityID:    entityID,
		Violations:  violations,
		Plan:        plan,
		State:       state,
		EvaluatedAt: now,
	}, nil
}

// Unfreeze moves a frozen entity back to active. It is the only way out of
// frozen and always demands a reason for the audit trail.
func (e *Engine) Unfreeze(ctx context.Context, entityID, reason string) (State, error) {
	if reason == "" {
		return State{}, errors.New("unfreeze reason is required")
	}

	state, err := e.store.Get(ctx, entityID)
	if err != nil {
		return State{}, fmt.Errorf("load state for %s: %w", entityID, err)
	}
	if state.Status != StatusFrozen {
		return state, fmt.Errorf("entity %s is %s, not frozen", entityID, state.Status)
	}

	now := time.Now().UTC()
	next, swapped, err := e.store.CompareAndSwap(ctx, entityID, StatusFrozen, StatusActive, now)
	if err != nil {
		return State{}, fmt.Errorf("persist unfreeze for %s: %w", entityID, err)
	}
	if !swapped {
		return State{}, fmt.Errorf("unfreeze %s: state changed concurrently (now %s)", entityID, next.Status)
	}
	stateTransitions.WithLabelValues(string(StatusActive)).Inc()

	entry := ActionLogEntry{
		ID:       uuid.NewString(),
		EntityID: entityID,
		Action:   ActionUnfreeze,
		Reason:   reason,
		At:       now,
	}
	if err := e.exec.actions.Append(ctx, []ActionLogEntry{entry}); err != nil {
		return next, fmt.Errorf("append unfreeze log for %s: %w", entityID, err)
	}
	logging.Infof("[governance] entity %s unfrozen: %s", entityID, reason)
	return next, nil
}

// Status returns the entity's current state and its recent governance actions.
func (e *Engine) Status(ctx context.Context, entityID string) (State, []ActionLogEntry, error) {
	state, err := e.store.Get(ctx, entityID)
	if err != nil {
		return State{}, nil, fmt.Errorf("load state for %s: %w", entityID, err)
	}
	recent, err := e.exec.actions.Recent(ctx, entityID, recentActionsLimit)
	if err != nil {
		return state, nil, fmt.Errorf("load recent actions for %s: %w", entityID, err)
	}
	return state, recent, nil
}
