package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dtri/shared/logging"
)

// StateStore persists entity lifecycle states. Implementations must treat an
// unknown entity as active and make CompareAndSwap atomic.
type StateStore interface {
	Get(ctx context.Context, entityID string) (State, error)
	// CompareAndSwap transitions entityID from 'from' to 'to'. It returns the
	// resulting state and whether the swap applied; a false swap means the
	// stored status no longer matched 'from'.
	CompareAndSwap(ctx context.Context, entityID string, from, to Status, at time.Time) (State, bool, error)
}

// ActionLog is the append-only record of governance actions.
type ActionLog interface {
	Append(ctx context.Context, entries []ActionLogEntry) error
	Recent(ctx context.Context, entityID string, limit int) ([]ActionLogEntry, error)
}

// RetrainTrigger kicks off a model rebuild. Implementations must be safe to
// call from multiple goroutines.
type RetrainTrigger interface {
	Trigger(ctx context.Context, entityID, reason string) error
}

const defaultRetrainTimeout = 30 * time.Second

// Executor applies plans against the injected stores. It owns every side
// effect of an evaluation cycle.
type Executor struct {
	store          StateStore
	actions        ActionLog
	retrain        RetrainTrigger
	retrainTimeout time.Duration
}

// NewExecutor wires an executor. retrain may be nil when no retrain pipeline
// is configured; retrain requests are then logged and dropped.
func NewExecutor(store StateStore, actions ActionLog, retrain RetrainTrigger) *Executor {
	return &Executor{
		store:          store,
		actions:        actions,
		retrain:        retrain,
		retrainTimeout: defaultRetrainTimeout,
	}
}

// Apply runs a plan: status transition first, then the action log, then
// retrain dispatch. A failed status persist aborts the cycle before anything
// else happens. Retrain dispatch is fire-and-forget and never fails the cycle.
func (e *Executor) Apply(ctx context.Context, plan Plan, now time.Time) (State, error) {
	state, err := e.store.Get(ctx, plan.EntityID)
	if err != nil {
		return State{}, fmt.Errorf("load state for %s: %w", plan.EntityID, err)
	}

	if target := plan.TargetStatus; target != nil && state.Status != *target {
		// A frozen entity only leaves frozen through Unfreeze; review demands
		// never downgrade it.
		if state.Status == StatusFrozen {
			logging.Debugf("[governance] %s already frozen, ignoring %s demand", plan.EntityID, *target)
		} else {
			next, swapped, err := e.store.CompareAndSwap(ctx, plan.EntityID, state.Status, *target, now)
			if err != nil {
				return State{}, fmt.Errorf("persist %s transition for %s: %w", *target, plan.EntityID, err)
			}
			if !swapped {
				return State{}, fmt.Errorf("persist %s transition for %s: state changed concurrently (now %s)",
					*target, plan.EntityID, next.Status)
			}
			state = next
			stateTransitions.WithLabelValues(string(*target)).Inc()
			logging.Infof("[governance] entity %s -> %s", plan.EntityID, *target)
		}
	}

	if len(plan.LogEntries) > 0 {
		entries := make([]ActionLogEntry, len(plan.LogEntries))
		for i, entry := range plan.LogEntries {
			entry.ID = uuid.NewString()
			entry.At = now
			entries[i] = entry
		}
		if err := e.actions.Append(ctx, entries); err != nil {
			return state, fmt.Errorf("append action log for %s: %w", plan.EntityID, err)
		}
	}

	for _, req := range plan.RetrainRequests {
		e.dispatchRetrain(req)
	}

	return state, nil
}

// dispatchRetrain fires the retrain request in the background with its own
// timeout so a slow pipeline cannot stall or fail an evaluation.
func (e *Executor) dispatchRetrain(req RetrainRequest) {
	if e.retrain == nil {
		logging.Warnf("[governance] no retrain trigger configured, dropping request for %s (%s)", req.EntityID, req.RuleID)
		retrainDispatches.WithLabelValues("dropped").Inc()
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.retrainTimeout)
		defer cancel()
		if err := e.retrain.Trigger(ctx, req.EntityID, req.Reason); err != nil {
			logging.Errorf("[governance] retrain trigger failed for %s: %v", req.EntityID, err)
			retrainDispatches.WithLabelValues("error").Inc()
			return
		}
		retrainDispatches.WithLabelValues("ok").Inc()
	}()
}
