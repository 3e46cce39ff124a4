package governance

import (
	"math"

	"dtri/shared/logging"
)

// equalityEpsilon is the tolerance for the = and != operators.
const equalityEpsilon = 0.001

// EvaluateRules checks every active rule against the snapshot and returns the
// violations. Pure: no state is read or written. Rules naming a metric absent
// from the snapshot are skipped, not treated as violated.
func EvaluateRules(entityID string, rules []Rule, snapshot map[string]float64) []Violation {
	var violations []Violation
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		value, ok := snapshot[rule.MetricName]
		if !ok {
			logging.Debugf("[governance] rule %s skipped: metric %q not in snapshot for %s",
				rule.ID, rule.MetricName, entityID)
			continue
		}
		if !compare(rule.Operator, value, rule.Threshold) {
			continue
		}
		violations = append(violations, Violation{
			RuleID:       rule.ID,
			EntityID:     entityID,
			MetricName:   rule.MetricName,
			CurrentValue: value,
			Operator:     rule.Operator,
			Threshold:    rule.Threshold,
			Action:       rule.Action,
			Severity:     SeverityFor(rule.Action),
		})
	}
	return violations
}

func compare(op Operator, value, threshold float64) bool {
	switch op {
	case OpLess:
		return value < threshold
	case OpGreater:
		return value > threshold
	case OpLessEqual:
		return value <= threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpEqual:
		return math.Abs(value-threshold) < equalityEpsilon
	case OpNotEqual:
		return math.Abs(value-threshold) >= equalityEpsilon
	default:
		logging.Warnf("[governance] unknown operator %q", op)
		return false
	}
}
