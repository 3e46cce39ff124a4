package scoring

import "math"

// Position classifies an entity against its closest competitor by composite
// delta (competitor minus entity, on the 0-1 composite scale).
type Position string

const (
	PositionAhead       Position = "ahead"
	PositionBehind      Position = "behind"
	PositionCompetitive Position = "competitive"
)

// competitiveDeltaThreshold mirrors the autonomous-trigger threshold: a gap
// above a tenth of a composite point is actionable.
const competitiveDeltaThreshold = 0.10

// ClassifyCompetitivePosition maps a competitive delta to a position label.
// Positive delta means the competitor leads.
func ClassifyCompetitivePosition(delta float64) Position {
	switch {
	case delta > competitiveDeltaThreshold:
		return PositionBehind
	case delta < -competitiveDeltaThreshold:
		return PositionAhead
	default:
		return PositionCompetitive
	}
}

// TSM computes the Trust Sensitivity Multiplier from macro context:
// 1.0 + 0.3*interestRate + 0.5*confidenceDrop. Monotone increasing in both
// inputs; negative inputs are treated as zero and the result is capped.
func (c Config) TSM(interestRate, confidenceDrop float64) float64 {
	if interestRate < 0 {
		interestRate = 0
	}
	if confidenceDrop < 0 {
		confidenceDrop = 0
	}
	tsm := 1.0 + interestRate*0.3 + confidenceDrop*0.5
	if tsm > c.TSMCap {
		return c.TSMCap
	}
	return tsm
}

// DollarImpact converts a composite score delta into dollars using the
// configured elasticity, scaled by the trust sensitivity multiplier.
func DollarImpact(scoreDelta, elasticityPerPoint, tsm float64) float64 {
	return scoreDelta * elasticityPerPoint * tsm
}

// VisibilityScores holds the channel-level visibility indices for an entity.
type VisibilityScores struct {
	Overall float64 `json:"overall"`
	SEO     float64 `json:"seo"`
	AEO     float64 `json:"aeo"`
	GEO     float64 `json:"geo"`
	Social  float64 `json:"social"`
}

// ChannelBreakdown is the dollar attribution of revenue at risk by channel.
type ChannelBreakdown struct {
	OrganicSearch float64 `json:"organic_search_impact"`
	AISearch      float64 `json:"ai_search_impact"`
	LocalSearch   float64 `json:"local_search_impact"`
	SocialMedia   float64 `json:"social_media_impact"`
}

// RevenueImpact is the financial translation of a visibility gap.
type RevenueImpact struct {
	MonthlyAtRisk      float64          `json:"monthly_revenue_at_risk"`
	AnnualAtRisk       float64          `json:"annual_revenue_at_risk"`
	ElasticityPerPoint float64          `json:"elasticity_per_point"`
	PercentileRank     int              `json:"percentile_rank"`
	Breakdown          ChannelBreakdown `json:"breakdown"`
}

// RevenueAtRisk computes monthly and annual revenue at risk from the gap
// between the segment benchmark and the entity's visibility, attributed
// across channels by the configured channel weights.
func (c Config) RevenueAtRisk(scores VisibilityScores, b Benchmark) RevenueImpact {
	gap := b.AvgVisibilityScore - scores.Overall
	monthly := math.Max(0, gap*b.ElasticityPerPoint)

	channelRisk := func(channelScore, weight float64) float64 {
		return math.Max(0, (b.AvgVisibilityScore-channelScore)*b.ElasticityPerPoint*weight)
	}

	return RevenueImpact{
		MonthlyAtRisk:      monthly,
		AnnualAtRisk:       monthly * 12,
		ElasticityPerPoint: b.ElasticityPerPoint,
		PercentileRank:     percentileRank(scores.Overall),
		Breakdown: ChannelBreakdown{
			OrganicSearch: channelRisk(scores.SEO, c.ChannelWeights.Organic),
			AISearch:      channelRisk(scores.AEO, c.ChannelWeights.AISearch),
			LocalSearch:   channelRisk(scores.GEO, c.ChannelWeights.Local),
			SocialMedia:   channelRisk(scores.Social, c.ChannelWeights.Social),
		},
	}
}

// ImprovementImpact estimates the return on closing the gap between current
// and target visibility.
type ImprovementImpact struct {
	MonthlyRevenueLift float64 `json:"monthly_revenue_lift"`
	ROIEstimate        float64 `json:"roi_estimate_percent"`
	PaybackMonths      float64 `json:"payback_period_months"`
	ImplementationCost float64 `json:"implementation_cost"`
}

// EstimateImprovement prices the lift of moving from current to target scores
// against per-point implementation costs.
func (c Config) EstimateImprovement(current, target VisibilityScores, b Benchmark) ImprovementImpact {
	lift := (target.Overall - current.Overall) * b.ElasticityPerPoint

	cost := 0.0
	for _, ch := range []struct{ gain, perPoint float64 }{
		{target.SEO - current.SEO, c.CostPerPoint.Organic},
		{target.AEO - current.AEO, c.CostPerPoint.AISearch},
		{target.GEO - current.GEO, c.CostPerPoint.Local},
		{target.Social - current.Social, c.CostPerPoint.Social},
	} {
		if ch.gain > 0 {
			cost += ch.gain * ch.perPoint
		}
	}

	out := ImprovementImpact{MonthlyRevenueLift: lift, ImplementationCost: cost}
	if cost > 0 {
		out.ROIEstimate = (lift * 12 / cost) * 100
		if lift > 0 {
			out.PaybackMonths = cost / lift
		}
	}
	return out
}

// DecayTaxCost models unnecessary ad spend forced by internal-execution score
// decline: lost organic leads bought back at the blended CAC, scaled by TSM.
func DecayTaxCost(scoreDecline, betaDecayLeads, organicClosingRate, blendedCAC, tsm float64) float64 {
	if organicClosingRate <= 0 {
		return 0
	}
	decayLeads := (scoreDecline * betaDecayLeads) / organicClosingRate
	return decayLeads * blendedCAC * tsm
}

// AROI is the actionable ROI of a remediation: predicted profit lift scaled by
// TSM and the leverage-adjustment multiplier, over cost of effort.
func (c Config) AROI(predictedProfitLift, tsm, costOfEffort float64) float64 {
	if costOfEffort <= 0 {
		return 0
	}
	return (predictedProfitLift * tsm * c.LAM) / costOfEffort
}

// StrategicWindowValue prices the opportunity window of a fix before the
// market closes it.
func StrategicWindowValue(leadGain, ttmMonths, organicClosingRate, grossProfitPerUnit, tsm float64) float64 {
	return leadGain * ttmMonths * organicClosingRate * grossProfitPerUnit * tsm
}

// percentileRank places an overall visibility score on the industry ladder.
func percentileRank(score float64) int {
	switch {
	case score >= 90:
		return 95
	case score >= 85:
		return 90
	case score >= 80:
		return 80
	case score >= 75:
		return 70
	case score >= 70:
		return 60
	case score >= 65:
		return 50
	case score >= 60:
		return 40
	case score >= 55:
		return 30
	case score >= 50:
		return 20
	default:
		return 10
	}
}
