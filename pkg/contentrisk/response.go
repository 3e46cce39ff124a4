package contentrisk

import (
	"hash/fnv"
	"math"
	"time"

	"github.com/google/uuid"
)

// ResponseType is how the reply ultimately goes out.
type ResponseType string

const (
	ResponseAuto     ResponseType = "auto"
	ResponseAssisted ResponseType = "assisted"
	ResponseBlocked  ResponseType = "blocked"
)

// Review is an incoming customer review plus the drafted reply to vet.
type Review struct {
	EntityID      string    `json:"entity_id"`
	ReviewID      string    `json:"review_id"`
	ReviewText    string    `json:"review_text"`
	Rating        int       `json:"rating"`
	DraftReply    string    `json:"draft_reply"`
	ReceivedAt    time.Time `json:"received_at"`
	Context       Context   `json:"context"`
}

// EEATImpact is the estimated trust-signal adjustment of the chosen strategy.
type EEATImpact struct {
	Trustworthiness   int `json:"trustworthiness"`
	Experience        int `json:"experience"`
	Expertise         int `json:"expertise"`
	Authoritativeness int `json:"authoritativeness"`
}

// Outcome is a processed review reply.
type Outcome struct {
	ID             string       `json:"id"`
	EntityID       string       `json:"entity_id"`
	ReviewID       string       `json:"review_id"`
	Assessment     Assessment   `json:"assessment"`
	ResponseType   ResponseType `json:"response_type"`
	ResponseText   string       `json:"response_text"`
	FreshnessScore float64      `json:"freshness_score"`
	EEATImpact     EEATImpact   `json:"eeat_impact"`
	ProcessedAt    time.Time    `json:"processed_at"`
}

// ProcessReview vets a drafted reply and returns the publication outcome,
// substituting a safe templated reply when the draft is too risky.
func (c *Classifier) ProcessReview(review Review, now time.Time) Outcome {
	assessment := c.Assess(review.DraftReply, review.Context)

	hours := now.Sub(review.ReceivedAt).Hours()
	isNegative := review.Rating <= 3

	responseType := ResponseAuto
	if assessment.Action == ActionSuppress {
		responseType = ResponseBlocked
	} else if assessment.RequiresHumanReview {
		responseType = ResponseAssisted
	}

	return Outcome{
		ID:             uuid.NewString(),
		EntityID:       review.EntityID,
		ReviewID:       review.ReviewID,
		Assessment:     assessment,
		ResponseType:   responseType,
		ResponseText:   c.SelectResponse(review, assessment, isNegative),
		FreshnessScore: FreshnessScore(assessment.Action, hours),
		EEATImpact:     c.trustImpact(assessment),
		ProcessedAt:    now,
	}
}

// SelectResponse picks the text that actually goes out: the draft when risk is
// low, a canned template when medium, the safe reply when suppressed.
func (c *Classifier) SelectResponse(review Review, a Assessment, isNegative bool) string {
	switch a.Action {
	case ActionContinue:
		return review.DraftReply
	case ActionFlag:
		pool := c.cfg.Templates.Positive
		if isNegative {
			pool = c.cfg.Templates.Negative
		}
		return pool[templateIndex(review.ReviewID, len(pool))]
	default:
		if isNegative {
			return c.cfg.Templates.SafeNegative
		}
		return c.cfg.Templates.SafePositive
	}
}

// templateIndex spreads template choice across reviews while staying
// deterministic per review.
func templateIndex(reviewID string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(reviewID))
	return int(h.Sum32() % uint32(n))
}

// FreshnessScore rates how much engagement value the reply timing retains.
// Starts at 100, penalizes suppression and delay, rewards quick clean replies.
func FreshnessScore(action Action, hoursSinceReview float64) float64 {
	score := 100.0

	if action == ActionSuppress {
		score -= 30
	}
	if hoursSinceReview > 4 {
		score -= math.Min(20, hoursSinceReview*2)
	}
	if action == ActionContinue && hoursSinceReview < 2 {
		score += 10
	}

	return math.Max(0, math.Min(100, score))
}

func (c *Classifier) trustImpact(a Assessment) EEATImpact {
	ti := c.cfg.TrustImpact
	var impact EEATImpact

	switch a.Action {
	case ActionContinue:
		impact.Trustworthiness = ti.TrustContinue
	case ActionFlag:
		impact.Trustworthiness = ti.TrustFlag
	default:
		impact.Trustworthiness = ti.TrustSuppress
	}

	switch {
	case a.Score < ti.ExperienceHighBand:
		impact.Experience = ti.ExperienceHigh
	case a.Score < ti.ExperienceMidBand:
		impact.Experience = ti.ExperienceMid
	default:
		impact.Experience = ti.ExperienceLow
	}

	switch {
	case a.SchemaRevalidation:
		impact.Expertise = ti.ExpertiseValidated
	case a.Score < ti.ExpertiseAccurateBand:
		impact.Expertise = ti.ExpertiseAccurate
	default:
		impact.Expertise = ti.ExpertiseLow
	}

	switch {
	case a.Action == ActionContinue && a.Score < ti.AuthorityBand:
		impact.Authoritativeness = ti.AuthorityConsistent
	case a.RequiresHumanReview:
		impact.Authoritativeness = ti.AuthorityReviewed
	default:
		impact.Authoritativeness = ti.AuthorityLow
	}

	return impact
}
