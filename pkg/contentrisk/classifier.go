// Package contentrisk scores drafted customer-facing replies for hallucination
// risk and decides whether they may be published automatically.
package contentrisk

import (
	"math"
	"regexp"
	"strings"
)

// Action is the publication decision for a drafted reply.
type Action string

const (
	ActionContinue Action = "continue"
	ActionFlag     Action = "flag"
	ActionSuppress Action = "suppress"
)

// Context carries reply circumstances that add risk on top of the text itself.
type Context struct {
	NegativeReview    bool `json:"negative_review"`
	HighValueCustomer bool `json:"high_value_customer"`
}

// Assessment is the classifier verdict for one drafted reply.
type Assessment struct {
	Score                float64  `json:"score"`
	Categories           []string `json:"categories"`
	Action               Action   `json:"action"`
	Message              string   `json:"message"`
	RequiresHumanReview  bool     `json:"requires_human_review"`
	AllowsManualResponse bool     `json:"allows_manual_response"`
	SchemaRevalidation   bool     `json:"schema_revalidation"`
}

type categoryDetector struct {
	name    string
	pattern *regexp.Regexp
	weight  float64
}

// Classifier evaluates reply text against compiled category detectors.
// Safe for concurrent use.
type Classifier struct {
	cfg        Config
	categories []categoryDetector
	defensive  *regexp.Regexp
	promissory *regexp.Regexp
}

var (
	rePrice      = regexp.MustCompile(`(?i)\$\d+|price|cost|fee|charge|payment|finance|special|deal|discount|offer`)
	reWarranty   = regexp.MustCompile(`(?i)warranty|guarantee|coverage|protection|terms|conditions|policy|legal|liability|responsible`)
	reTechSpecs  = regexp.MustCompile(`(?i)engine|transmission|brake|suspension|mpg|horsepower|torque|cylinders|specification|specs|features`)
	rePromo      = regexp.MustCompile(`(?i)best|greatest|amazing|incredible|guaranteed|promise|assure|limited time|act now|don't miss`)
	reClaims     = regexp.MustCompile(`(?i)studies show|research indicates|experts say|proven|verified|tested|certified|according to|data shows|statistics`)
	reYMYL       = regexp.MustCompile(`(?i)financing|credit|loan|interest|insurance|coverage|claim|safety|recall|defect|injury`)
	reDefensive  = regexp.MustCompile(`(?i)not our fault|beyond our control|misunderstanding|confusion|policy|procedure|rules`)
	rePromissory = regexp.MustCompile(`(?i)will|shall|guarantee|promise|ensure|assure|certain|definitely|absolutely|surely`)
)

// New builds a classifier from the given config.
func New(cfg Config) *Classifier {
	return &Classifier{
		cfg: cfg,
		categories: []categoryDetector{
			{"price", rePrice, cfg.Weights.Price},
			{"warranty", reWarranty, cfg.Weights.Warranty},
			{"technical_specs", reTechSpecs, cfg.Weights.TechnicalSpecs},
			{"promotional", rePromo, cfg.Weights.Promotional},
			{"unverified_claims", reClaims, cfg.Weights.UnverifiedClaims},
			{"ymyl", reYMYL, cfg.Weights.YMYL},
		},
		defensive:  reDefensive,
		promissory: rePromissory,
	}
}

// Score returns the raw risk score for a drafted reply, capped at 1.0, and the
// categories that fired. Empty text scores zero.
func (c *Classifier) Score(text string, ctx Context) (float64, []string) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	var score float64
	var fired []string
	for _, det := range c.categories {
		if det.pattern.MatchString(text) {
			score += det.weight
			fired = append(fired, det.name)
		}
	}

	if ctx.NegativeReview && c.defensive.MatchString(text) {
		score += c.cfg.Weights.DefensiveOnNegative
		fired = append(fired, "defensive")
	}
	if ctx.HighValueCustomer && c.promissory.MatchString(text) {
		score += c.cfg.Weights.PromiseToHighValue
		fired = append(fired, "promissory")
	}

	return math.Min(1.0, score), fired
}

// Assess scores a drafted reply and maps the score onto the decision bands.
func (c *Classifier) Assess(text string, ctx Context) Assessment {
	score, categories := c.Score(text, ctx)

	a := Assessment{Score: score, Categories: categories}
	switch {
	case score < c.cfg.Bands.Flag:
		a.Action = ActionContinue
		a.Message = "low risk, publish normally"
		a.AllowsManualResponse = true
	case score < c.cfg.Bands.Suppress:
		a.Action = ActionFlag
		a.Message = "medium risk, flagged for review"
		a.RequiresHumanReview = true
		a.AllowsManualResponse = true
	default:
		a.Action = ActionSuppress
		a.Message = "high risk, auto-publish suppressed"
		a.RequiresHumanReview = true
		a.AllowsManualResponse = true
		a.SchemaRevalidation = true
	}

	riskDecisions.WithLabelValues(string(a.Action)).Inc()
	return a
}
