package contentrisk

import "errors"

// CategoryWeights are the per-category risk increments. Each detected category
// adds its weight once; the total is capped at 1.0.
type CategoryWeights struct {
	Price            float64 `yaml:"price"`
	Warranty         float64 `yaml:"warranty"`
	TechnicalSpecs   float64 `yaml:"technical_specs"`
	Promotional      float64 `yaml:"promotional"`
	UnverifiedClaims float64 `yaml:"unverified_claims"`
	YMYL             float64 `yaml:"ymyl"`

	// Context surcharges.
	DefensiveOnNegative float64 `yaml:"defensive_on_negative"`
	PromiseToHighValue  float64 `yaml:"promise_to_high_value"`
}

// Bands are the decision thresholds: score < Flag continues, score < Suppress
// flags, anything at or above Suppress is suppressed.
type Bands struct {
	Flag     float64 `yaml:"flag"`
	Suppress float64 `yaml:"suppress"`
}

// Templates are the canned replies substituted when a drafted reply is too
// risky to publish as-is.
type Templates struct {
	Negative     []string `yaml:"negative"`
	Positive     []string `yaml:"positive"`
	SafeNegative string   `yaml:"safe_negative"`
	SafePositive string   `yaml:"safe_positive"`
}

// TrustImpact holds the score bands and point deltas for the trust-signal
// adjustment attached to each processed reply. The deltas are tenant-tunable
// tables, not derived math.
type TrustImpact struct {
	// Experience band edges over the risk score.
	ExperienceHighBand float64 `yaml:"experience_high_band"`
	ExperienceMidBand  float64 `yaml:"experience_mid_band"`
	// Expertise band edge over the risk score.
	ExpertiseAccurateBand float64 `yaml:"expertise_accurate_band"`
	// Authoritativeness requires both a continue decision and a score below
	// this edge for the full bonus.
	AuthorityBand float64 `yaml:"authority_band"`

	// Trustworthiness delta by publication decision.
	TrustContinue int `yaml:"trust_continue"`
	TrustFlag     int `yaml:"trust_flag"`
	TrustSuppress int `yaml:"trust_suppress"`
	// Experience delta by risk-score band.
	ExperienceHigh int `yaml:"experience_high"`
	ExperienceMid  int `yaml:"experience_mid"`
	ExperienceLow  int `yaml:"experience_low"`
	// Expertise delta: revalidated, accurate band, else.
	ExpertiseValidated int `yaml:"expertise_validated"`
	ExpertiseAccurate  int `yaml:"expertise_accurate"`
	ExpertiseLow       int `yaml:"expertise_low"`
	// Authoritativeness delta: consistent auto replies, human oversight, else.
	AuthorityConsistent int `yaml:"authority_consistent"`
	AuthorityReviewed   int `yaml:"authority_reviewed"`
	AuthorityLow        int `yaml:"authority_low"`
}

// Config carries all classifier tunables.
type Config struct {
	Weights     CategoryWeights `yaml:"weights"`
	Bands       Bands           `yaml:"bands"`
	Templates   Templates       `yaml:"templates"`
	TrustImpact TrustImpact     `yaml:"trust_impact"`
}

// DefaultConfig returns the production tables.
func DefaultConfig() Config {
	return Config{
		Weights: CategoryWeights{
			Price:               0.40,
			Warranty:            0.30,
			TechnicalSpecs:      0.20,
			Promotional:         0.15,
			UnverifiedClaims:    0.25,
			YMYL:                0.35,
			DefensiveOnNegative: 0.10,
			PromiseToHighValue:  0.20,
		},
		Bands: Bands{Flag: 0.50, Suppress: 0.75},
		Templates: Templates{
			Negative: []string{
				"Thank you for your feedback. We take all reviews seriously and would like to discuss your experience further. Please contact us directly.",
				"We appreciate you taking the time to share your experience. Our team would like to address your concerns personally.",
				"Thank you for your review. We value your feedback and would like to make this right. Please reach out to us.",
			},
			Positive: []string{
				"Thank you for your wonderful review! We're thrilled you had a great experience with us.",
				"We appreciate your kind words and are so glad we could provide excellent service.",
				"Thank you for taking the time to share your positive experience. We look forward to serving you again.",
			},
			SafeNegative: "Thank you for your feedback. Please contact us directly so we can address your concerns personally.",
			SafePositive: "Thank you for your review! We appreciate your business.",
		},
		TrustImpact: TrustImpact{
			ExperienceHighBand:    0.3,
			ExperienceMidBand:     0.6,
			ExpertiseAccurateBand: 0.4,
			AuthorityBand:         0.3,

			TrustContinue: 5,
			TrustFlag:     3,
			TrustSuppress: -2,

			ExperienceHigh: 8,
			ExperienceMid:  4,
			ExperienceLow:  -5,

			ExpertiseValidated: 6,
			ExpertiseAccurate:  4,
			ExpertiseLow:       -3,

			AuthorityConsistent: 5,
			AuthorityReviewed:   2,
			AuthorityLow:        -1,
		},
	}
}

// Validate fails fast on a malformed config.
func (c Config) Validate() error {
	weights := []float64{
		c.Weights.Price, c.Weights.Warranty, c.Weights.TechnicalSpecs,
		c.Weights.Promotional, c.Weights.UnverifiedClaims, c.Weights.YMYL,
		c.Weights.DefensiveOnNegative, c.Weights.PromiseToHighValue,
	}
	for _, w := range weights {
		if w < 0 || w > 1 {
			return errors.New("category weight outside [0,1]")
		}
	}
	if c.Bands.Flag <= 0 || c.Bands.Suppress <= c.Bands.Flag || c.Bands.Suppress > 1 {
		return errors.New("decision bands must satisfy 0 < flag < suppress <= 1")
	}
	if len(c.Templates.Negative) == 0 || len(c.Templates.Positive) == 0 {
		return errors.New("reply templates must not be empty")
	}
	if c.Templates.SafeNegative == "" || c.Templates.SafePositive == "" {
		return errors.New("safe replies must not be empty")
	}
	ti := c.TrustImpact
	if ti.ExperienceHighBand <= 0 || ti.ExperienceMidBand <= ti.ExperienceHighBand {
		return errors.New("experience bands must be ordered and positive")
	}
	if ti.ExpertiseAccurateBand <= 0 || ti.AuthorityBand <= 0 {
		return errors.New("expertise and authority bands must be positive")
	}
	return nil
}
