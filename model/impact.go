package model

import "github.com/google/uuid"

// Direction is the sign of a scenario's expected effect on an asset
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// ImpactIndicators break the impact estimate down into thematic signals,
// each in [0, 1]
type ImpactIndicators struct {
	Opportunities float64 `json:"opportunities"`
	Threats       float64 `json:"threats"`
	Growth        float64 `json:"growth"`
	Risks         float64 `json:"risks"`
	Innovation    float64 `json:"innovation"`
	Disruption    float64 `json:"disruption"`
}

// CitedEvidence references an evidence item used in the impact estimate
type CitedEvidence struct {
	RID       uuid.UUID `json:"rid"`
	Relevance float64   `json:"relevance"`
}

// ImpactCalculation is the calibrated impact estimate for one
// (asset, scenario) pair. RawScore is in [-5, 5], NormalizedScore in [0, 1]
// with NormalizedScore = (RawScore+5)/10.
type ImpactCalculation struct {
	RawScore        float64          `json:"raw_score"`
	NormalizedScore float64          `json:"normalized_score"`
	Direction       Direction        `json:"direction"`
	Indicators      ImpactIndicators `json:"indicators"`
	Reasoning       string           `json:"reasoning,omitempty"`
	CitedEvidence   []CitedEvidence  `json:"cited_evidence,omitempty"`
	Confidence      float64          `json:"confidence"`
	Provider        string           `json:"provider,omitempty"`
	FromFallback    bool             `json:"from_fallback"`
}
