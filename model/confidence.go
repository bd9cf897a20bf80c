package model

// ConfidenceDimensions are the six scored dimensions of an analysis
type ConfidenceDimensions struct {
	DataQuality         float64 `json:"data_quality"`
	EvidenceStrength    float64 `json:"evidence_strength"`
	AnalysisConsistency float64 `json:"analysis_consistency"`
	TemporalReliability float64 `json:"temporal_reliability"`
	SourceCredibility   float64 `json:"source_credibility"`
	Methodological      float64 `json:"methodological"`
}

// UncertaintyFactors quantify the sources of uncertainty in an analysis
type UncertaintyFactors struct {
	DataSparsity        float64 `json:"data_sparsity"`
	SourceDiversity     float64 `json:"source_diversity"`
	ModelUncertainty    float64 `json:"model_uncertainty"`
	TemporalUncertainty float64 `json:"temporal_uncertainty"`
	OverallUncertainty  float64 `json:"overall_uncertainty"`
}

// ConfidenceInterval bounds the overall confidence estimate
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Width float64 `json:"width"`
}

// ConfidenceScore is the multi-dimensional confidence assessment of a
// single matrix analysis. Overall is clamped to [0.1, 1].
type ConfidenceScore struct {
	Overall         float64              `json:"overall"`
	Dimensions      ConfidenceDimensions `json:"dimensions"`
	Uncertainty     UncertaintyFactors   `json:"uncertainty"`
	Interval        ConfidenceInterval   `json:"interval"`
	QualityGrade    string               `json:"quality_grade"`
	Recommendations []string             `json:"recommendations"`
}

// ImpactBounds are confidence bounds around a normalized impact score
type ImpactBounds struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Margin float64 `json:"margin"`
}

// TemporalDegradation models how a confidence score decays with age
type TemporalDegradation struct {
	AgeDays           int     `json:"age_days"`
	CurrentConfidence float64 `json:"current_confidence"`
	Degradation       float64 `json:"degradation"`
	NeedsRefresh      bool    `json:"needs_refresh"`
}

// ConsistencyRating classifies the variance across multiple analyses
type ConsistencyRating string

const (
	ConsistencyHigh     ConsistencyRating = "high"
	ConsistencyModerate ConsistencyRating = "moderate"
	ConsistencyLow      ConsistencyRating = "low"
	ConsistencyPoor     ConsistencyRating = "poor"
)

// ConfidenceComparison aggregates confidence across multiple analyses
type ConfidenceComparison struct {
	Mean        float64           `json:"mean"`
	Variance    float64           `json:"variance"`
	Consistency ConsistencyRating `json:"consistency"`
}
