package model

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRequest is the request shape accepted by the orchestrator
type AnalysisRequest struct {
	AssetRID            uuid.UUID `json:"asset_rid"`
	ScenarioRID         uuid.UUID `json:"scenario_rid"`
	FocusQuery          string    `json:"focus_query,omitempty"`
	ContextTokenLimit   int       `json:"context_token_limit,omitempty"`
	ConfidenceThreshold float64   `json:"confidence_threshold,omitempty"`
	PrioritizeRecency   bool      `json:"prioritize_recency,omitempty"`
	Model               string    `json:"model,omitempty"`
}

// MatrixAnalysisResult is the composite output of one analysis.
// Its identity key is (AssetRID, ScenarioRID).
type MatrixAnalysisResult struct {
	AssetRID       uuid.UUID         `json:"asset_rid"`
	ScenarioRID    uuid.UUID         `json:"scenario_rid"`
	Impact         *ImpactCalculation `json:"impact"`
	Confidence     *ConfidenceScore  `json:"confidence"`
	Evidence       []*RankedEvidence `json:"evidence"`
	Report         *QualityReport    `json:"report"`
	Insights       []string          `json:"insights"`
	ProcessingTime time.Duration     `json:"processing_time"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Provider       string            `json:"provider,omitempty"`
	Model          string            `json:"model,omitempty"`
}

// BatchPair identifies one (asset, scenario) pair in a batch request
type BatchPair struct {
	AssetRID    uuid.UUID `json:"asset_rid"`
	ScenarioRID uuid.UUID `json:"scenario_rid"`
}

// BatchError records a per-pair failure without aborting the batch
type BatchError struct {
	AssetRID    uuid.UUID `json:"asset_rid"`
	ScenarioRID uuid.UUID `json:"scenario_rid"`
	Message     string    `json:"message"`
}

// BatchSummary aggregates the successful analyses of a batch
type BatchSummary struct {
	MeanImpact        float64           `json:"mean_impact"`
	MeanConfidence    float64           `json:"mean_confidence"`
	Directions        map[Direction]int `json:"directions"`
	MinProcessingTime time.Duration     `json:"min_processing_time"`
	MaxProcessingTime time.Duration     `json:"max_processing_time"`
	AvgProcessingTime time.Duration     `json:"avg_processing_time"`
}

// BatchResult is the partial-success outcome of a batch analysis
type BatchResult struct {
	Results             []*MatrixAnalysisResult `json:"results"`
	Errors              []BatchError            `json:"errors"`
	SuccessfulAnalyses  int                     `json:"successful_analyses"`
	FailedAnalyses      int                     `json:"failed_analyses"`
	Summary             *BatchSummary           `json:"summary,omitempty"`
}
