package model

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceType classifies the dominant analytical angle of an evidence item
type EvidenceType string

const (
	EvidenceTypeFinancialImpact   EvidenceType = "financial_impact"
	EvidenceTypeMarketAnalysis    EvidenceType = "market_analysis"
	EvidenceTypeTechnicalAnalysis EvidenceType = "technical_analysis"
	EvidenceTypeRiskAssessment    EvidenceType = "risk_assessment"
	EvidenceTypeStrategicInsight  EvidenceType = "strategic_insight"
	EvidenceTypeGeneralAnalysis   EvidenceType = "general_analysis"
)

// AnalysisType selects the ranking weight profile and relevance keyword set
type AnalysisType string

const (
	AnalysisTypeMatrix      AnalysisType = "matrix_analysis"
	AnalysisTypeRisk        AnalysisType = "risk_assessment"
	AnalysisTypeOpportunity AnalysisType = "opportunity_analysis"
	AnalysisTypeMarket      AnalysisType = "market_analysis"
)

// RankingContext carries the per-request inputs of the evidence ranker
type RankingContext struct {
	AnalysisType AnalysisType `json:"analysis_type"`
	// PriorityFactors are optional caller-supplied terms that boost context
	// relevance when matched in the evidence content
	PriorityFactors []string `json:"priority_factors,omitempty"`
}

// RankedEvidence is a fused search hit annotated with derived quality,
// recency, credibility and relevance scores. Rank is 1-based and dense
// after sorting by FinalScore descending.
type RankedEvidence struct {
	RID              uuid.UUID    `json:"rid"`
	Source           string       `json:"source,omitempty"`
	Content          string       `json:"content"`
	SourceType       SourceType   `json:"source_type,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
	RelevanceScore   float64      `json:"relevance_score"`
	ConfidenceScore  float64      `json:"confidence_score"`
	QualityScore     float64      `json:"quality_score"`
	RecencyScore     float64      `json:"recency_score"`
	CredibilityScore float64      `json:"credibility_score"`
	FinalScore       float64      `json:"final_score"`
	EvidenceType     EvidenceType `json:"evidence_type"`
	Rank             int          `json:"rank"`
}

// PriorityGroups buckets ranked evidence by how load-bearing it is for
// the final analysis
type PriorityGroups struct {
	Critical   []*RankedEvidence `json:"critical"`
	Important  []*RankedEvidence `json:"important"`
	Supporting []*RankedEvidence `json:"supporting"`
	Contextual []*RankedEvidence `json:"contextual"`
}

// ScoreDistribution counts evidence items per score band
type ScoreDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// QualityReport summarizes the aggregate quality of a ranked evidence set
type QualityReport struct {
	TotalItems      int               `json:"total_items"`
	MeanConfidence  float64           `json:"mean_confidence"`
	MeanRecency     float64           `json:"mean_recency"`
	MeanCredibility float64           `json:"mean_credibility"`
	MeanQuality     float64           `json:"mean_quality"`
	Distribution    ScoreDistribution `json:"distribution"`
	Recommendations []string          `json:"recommendations"`
}
