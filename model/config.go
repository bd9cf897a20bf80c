package model

import "time"

// SearchConfig represents configuration for hybrid search and rank fusion
type SearchConfig struct {
	// Reciprocal rank fusion parameters
	RRFConstant   float64 `json:"rrf_constant"`
	KeywordWeight float64 `json:"keyword_weight"`
	VectorWeight  float64 `json:"vector_weight"`

	// Candidate retrieval parameters
	SimilarityThreshold float64 `json:"similarity_threshold"`
	CandidateCap        int     `json:"candidate_cap"`

	// Result enrichment parameters
	ContextWindowTokens   int `json:"context_window_tokens"`
	ContextWindowMaxChars int `json:"context_window_max_chars"`

	// Memoization of per-query weighting parameters
	WeightCacheSize int           `json:"weight_cache_size"`
	WeightCacheTTL  time.Duration `json:"weight_cache_ttl"`
}

// DefaultSearchConfig returns a sensible default configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		RRFConstant:           60,
		KeywordWeight:         0.4,
		VectorWeight:          0.6,
		SimilarityThreshold:   0.5,
		CandidateCap:          100,
		ContextWindowTokens:   40,
		ContextWindowMaxChars: 200,
		WeightCacheSize:       256,
		WeightCacheTTL:        5 * time.Minute,
	}
}

// RankingWeights is the weight profile applied to the credibility, recency
// and context relevance components of the evidence confidence score
type RankingWeights struct {
	Credibility      float64 `json:"credibility"`
	Recency          float64 `json:"recency"`
	ContextRelevance float64 `json:"context_relevance"`
}

// RankingConfig represents configuration for the evidence ranker
type RankingConfig struct {
	// DecayFactor is the per-month recency decay
	DecayFactor    float64 `json:"decay_factor"`
	DefaultRecency float64 `json:"default_recency"`

	// Quality filter
	QualityFloor float64 `json:"quality_floor"`
	MaxItems     int     `json:"max_items,omitempty"` // 0 = no cap

	CredibilityBase map[SourceType]float64         `json:"credibility_base"`
	WeightProfiles  map[AnalysisType]RankingWeights `json:"weight_profiles"`
}

// DefaultRankingConfig returns a sensible default configuration
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		DecayFactor:    0.95,
		DefaultRecency: 0.5,
		QualityFloor:   0.3,
		MaxItems:       0,
		CredibilityBase: map[SourceType]float64{
			SourceTypeUserGenerated:  0.7,
			SourceTypeAICategorized:  0.6,
			SourceTypeThemeAnalysis:  0.8,
			SourceTypeMarketData:     0.9,
			SourceTypeExpertAnalysis: 0.95,
		},
		WeightProfiles: map[AnalysisType]RankingWeights{
			AnalysisTypeMatrix:      {Credibility: 0.3, Recency: 0.3, ContextRelevance: 0.4},
			AnalysisTypeRisk:        {Credibility: 0.4, Recency: 0.4, ContextRelevance: 0.2},
			AnalysisTypeOpportunity: {Credibility: 0.2, Recency: 0.2, ContextRelevance: 0.6},
			AnalysisTypeMarket:      {Credibility: 0.4, Recency: 0.5, ContextRelevance: 0.1},
		},
	}
}

// ConfidenceConfig represents configuration for the confidence scorer
type ConfidenceConfig struct {
	// DimensionWeights holds the weight of each confidence dimension in the
	// overall score
	DimensionWeights ConfidenceDimensions `json:"dimension_weights"`

	ModelUncertainty   float64 `json:"model_uncertainty"`
	UncertaintyPenalty float64 `json:"uncertainty_penalty"`
	IntervalSpread     float64 `json:"interval_spread"`

	// TemporalRelevance derives a temporal relevance signal from the evidence
	// set. The default returns a constant; content-derived implementations can
	// be plugged in.
	TemporalRelevance func(evidence []*RankedEvidence) float64 `json:"-"`
}

// DefaultConfidenceConfig returns a sensible default configuration
func DefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		DimensionWeights: ConfidenceDimensions{
			DataQuality:         0.25,
			EvidenceStrength:    0.25,
			AnalysisConsistency: 0.2,
			TemporalReliability: 0.1,
			SourceCredibility:   0.1,
			Methodological:      0.1,
		},
		ModelUncertainty:   0.2,
		UncertaintyPenalty: 0.1,
		IntervalSpread:     0.3,
		TemporalRelevance:  nil, // scorer falls back to a constant
	}
}

// CalibrationFunc is a monotonic correction applied to a raw impact score
// before it is used
type CalibrationFunc func(raw float64) float64

// IdentityCalibration performs no correction
func IdentityCalibration(raw float64) float64 { return raw }

// ImpactConfig represents configuration for the impact calculator
type ImpactConfig struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`

	// Retry parameters for the LLM path
	MaxAttempts uint64        `json:"max_attempts"`
	BackoffBase time.Duration `json:"backoff_base"`

	// Evidence budget for prompt construction
	MaxEvidence      int `json:"max_evidence"`
	MaxEvidenceChars int `json:"max_evidence_chars"`

	// Term lists for the heuristic fallback
	PositiveTerms []string `json:"positive_terms"`
	NegativeTerms []string `json:"negative_terms"`

	// Composite confidence exponents
	LLMConfidenceWeight float64 `json:"llm_confidence_weight"`
	VarianceWeight      float64 `json:"variance_weight"`
	RankWeight          float64 `json:"rank_weight"`

	Calibration CalibrationFunc `json:"-"`
}

// DefaultImpactConfig returns a sensible default configuration
func DefaultImpactConfig() ImpactConfig {
	return ImpactConfig{
		Model:               "gpt-4o-mini",
		Temperature:         0.2,
		MaxTokens:           1024,
		Timeout:             30 * time.Second,
		MaxAttempts:         3,
		BackoffBase:         2 * time.Second,
		MaxEvidence:         10,
		MaxEvidenceChars:    500,
		PositiveTerms:       []string{"opportunity", "growth", "innovation"},
		NegativeTerms:       []string{"threat", "risk", "disruption"},
		LLMConfidenceWeight: 0.4,
		VarianceWeight:      0.3,
		RankWeight:          0.3,
		Calibration:         IdentityCalibration,
	}
}

// AssemblerConfig represents configuration for the context assembler
type AssemblerConfig struct {
	// CharBudget bounds the total assembled context size
	CharBudget int `json:"char_budget"`
	// StructuredShare is the fraction of the budget reserved for structured
	// sections before search filler is appended
	StructuredShare float64 `json:"structured_share"`
}

// DefaultAssemblerConfig returns a sensible default configuration
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		CharBudget:      8000,
		StructuredShare: 0.9,
	}
}

// BatchConfig represents configuration for batch analysis
type BatchConfig struct {
	// Concurrency bounds the number of analyses running in parallel
	Concurrency int64 `json:"concurrency"`
}

// DefaultBatchConfig returns a sensible default configuration
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Concurrency: 3,
	}
}
