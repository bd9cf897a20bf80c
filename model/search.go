package model

import (
	"time"

	"github.com/google/uuid"
)

// RelevanceBucket is a coarse classification of a fused search result
type RelevanceBucket string

const (
	RelevanceHigh   RelevanceBucket = "high"
	RelevanceMedium RelevanceBucket = "medium"
	RelevanceLow    RelevanceBucket = "low"
)

// SearchHit is a candidate returned by a single retrieval source,
// carrying that source's score and 0-based rank within its list
type SearchHit struct {
	RID        uuid.UUID  `json:"rid"`
	CardRID    uuid.UUID  `json:"card_rid,omitempty"`
	Content    string     `json:"content"`
	CardTitle  string     `json:"card_title,omitempty"`
	SourceType SourceType `json:"source_type,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Score      float64    `json:"score"`
	Rank       int        `json:"rank"`
}

// FusedResult is a search hit after reciprocal rank fusion of the keyword
// and vector candidate lists. A rank of -1 means the item was absent from
// that source's list.
type FusedResult struct {
	RID           uuid.UUID       `json:"rid"`
	CardRID       uuid.UUID       `json:"card_rid,omitempty"`
	Content       string          `json:"content"`
	CardTitle     string          `json:"card_title,omitempty"`
	SourceType    SourceType      `json:"source_type,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
	KeywordScore  float64         `json:"keyword_score"`
	VectorScore   float64         `json:"vector_score"`
	KeywordRank   int             `json:"keyword_rank"`
	VectorRank    int             `json:"vector_rank"`
	RRFScore      float64         `json:"rrf_score"`
	Relevance     RelevanceBucket `json:"relevance,omitempty"`
	ContextWindow string          `json:"context_window,omitempty"`
}

// SearchFilters restricts the candidate set of a hybrid search
type SearchFilters struct {
	AssetRID           *uuid.UUID  `json:"asset_rid,omitempty"`
	ScenarioRID        *uuid.UUID  `json:"scenario_rid,omitempty"`
	ThemeRID           *uuid.UUID  `json:"theme_rid,omitempty"`
	CardRIDs           []uuid.UUID `json:"card_rids,omitempty"`
	ExcludedCreatorRID *uuid.UUID  `json:"excluded_creator_rid,omitempty"`
}
