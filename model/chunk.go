package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceType classifies where an evidence chunk originates from.
// The ranker derives a base credibility from it.
type SourceType string

const (
	SourceTypeUserGenerated  SourceType = "user_generated"
	SourceTypeAICategorized  SourceType = "ai_categorized"
	SourceTypeThemeAnalysis  SourceType = "theme_analysis"
	SourceTypeMarketData     SourceType = "market_data"
	SourceTypeExpertAnalysis SourceType = "expert_analysis"
)

// EvidenceChunk is a retrievable unit of evidence content derived from a card
type EvidenceChunk struct {
	ID          int64      `json:"id"`
	RID         uuid.UUID  `json:"rid"`
	CardRID     uuid.UUID  `json:"card_rid"`
	CardTitle   string     `json:"card_title,omitempty"`
	Content     string     `json:"content"`
	Embedding   []float32  `json:"embedding,omitempty"`
	SourceType  SourceType `json:"source_type"`
	AssetRID    *uuid.UUID `json:"asset_rid,omitempty"`
	ScenarioRID *uuid.UUID `json:"scenario_rid,omitempty"`
	ThemeRID    *uuid.UUID `json:"theme_rid,omitempty"`
	CreatorRID  uuid.UUID  `json:"creator_rid,omitempty"`
	Metadata    Metadata   `json:"metadata,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
}
