package model

import "github.com/google/uuid"

// ContextSection is one ordered part of an assembled analysis context
type ContextSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AssembledContext is the bounded textual context handed to the impact
// calculator and confidence scorer
type AssembledContext struct {
	AssetRID     uuid.UUID        `json:"asset_rid"`
	ScenarioRID  uuid.UUID        `json:"scenario_rid"`
	AssetName    string           `json:"asset_name"`
	ScenarioName string           `json:"scenario_name"`
	Sections     []ContextSection `json:"sections"`
	Text        string           `json:"text"`
	CharCount   int              `json:"char_count"`
	TokenCount  int              `json:"token_count"`
	// CardRIDs lists the cards included, used for deduplication of
	// supplementary search content
	CardRIDs []uuid.UUID `json:"card_rids,omitempty"`
}
