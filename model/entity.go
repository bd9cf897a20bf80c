package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced entity does not exist
var ErrNotFound = errors.New("entity not found")

// Asset represents a tracked asset whose exposure to scenarios is analyzed
type Asset struct {
	ID          int64     `json:"id"`
	RID         uuid.UUID `json:"rid"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// Themes is populated by nested loads, not stored on the assets table
	Themes []*Theme `json:"themes,omitempty" db:"-"`
}

// Scenario represents a hypothetical future scenario
type Scenario struct {
	ID          int64     `json:"id"`
	RID         uuid.UUID `json:"rid"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Themes      []*Theme  `json:"themes,omitempty" db:"-"`
}

// OwnerType identifies whether a theme belongs to an asset or a scenario
type OwnerType string

const (
	OwnerTypeAsset    OwnerType = "asset"
	OwnerTypeScenario OwnerType = "scenario"
)

// Theme groups related evidence cards under an asset or scenario
type Theme struct {
	ID          int64     `json:"id"`
	RID         uuid.UUID `json:"rid"`
	OwnerRID    uuid.UUID `json:"owner_rid"`
	OwnerType   OwnerType `json:"owner_type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Cards       []*Card   `json:"cards,omitempty" db:"-"`
}

// Card is a curated piece of evidence content attached to a theme
type Card struct {
	ID         int64      `json:"id"`
	RID        uuid.UUID  `json:"rid"`
	ThemeRID   uuid.UUID  `json:"theme_rid"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	SourceType SourceType `json:"source_type"`
	CreatorRID uuid.UUID  `json:"creator_rid,omitempty"`
	Metadata   Metadata   `json:"metadata,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
