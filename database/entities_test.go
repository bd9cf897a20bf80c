package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndSelectAsset(t *testing.T) {
	entities, _ := initTestHandlers(t)

	t.Run("Insert asset returns generated fields", func(t *testing.T) {
		asset := &model.Asset{
			Name:        "NVIDIA",
			Description: "GPU and AI accelerator designer",
			Metadata:    model.Metadata{"sector": "semiconductors"},
		}
		err := entities.InsertAsset(asset)
		require.NoError(t, err)

		assert.NotZero(t, asset.ID, "asset ID should be set")
		assert.NotEqual(t, uuid.Nil, asset.RID, "asset RID should be set")
		assert.False(t, asset.CreatedAt.IsZero(), "created at should be set")
	})

	t.Run("Select asset with nested themes and cards", func(t *testing.T) {
		asset := &model.Asset{Name: "Tesla", Description: "EV manufacturer"}
		require.NoError(t, entities.InsertAsset(asset))

		theme := &model.Theme{
			OwnerRID:  asset.RID,
			OwnerType: model.OwnerTypeAsset,
			Name:      "Autonomy",
		}
		require.NoError(t, entities.InsertTheme(theme))

		card := &model.Card{
			ThemeRID:   theme.RID,
			Title:      "FSD progress",
			Content:    "Full self driving mileage keeps growing quarter over quarter.",
			SourceType: model.SourceTypeUserGenerated,
		}
		require.NoError(t, entities.InsertCard(card))

		loaded, err := entities.SelectAssetWithThemes(context.Background(), asset.RID)
		require.NoError(t, err)

		assert.Equal(t, asset.RID, loaded.RID)
		require.Len(t, loaded.Themes, 1, "asset should have one theme")
		assert.Equal(t, "Autonomy", loaded.Themes[0].Name)
		require.Len(t, loaded.Themes[0].Cards, 1, "theme should have one card")
		assert.Equal(t, "FSD progress", loaded.Themes[0].Cards[0].Title)
	})

	t.Run("Select missing asset returns not found", func(t *testing.T) {
		_, err := entities.SelectAssetWithThemes(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound), "error should wrap ErrNotFound")
	})
}

func TestInsertAndSelectScenario(t *testing.T) {
	entities, _ := initTestHandlers(t)

	t.Run("Insert and select scenario with themes", func(t *testing.T) {
		scenario := &model.Scenario{Name: "Rate hike cycle", Description: "Central banks tighten policy"}
		require.NoError(t, entities.InsertScenario(scenario))

		theme := &model.Theme{
			OwnerRID:  scenario.RID,
			OwnerType: model.OwnerTypeScenario,
			Name:      "Funding costs",
		}
		require.NoError(t, entities.InsertTheme(theme))

		loaded, err := entities.SelectScenarioWithThemes(context.Background(), scenario.RID)
		require.NoError(t, err)

		assert.Equal(t, scenario.RID, loaded.RID)
		require.Len(t, loaded.Themes, 1)
		assert.Equal(t, model.OwnerTypeScenario, loaded.Themes[0].OwnerType)
	})

	t.Run("Select missing scenario returns not found", func(t *testing.T) {
		_, err := entities.SelectScenarioWithThemes(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound), "error should wrap ErrNotFound")
	})
}

func TestDeleteCard(t *testing.T) {
	entities, chunks := initTestHandlers(t)

	asset := &model.Asset{Name: "Delete target"}
	require.NoError(t, entities.InsertAsset(asset))

	theme := &model.Theme{OwnerRID: asset.RID, OwnerType: model.OwnerTypeAsset, Name: "Theme"}
	require.NoError(t, entities.InsertTheme(theme))

	card := &model.Card{ThemeRID: theme.RID, Title: "Card", Content: "Some content"}
	require.NoError(t, entities.InsertCard(card))

	chunk := &model.EvidenceChunk{
		CardRID:   card.RID,
		Content:   "Some content",
		Embedding: []float32{0.1, 0.2, 0.3},
	}
	require.NoError(t, chunks.InsertChunk(chunk))

	t.Run("Delete card removes card and chunks", func(t *testing.T) {
		err := entities.DeleteCard(card.RID)
		require.NoError(t, err)

		cards, err := entities.SelectCardsByTheme(theme.RID)
		require.NoError(t, err)
		assert.Empty(t, cards, "card should be deleted")

		remaining, err := chunks.SelectChunksByCard(card.RID)
		require.NoError(t, err)
		assert.Empty(t, remaining, "card chunks should be deleted")
	})
}
