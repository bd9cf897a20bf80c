package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
	loadSql "github.com/scenlens/matrixer/sql"
)

// EntitiesDBHandlerFunctions defines the interface for entity database
// operations: assets, scenarios, themes and cards.
type EntitiesDBHandlerFunctions interface {
	InsertAsset(asset *model.Asset) error
	InsertScenario(scenario *model.Scenario) error
	InsertTheme(theme *model.Theme) error
	InsertCard(card *model.Card) error
	SelectAssetWithThemes(ctx context.Context, rid uuid.UUID) (*model.Asset, error)
	SelectScenarioWithThemes(ctx context.Context, rid uuid.UUID) (*model.Scenario, error)
	SelectThemesByOwner(ownerRID uuid.UUID) ([]*model.Theme, error)
	SelectCardsByTheme(themeRID uuid.UUID) ([]*model.Card, error)
	DeleteCard(rid uuid.UUID) error
}

// EntitiesDBHandler handles entity-related database operations
type EntitiesDBHandler struct {
	db *helper.Database
}

// NewEntitiesDBHandler creates a new entities database handler.
// It loads the entity-related SQL functions and creates the tables.
// If force is true, it reloads the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTables()
	if err != nil {
		return nil, helper.NewError("create tables", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTables creates the entity tables if they do not exist yet
func (h *EntitiesDBHandler) CreateTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities();`)
	if err != nil {
		return helper.NewError("initializing entity tables", err)
	}

	h.db.Logger.Info("Checked/created entity tables")

	return nil
}

// InsertAsset inserts a new asset
func (h *EntitiesDBHandler) InsertAsset(asset *model.Asset) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_asset($1, $2, $3)`,
		asset.Name,
		asset.Description,
		asset.Metadata,
	)

	err := row.Scan(
		&asset.ID,
		&asset.RID,
		&asset.Name,
		&asset.Description,
		&asset.Metadata,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertScenario inserts a new scenario
func (h *EntitiesDBHandler) InsertScenario(scenario *model.Scenario) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_scenario($1, $2, $3)`,
		scenario.Name,
		scenario.Description,
		scenario.Metadata,
	)

	err := row.Scan(
		&scenario.ID,
		&scenario.RID,
		&scenario.Name,
		&scenario.Description,
		&scenario.Metadata,
		&scenario.CreatedAt,
		&scenario.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertTheme inserts a new theme under an asset or scenario
func (h *EntitiesDBHandler) InsertTheme(theme *model.Theme) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_theme($1, $2, $3, $4)`,
		theme.OwnerRID,
		theme.OwnerType,
		theme.Name,
		theme.Description,
	)

	err := row.Scan(
		&theme.ID,
		&theme.RID,
		&theme.OwnerRID,
		&theme.OwnerType,
		&theme.Name,
		&theme.Description,
		&theme.CreatedAt,
		&theme.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertCard inserts a new card under a theme
func (h *EntitiesDBHandler) InsertCard(card *model.Card) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_card($1, $2, $3, $4, $5, $6)`,
		card.ThemeRID,
		card.Title,
		card.Content,
		card.SourceType,
		card.CreatorRID,
		card.Metadata,
	)

	err := row.Scan(
		&card.ID,
		&card.RID,
		&card.ThemeRID,
		&card.Title,
		&card.Content,
		&card.SourceType,
		&card.CreatorRID,
		&card.Metadata,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectAssetWithThemes retrieves an asset with its themes and cards.
// Returns an error wrapping model.ErrNotFound if the asset does not exist.
func (h *EntitiesDBHandler) SelectAssetWithThemes(ctx context.Context, rid uuid.UUID) (*model.Asset, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_asset($1)`,
		rid,
	)

	asset := &model.Asset{}
	err := row.Scan(
		&asset.ID,
		&asset.RID,
		&asset.Name,
		&asset.Description,
		&asset.Metadata,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("selecting asset", fmt.Errorf("asset %v: %w", rid, model.ErrNotFound))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	asset.Themes, err = h.selectThemesWithCards(rid)
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// SelectScenarioWithThemes retrieves a scenario with its themes and cards.
// Returns an error wrapping model.ErrNotFound if the scenario does not exist.
func (h *EntitiesDBHandler) SelectScenarioWithThemes(ctx context.Context, rid uuid.UUID) (*model.Scenario, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_scenario($1)`,
		rid,
	)

	scenario := &model.Scenario{}
	err := row.Scan(
		&scenario.ID,
		&scenario.RID,
		&scenario.Name,
		&scenario.Description,
		&scenario.Metadata,
		&scenario.CreatedAt,
		&scenario.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("selecting scenario", fmt.Errorf("scenario %v: %w", rid, model.ErrNotFound))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	scenario.Themes, err = h.selectThemesWithCards(rid)
	if err != nil {
		return nil, err
	}

	return scenario, nil
}

// selectThemesWithCards loads the owner's themes and nests each theme's cards
func (h *EntitiesDBHandler) selectThemesWithCards(ownerRID uuid.UUID) ([]*model.Theme, error) {
	themes, err := h.SelectThemesByOwner(ownerRID)
	if err != nil {
		return nil, err
	}

	for _, theme := range themes {
		theme.Cards, err = h.SelectCardsByTheme(theme.RID)
		if err != nil {
			return nil, err
		}
	}

	return themes, nil
}

// SelectThemesByOwner retrieves all themes of an asset or scenario
func (h *EntitiesDBHandler) SelectThemesByOwner(ownerRID uuid.UUID) ([]*model.Theme, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_themes_by_owner($1)`,
		ownerRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var themes []*model.Theme
	for rows.Next() {
		theme := &model.Theme{}
		err := rows.Scan(
			&theme.ID,
			&theme.RID,
			&theme.OwnerRID,
			&theme.OwnerType,
			&theme.Name,
			&theme.Description,
			&theme.CreatedAt,
			&theme.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		themes = append(themes, theme)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return themes, nil
}

// SelectCardsByTheme retrieves all cards of a theme
func (h *EntitiesDBHandler) SelectCardsByTheme(themeRID uuid.UUID) ([]*model.Card, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_cards_by_theme($1)`,
		themeRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card := &model.Card{}
		err := rows.Scan(
			&card.ID,
			&card.RID,
			&card.ThemeRID,
			&card.Title,
			&card.Content,
			&card.SourceType,
			&card.CreatorRID,
			&card.Metadata,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		cards = append(cards, card)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return cards, nil
}

// DeleteCard deletes a card and its chunks by RID
func (h *EntitiesDBHandler) DeleteCard(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_card($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
