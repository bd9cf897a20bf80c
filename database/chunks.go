package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
	loadSql "github.com/scenlens/matrixer/sql"
)

// ChunksDBHandlerFunctions defines the interface for evidence chunk
// database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.EvidenceChunk) error
	UpdateChunkEmbedding(chunk *model.EvidenceChunk) error
	DeleteChunksByCard(cardRID uuid.UUID) error
	SelectChunk(rid uuid.UUID) (*model.EvidenceChunk, error)
	SelectChunksByCard(cardRID uuid.UUID) ([]*model.EvidenceChunk, error)
	SearchCandidates(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.EvidenceChunk, error)
	SelectChunksBySimilarity(ctx context.Context, embedding []float32, filters *model.SearchFilters, limit int, threshold float64) ([]*model.EvidenceChunk, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It loads the chunk-related SQL functions and creates the chunks table
// with the given embedding dimension.
// If force is true, it reloads the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates the full-text and vector indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initializing chunks table", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk inserts a new evidence chunk
func (h *ChunksDBHandler) InsertChunk(chunk *model.EvidenceChunk) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		chunk.CardRID,
		chunk.Content,
		pq.Array(chunk.Embedding),
		chunk.SourceType,
		chunk.AssetRID,
		chunk.ScenarioRID,
		chunk.ThemeRID,
		chunk.CreatorRID,
		chunk.Metadata,
	)

	err := h.scanChunk(row, chunk, false)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdateChunkEmbedding updates the embedding of a chunk
func (h *ChunksDBHandler) UpdateChunkEmbedding(chunk *model.EvidenceChunk) error {
	embeddingVector := pgvector.NewVector(chunk.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_chunk_embedding($1, $2)`,
		chunk.RID,
		embeddingVector,
	)

	err := h.scanChunk(row, chunk, false)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteChunksByCard deletes all chunks derived from a card
func (h *ChunksDBHandler) DeleteChunksByCard(cardRID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_chunks_by_card($1)`,
		cardRID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectChunk retrieves a chunk by RID
func (h *ChunksDBHandler) SelectChunk(rid uuid.UUID) (*model.EvidenceChunk, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chunk($1)`,
		rid,
	)

	chunk := &model.EvidenceChunk{}
	err := h.scanChunk(row, chunk, false)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return chunk, nil
}

// SelectChunksByCard retrieves all chunks derived from a card
func (h *ChunksDBHandler) SelectChunksByCard(cardRID uuid.UUID) ([]*model.EvidenceChunk, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_card($1)`,
		cardRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.EvidenceChunk
	for rows.Next() {
		chunk := &model.EvidenceChunk{}
		err := h.scanChunk(rows, chunk, false)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SearchCandidates retrieves keyword candidates via full-text search.
// The candidates are scored and ranked by the retrieval engine; the
// database only pre-filters on word containment and the given filters.
func (h *ChunksDBHandler) SearchCandidates(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.EvidenceChunk, error) {
	assetRID, scenarioRID, themeRID, cardRIDs, excludedCreator := filterParams(filters)

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_keywords($1, $2, $3, $4, $5, $6, $7)`,
		query,
		limit,
		assetRID,
		scenarioRID,
		themeRID,
		cardRIDs,
		excludedCreator,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.EvidenceChunk
	for rows.Next() {
		chunk := &model.EvidenceChunk{}
		err := h.scanChunk(rows, chunk, false)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity performs vector similarity search with the
// given filters, returning chunks with Similarity populated
func (h *ChunksDBHandler) SelectChunksBySimilarity(ctx context.Context, embedding []float32, filters *model.SearchFilters, limit int, threshold float64) ([]*model.EvidenceChunk, error) {
	embeddingVector := pgvector.NewVector(embedding)
	assetRID, scenarioRID, themeRID, cardRIDs, excludedCreator := filterParams(filters)

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3, $4, $5, $6, $7, $8)`,
		embeddingVector,
		limit,
		threshold,
		assetRID,
		scenarioRID,
		themeRID,
		cardRIDs,
		excludedCreator,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.EvidenceChunk
	for rows.Next() {
		chunk := &model.EvidenceChunk{}
		err := h.scanChunk(rows, chunk, true)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// scanner covers sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanChunk scans one chunk row in the fixed column order of the chunk
// SQL functions, optionally including the similarity column
func (h *ChunksDBHandler) scanChunk(row scanner, chunk *model.EvidenceChunk, withSimilarity bool) error {
	dest := []any{
		&chunk.ID,
		&chunk.RID,
		&chunk.CardRID,
		&chunk.CardTitle,
		&chunk.Content,
		pq.Array(&chunk.Embedding),
		&chunk.SourceType,
		&chunk.AssetRID,
		&chunk.ScenarioRID,
		&chunk.ThemeRID,
		&chunk.CreatorRID,
		&chunk.Metadata,
		&chunk.CreatedAt,
		&chunk.UpdatedAt,
	}
	if withSimilarity {
		dest = append(dest, &chunk.Similarity)
	}
	return row.Scan(dest...)
}

// filterParams converts search filters into SQL function parameters
func filterParams(filters *model.SearchFilters) (assetRID, scenarioRID, themeRID any, cardRIDs any, excludedCreator any) {
	if filters == nil {
		return nil, nil, nil, nil, nil
	}
	if filters.AssetRID != nil {
		assetRID = *filters.AssetRID
	}
	if filters.ScenarioRID != nil {
		scenarioRID = *filters.ScenarioRID
	}
	if filters.ThemeRID != nil {
		themeRID = *filters.ThemeRID
	}
	if len(filters.CardRIDs) > 0 {
		cardRIDs = pq.Array(filters.CardRIDs)
	}
	if filters.ExcludedCreatorRID != nil {
		excludedCreator = *filters.ExcludedCreatorRID
	}
	return assetRID, scenarioRID, themeRID, cardRIDs, excludedCreator
}
