package matrixer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/scenlens/matrixer/core/assemble"
	"github.com/scenlens/matrixer/core/confidence"
	"github.com/scenlens/matrixer/core/impact"
	"github.com/scenlens/matrixer/core/matrix"
	"github.com/scenlens/matrixer/core/pipeline"
	"github.com/scenlens/matrixer/core/rank"
	"github.com/scenlens/matrixer/core/retrieval"
	"github.com/scenlens/matrixer/database"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/llm"
	"github.com/scenlens/matrixer/model"
	loadSql "github.com/scenlens/matrixer/sql"
)

// Config bundles all component configurations of a Matrixer
type Config struct {
	Database     *helper.DatabaseConfiguration
	EmbeddingDim int
	// OpenAIKey enables the LLM impact path; empty falls back to the
	// OPENAI_API_KEY environment variable
	OpenAIKey string

	Search     model.SearchConfig
	Ranking    model.RankingConfig
	Confidence model.ConfidenceConfig
	Impact     model.ImpactConfig
	Assembler  model.AssemblerConfig
	Batch      model.BatchConfig

	// Optional sinks for analysis results and job lifecycle events
	ResultSink matrix.ResultSink
	EventSink  matrix.EventSink
}

// DefaultConfig returns a configuration with all component defaults.
// The all-MiniLM-L6-v2 default embedder produces 384-dimensional vectors.
func DefaultConfig(dbConfig *helper.DatabaseConfiguration) *Config {
	return &Config{
		Database:     dbConfig,
		EmbeddingDim: 384,
		Search:       model.DefaultSearchConfig(),
		Ranking:      model.DefaultRankingConfig(),
		Confidence:   model.DefaultConfidenceConfig(),
		Impact:       model.DefaultImpactConfig(),
		Assembler:    model.DefaultAssemblerConfig(),
		Batch:        model.DefaultBatchConfig(),
	}
}

// Matrixer provides a unified interface to evidence ingestion, hybrid
// search and scenario impact analysis
type Matrixer struct {
	DB       *helper.Database
	Entities *database.EntitiesDBHandler
	Chunks   *database.ChunksDBHandler
	Pipeline *pipeline.Pipeline // Optional chunking pipeline

	Engine     *retrieval.Engine
	Assembler  *assemble.Assembler
	Ranker     *rank.Ranker
	Scorer     *confidence.Scorer
	Calculator *impact.Calculator
	Processor  *matrix.Processor
	// Logging
	log *slog.Logger
}

// NewMatrixer creates a new Matrixer instance with all handlers and
// pipeline components initialized
func NewMatrixer(config *Config) (*Matrixer, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("matrixer", config.Database, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create handlers in dependency order (entities first, then chunks)
	// force=false to not reload if functions already exist
	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, config.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	m := &Matrixer{
		DB:       db,
		Entities: entities,
		Chunks:   chunks,
		log:      logger,
	}

	// The vector side embeds queries through the pipeline, which may be
	// set after construction
	vector := database.NewVectorSearch(func(text string) ([]float32, error) {
		if m.Pipeline == nil || m.Pipeline.Embedder == nil {
			return nil, fmt.Errorf("pipeline with embedder not set, use SetPipeline() first")
		}
		return m.Pipeline.Embedder(text)
	}, chunks)

	m.Engine = retrieval.NewEngine(chunks, vector, config.Search, logger)
	m.Assembler = assemble.NewAssembler(entities, m.Engine, config.Assembler)
	m.Ranker = rank.NewRanker(config.Ranking)
	m.Scorer = confidence.NewScorer(config.Confidence)

	var completer llm.Completer
	if config.OpenAIKey != "" || os.Getenv("OPENAI_API_KEY") != "" {
		completer = llm.NewOpenAIClient(config.OpenAIKey)
	}
	m.Calculator = impact.NewCalculator(completer, config.Impact, logger)

	m.Processor = matrix.NewProcessor(
		m.Assembler,
		m.Engine,
		m.Ranker,
		m.Scorer,
		m.Calculator,
		config.Batch,
		config.ResultSink,
		config.EventSink,
		logger,
	)

	return m, nil
}

// Close closes the database connection
func (m *Matrixer) Close() error {
	if m.DB != nil && m.DB.Instance != nil {
		return m.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the chunking pipeline for card processing
func (m *Matrixer) SetPipeline(pipeline *pipeline.Pipeline) {
	m.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default sentence chunking and embedding
// pipeline. This uses SentenceChunker with 500 char max chunks and
// DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions).
func (m *Matrixer) UseDefaultPipeline() error {
	chunker := pipeline.SentenceChunker(500)
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	m.Pipeline = pipeline.NewPipeline(chunker, embedder)
	return nil
}

// ProcessAndInsertCard processes a card by:
// 1. Inserting the card under its theme
// 2. Processing the content into evidence chunks using the pipeline
// 3. Inserting all chunks with provenance inherited from the theme
// Returns the number of chunks inserted and any error encountered.
func (m *Matrixer) ProcessAndInsertCard(card *model.Card, theme *model.Theme) (int, error) {
	if m.Pipeline == nil {
		return 0, helper.NewError("process card", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if card.Content == "" {
		return 0, helper.NewError("process card", fmt.Errorf("card content is empty"))
	}

	if err := m.Entities.InsertCard(card); err != nil {
		return 0, helper.NewError("insert card", err)
	}

	m.log.Info("Inserted card", slog.String("card_id", card.RID.String()), slog.String("title", card.Title))

	chunks, err := m.Pipeline.ProcessCard(card, theme)
	if err != nil {
		return 0, helper.NewError("process chunks", err)
	}

	m.log.Info("Processed card into chunks", slog.Int("num_chunks", len(chunks)), slog.String("card_id", card.RID.String()))

	for i, chunk := range chunks {
		if err := m.Chunks.InsertChunk(chunk); err != nil {
			return i, helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	return len(chunks), nil
}

// Search performs hybrid keyword+vector retrieval with rank fusion
func (m *Matrixer) Search(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.FusedResult, error) {
	if m.Pipeline == nil || m.Pipeline.Embedder == nil {
		return nil, helper.NewError("hybrid search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	return m.Engine.Search(ctx, query, filters, limit)
}

// SearchMany performs hybrid retrieval for multiple sub-queries with
// per-query error isolation and content deduplication
func (m *Matrixer) SearchMany(ctx context.Context, queries []string, filters *model.SearchFilters, limitPerQuery int) ([]*model.FusedResult, error) {
	if m.Pipeline == nil || m.Pipeline.Embedder == nil {
		return nil, helper.NewError("hybrid search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	return m.Engine.SearchMany(ctx, queries, filters, limitPerQuery)
}

// Analyze runs the full impact analysis pipeline for one (asset, scenario)
// pair
func (m *Matrixer) Analyze(ctx context.Context, request *model.AnalysisRequest) (*model.MatrixAnalysisResult, error) {
	return m.Processor.Analyze(ctx, request)
}

// AnalyzeBatch runs the pipeline for every pair with bounded parallelism.
// The optional template carries shared request parameters.
func (m *Matrixer) AnalyzeBatch(ctx context.Context, pairs []model.BatchPair, template *model.AnalysisRequest) (*model.BatchResult, error) {
	return m.Processor.AnalyzeBatch(ctx, pairs, template)
}
