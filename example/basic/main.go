package main

import (
	"context"
	"fmt"
	"log"

	"github.com/scenlens/matrixer"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
)

const assetDescription = `NVIDIA designs GPUs and AI accelerators used in data centers, gaming and automotive platforms.
Its data center segment has become the primary revenue driver on the back of AI training demand.`

const scenarioDescription = `Enterprise AI adoption accelerates over the next three years.
Compute demand for training and inference grows faster than supply, keeping accelerator pricing firm.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "matrixer",
		Username: "postgres",
		Password: "password",
		Schema:   "public",
	}

	m, err := matrixer.NewMatrixer(matrixer.DefaultConfig(dbConfig))
	if err != nil {
		log.Fatalf("Failed to create matrixer: %v", err)
	}
	defer m.Close()

	// Set up the default pipeline (sentence chunking + embeddings)
	if err := m.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Create an asset and a scenario with one theme and card each
	asset := &model.Asset{Name: "NVIDIA", Description: assetDescription}
	if err := m.Entities.InsertAsset(asset); err != nil {
		log.Fatalf("Failed to insert asset: %v", err)
	}

	scenario := &model.Scenario{Name: "AI compute demand surge", Description: scenarioDescription}
	if err := m.Entities.InsertScenario(scenario); err != nil {
		log.Fatalf("Failed to insert scenario: %v", err)
	}

	theme := &model.Theme{
		OwnerRID:  asset.RID,
		OwnerType: model.OwnerTypeAsset,
		Name:      "Data center growth",
	}
	if err := m.Entities.InsertTheme(theme); err != nil {
		log.Fatalf("Failed to insert theme: %v", err)
	}

	card := &model.Card{
		ThemeRID:   theme.RID,
		Title:      "Accelerator demand",
		Content:    "Hyperscalers continue to expand AI infrastructure. Analysts estimate sustained growth in accelerator orders through the decade. Supply remains the main constraint on revenue upside.",
		SourceType: model.SourceTypeMarketData,
	}
	numChunks, err := m.ProcessAndInsertCard(card, theme)
	if err != nil {
		log.Fatalf("Failed to process card: %v", err)
	}
	fmt.Printf("Inserted card as %d evidence chunks\n", numChunks)

	// Run a hybrid search over the evidence
	results, err := m.Search(context.Background(), "AI accelerator demand", &model.SearchFilters{AssetRID: &asset.RID}, 5)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	for _, result := range results {
		fmt.Printf("[%v] rrf=%.4f %v\n", result.Relevance, result.RRFScore, result.ContextWindow)
	}

	// Run the full impact analysis (uses the heuristic fallback when no
	// OPENAI_API_KEY is configured)
	analysis, err := m.Analyze(context.Background(), &model.AnalysisRequest{
		AssetRID:    asset.RID,
		ScenarioRID: scenario.RID,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Impact: %v (raw %.1f, normalized %.2f)\n", analysis.Impact.Direction, analysis.Impact.RawScore, analysis.Impact.NormalizedScore)
	fmt.Printf("Confidence: %.2f (%v)\n", analysis.Confidence.Overall, analysis.Confidence.QualityGrade)
	for _, insight := range analysis.Insights {
		fmt.Printf("- %v\n", insight)
	}
}
