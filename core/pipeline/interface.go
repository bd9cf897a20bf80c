package pipeline

import (
	"github.com/scenlens/matrixer/model"
)

// ChunkFunc splits card content into evidence chunk texts
type ChunkFunc func(text string) ([]string, error)

// EmbedFunc generates an embedding for a text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines chunking and embedding for evidence ingestion
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// ProcessCard splits a card's content into evidence chunks with embeddings.
// Provenance is inherited from the owning theme so retrieval can filter on
// asset, scenario and theme later.
func (p *Pipeline) ProcessCard(card *model.Card, theme *model.Theme) ([]*model.EvidenceChunk, error) {
	texts, err := p.Chunker(card.Content)
	if err != nil {
		return nil, err
	}

	chunks := make([]*model.EvidenceChunk, 0, len(texts))
	for _, text := range texts {
		embedding, err := p.Embedder(text)
		if err != nil {
			return nil, err
		}

		chunk := &model.EvidenceChunk{
			CardRID:    card.RID,
			CardTitle:  card.Title,
			Content:    text,
			Embedding:  embedding,
			SourceType: card.SourceType,
			CreatorRID: card.CreatorRID,
			UpdatedAt:  card.UpdatedAt,
		}
		if theme != nil {
			themeRID := theme.RID
			ownerRID := theme.OwnerRID
			chunk.ThemeRID = &themeRID
			switch theme.OwnerType {
			case model.OwnerTypeAsset:
				chunk.AssetRID = &ownerRID
			case model.OwnerTypeScenario:
				chunk.ScenarioRID = &ownerRID
			}
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
