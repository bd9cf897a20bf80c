package database

import (
	"context"

	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
)

// EmbedFunc converts text into an embedding vector
type EmbedFunc func(text string) ([]float32, error)

// VectorSearch adapts the chunks handler and an embedding function to the
// retrieval engine's vector side: it embeds the query text and runs a
// pgvector similarity search over the stored chunk embeddings.
type VectorSearch struct {
	Embed  EmbedFunc
	Chunks *ChunksDBHandler
}

// NewVectorSearch creates a new vector search adapter
func NewVectorSearch(embed EmbedFunc, chunks *ChunksDBHandler) *VectorSearch {
	return &VectorSearch{
		Embed:  embed,
		Chunks: chunks,
	}
}

// SearchSimilar embeds the query and returns chunks above the similarity
// threshold, with Similarity populated
func (v *VectorSearch) SearchSimilar(ctx context.Context, query string, filters *model.SearchFilters, limit int, threshold float64) ([]*model.EvidenceChunk, error) {
	embedding, err := v.Embed(query)
	if err != nil {
		return nil, helper.NewError("embedding query", err)
	}

	return v.Chunks.SelectChunksBySimilarity(ctx, embedding, filters, limit, threshold)
}
