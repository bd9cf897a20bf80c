package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
	"golang.org/x/sync/errgroup"
)

// KeywordSearcher returns candidate evidence chunks containing query words.
// Candidates are scored and ranked by the engine, not by the searcher.
type KeywordSearcher interface {
	SearchCandidates(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.EvidenceChunk, error)
}

// VectorSearcher returns candidate evidence chunks ranked by embedding
// similarity, with Similarity populated on each chunk.
type VectorSearcher interface {
	SearchSimilar(ctx context.Context, query string, filters *model.SearchFilters, limit int, threshold float64) ([]*model.EvidenceChunk, error)
}

// Engine provides hybrid keyword+vector retrieval with reciprocal rank fusion
type Engine struct {
	keyword KeywordSearcher
	vector  VectorSearcher
	config  model.SearchConfig
	// terms memoizes parsed query terms and their scalar weights per query text
	terms *helper.Cache[string, queryTerms]
	log   *slog.Logger
}

// NewEngine creates a new hybrid retrieval engine
func NewEngine(keyword KeywordSearcher, vector VectorSearcher, config model.SearchConfig, logger *slog.Logger) *Engine {
	return &Engine{
		keyword: keyword,
		vector:  vector,
		config:  config,
		terms:   helper.NewCache[string, queryTerms](config.WeightCacheSize, config.WeightCacheTTL),
		log:     logger,
	}
}

// candidateLimit bounds how many candidates each sub-search fetches
func (e *Engine) candidateLimit(limit int) int {
	candidates := 2 * limit
	if candidates > e.config.CandidateCap {
		candidates = e.config.CandidateCap
	}
	if candidates < 1 {
		candidates = 1
	}
	return candidates
}

// queryTermsFor returns the memoized parsed terms for a query text
func (e *Engine) queryTermsFor(query string) queryTerms {
	if cached, ok := e.terms.Get(query); ok {
		return cached
	}
	terms := parseQuery(query)
	e.terms.Set(query, terms)
	return terms
}

// Search performs hybrid retrieval for a single query. The keyword and
// vector sub-searches run concurrently; a failure in either fails the call.
func (e *Engine) Search(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.FusedResult, error) {
	if limit < 1 {
		limit = 1
	}
	candidates := e.candidateLimit(limit)
	terms := e.queryTermsFor(query)

	var keywordHits, vectorHits []*model.SearchHit

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hits, err := e.keywordSearch(groupCtx, query, terms, filters, candidates)
		if err != nil {
			return helper.NewError("keyword search", err)
		}
		keywordHits = hits
		return nil
	})
	group.Go(func() error {
		hits, err := e.vectorSearch(groupCtx, query, filters, candidates)
		if err != nil {
			return helper.NewError("vector search", err)
		}
		vectorHits = hits
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	fused := e.fuse(keywordHits, vectorHits)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	for _, result := range fused {
		result.Relevance = e.relevanceBucket(result)
		result.ContextWindow = contextWindow(result.Content, terms, e.config.ContextWindowTokens, e.config.ContextWindowMaxChars)
	}

	return fused, nil
}

// SearchMany performs hybrid retrieval for multiple sub-queries, swallowing
// per-query errors and deduplicating results by content. Used for batch
// recommendation retrieval where partial results are preferable to aborting.
func (e *Engine) SearchMany(ctx context.Context, queries []string, filters *model.SearchFilters, limitPerQuery int) ([]*model.FusedResult, error) {
	var combined []*model.FusedResult
	for _, query := range queries {
		results, err := e.Search(ctx, query, filters, limitPerQuery)
		if err != nil {
			if e.log != nil {
				e.log.Warn("sub-query search failed", slog.String("query", query), slog.String("error", err.Error()))
			}
			continue
		}
		combined = append(combined, results...)
	}

	combined = DeduplicateByContent(combined)

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].RRFScore > combined[j].RRFScore
	})

	return combined, nil
}

// keywordSearch fetches keyword candidates and scores them with the
// engine's keyword scoring formula, returning them ranked by score
func (e *Engine) keywordSearch(ctx context.Context, query string, terms queryTerms, filters *model.SearchFilters, limit int) ([]*model.SearchHit, error) {
	chunks, err := e.keyword.SearchCandidates(ctx, query, filters, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]*model.SearchHit, 0, len(chunks))
	for _, chunk := range chunks {
		score := keywordScore(chunk.Content, terms)
		if score <= 0 {
			continue
		}
		hits = append(hits, &model.SearchHit{
			RID:        chunk.RID,
			CardRID:    chunk.CardRID,
			Content:    chunk.Content,
			CardTitle:  chunk.CardTitle,
			SourceType: chunk.SourceType,
			UpdatedAt:  chunk.UpdatedAt,
			Score:      score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	for i, hit := range hits {
		hit.Rank = i
	}

	return hits, nil
}

// vectorSearch fetches similarity candidates above the configured threshold
func (e *Engine) vectorSearch(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.SearchHit, error) {
	chunks, err := e.vector.SearchSimilar(ctx, query, filters, limit, e.config.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	hits := make([]*model.SearchHit, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Similarity < e.config.SimilarityThreshold {
			continue
		}
		hits = append(hits, &model.SearchHit{
			RID:        chunk.RID,
			CardRID:    chunk.CardRID,
			Content:    chunk.Content,
			CardTitle:  chunk.CardTitle,
			SourceType: chunk.SourceType,
			UpdatedAt:  chunk.UpdatedAt,
			Score:      chunk.Similarity,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	for i, hit := range hits {
		hit.Rank = i
	}

	return hits, nil
}

// fuse combines the keyword and vector lists via reciprocal rank fusion.
// An item present in both lists accumulates both contributions:
// score = wk/(k+kwRank+1) + wv/(k+vecRank+1)
func (e *Engine) fuse(keywordHits, vectorHits []*model.SearchHit) []*model.FusedResult {
	resultMap := make(map[string]*model.FusedResult, len(keywordHits)+len(vectorHits))
	order := make([]string, 0, len(keywordHits)+len(vectorHits))

	for _, hit := range keywordHits {
		key := hit.RID.String()
		result := &model.FusedResult{
			RID:          hit.RID,
			CardRID:      hit.CardRID,
			Content:      hit.Content,
			CardTitle:    hit.CardTitle,
			SourceType:   hit.SourceType,
			UpdatedAt:    hit.UpdatedAt,
			KeywordScore: hit.Score,
			KeywordRank:  hit.Rank,
			VectorRank:   -1,
		}
		result.RRFScore = e.config.KeywordWeight / (e.config.RRFConstant + float64(hit.Rank) + 1)
		resultMap[key] = result
		order = append(order, key)
	}

	for _, hit := range vectorHits {
		key := hit.RID.String()
		if existing, ok := resultMap[key]; ok {
			existing.VectorScore = hit.Score
			existing.VectorRank = hit.Rank
			existing.RRFScore += e.config.VectorWeight / (e.config.RRFConstant + float64(hit.Rank) + 1)
			continue
		}
		result := &model.FusedResult{
			RID:         hit.RID,
			CardRID:     hit.CardRID,
			Content:     hit.Content,
			CardTitle:   hit.CardTitle,
			SourceType:  hit.SourceType,
			UpdatedAt:   hit.UpdatedAt,
			VectorScore: hit.Score,
			KeywordRank: -1,
			VectorRank:  hit.Rank,
		}
		result.RRFScore = e.config.VectorWeight / (e.config.RRFConstant + float64(hit.Rank) + 1)
		resultMap[key] = result
		order = append(order, key)
	}

	results := make([]*model.FusedResult, 0, len(resultMap))
	for _, key := range order {
		results = append(results, resultMap[key])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RRFScore > results[j].RRFScore
	})

	return results
}

// relevanceBucket classifies a fused result into a coarse relevance band
func (e *Engine) relevanceBucket(result *model.FusedResult) model.RelevanceBucket {
	switch {
	case result.RRFScore > 0.05 && (result.KeywordScore > 0.5 || result.VectorScore > 0.8):
		return model.RelevanceHigh
	case result.RRFScore > 0.02:
		return model.RelevanceMedium
	default:
		return model.RelevanceLow
	}
}
