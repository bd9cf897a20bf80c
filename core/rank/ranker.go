package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/scenlens/matrixer/model"
)

// Ranker scores, classifies and orders fused search hits as evidence.
// Ranking is a pure transform: identical inputs yield identical outputs.
type Ranker struct {
	config model.RankingConfig
	now    func() time.Time
}

// NewRanker creates a new evidence ranker
func NewRanker(config model.RankingConfig) *Ranker {
	return &Ranker{
		config: config,
		now:    time.Now,
	}
}

// Rank scores every fused hit, sorts by final score descending and assigns
// dense 1-based ranks
func (r *Ranker) Rank(results []*model.FusedResult, rankingCtx *model.RankingContext) []*model.RankedEvidence {
	if rankingCtx == nil {
		rankingCtx = &model.RankingContext{AnalysisType: model.AnalysisTypeMatrix}
	}

	weights, ok := r.config.WeightProfiles[rankingCtx.AnalysisType]
	if !ok {
		weights = r.config.WeightProfiles[model.AnalysisTypeMatrix]
	}

	evidence := make([]*model.RankedEvidence, 0, len(results))
	for _, result := range results {
		evidence = append(evidence, r.score(result, rankingCtx, weights))
	}

	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].FinalScore > evidence[j].FinalScore
	})
	for i, item := range evidence {
		item.Rank = i + 1
	}

	return evidence
}

// score derives all per-item scores for one fused hit
func (r *Ranker) score(result *model.FusedResult, rankingCtx *model.RankingContext, weights model.RankingWeights) *model.RankedEvidence {
	hybrid := hybridRelevance(result)

	contentQuality := r.contentQuality(result.Content, rankingCtx.AnalysisType)
	recency := r.recency(result.UpdatedAt)
	credibility := r.credibility(result, hybrid)
	contextRelevance := r.contextRelevance(result.Content, hybrid, rankingCtx)

	confidence := clamp01(weights.Credibility*credibility + weights.Recency*recency + weights.ContextRelevance*contextRelevance)
	quality := clamp01(contentQuality*0.6 + recency*0.4)
	final := clamp01(confidence*0.4 + quality*0.3 + contextRelevance*0.3)

	return &model.RankedEvidence{
		RID:              result.RID,
		Source:           result.CardTitle,
		Content:          result.Content,
		SourceType:       result.SourceType,
		UpdatedAt:        result.UpdatedAt,
		RelevanceScore:   contextRelevance,
		ConfidenceScore:  confidence,
		QualityScore:     quality,
		RecencyScore:     recency,
		CredibilityScore: credibility,
		FinalScore:       final,
		EvidenceType:     classifyEvidenceType(result.Content),
	}
}

// hybridRelevance maps a fused result onto a single [0,1] relevance signal.
// Raw RRF scores are magnitudes around 1/k and unusable as a relevance
// base, so the stronger per-source score is used instead.
func hybridRelevance(result *model.FusedResult) float64 {
	return clamp01(math.Max(result.KeywordScore, result.VectorScore))
}

// contentQuality scores the information content of the evidence text,
// clamped to [0.1, 1]
func (r *Ranker) contentQuality(content string, analysisType model.AnalysisType) float64 {
	quality := 0.5
	length := len(content)

	switch {
	case length > 1000:
		quality += 0.2
	case length > 500:
		quality += 0.15
	case length > 200:
		quality += 0.1
	}
	if length < 50 {
		quality -= 0.2
	}

	sentences := countSentences(content)
	if sentences >= 3 {
		quality += 0.1
	}
	if sentences >= 6 {
		quality += 0.1
	}

	lowered := strings.ToLower(content)

	keywordMatches := countMatches(lowered, analysisTypeKeywords[analysisType])
	quality += math.Min(0.2, 0.05*float64(keywordMatches))

	technicalMatches := countMatches(lowered, technicalTerms)
	quality += math.Min(0.15, 0.03*float64(technicalMatches))

	return clamp(quality, 0.1, 1)
}

// recency decays per month since the last update, with a floor of 0.1.
// Items without a timestamp get the configured default.
func (r *Ranker) recency(updatedAt time.Time) float64 {
	if updatedAt.IsZero() {
		return r.config.DefaultRecency
	}

	months := r.now().Sub(updatedAt).Hours() / 24 / 30
	if months < 0 {
		months = 0
	}

	recency := math.Pow(r.config.DecayFactor, months)
	if recency < 0.1 {
		recency = 0.1
	}
	return recency
}

// credibility combines the source-type base with authority phrasing and
// retrieval strength bonuses
func (r *Ranker) credibility(result *model.FusedResult, hybrid float64) float64 {
	credibility, ok := r.config.CredibilityBase[result.SourceType]
	if !ok {
		credibility = 0.6
	}

	if matchesAny(strings.ToLower(result.Content), authorityPhrases) {
		credibility += 0.1
	}
	if hybrid > 0.7 {
		credibility += 0.05
	}

	return clamp01(credibility)
}

// contextRelevance starts from the hybrid retrieval signal and boosts
// content matching the analysis type's keyword set or caller-supplied
// priority factors
func (r *Ranker) contextRelevance(content string, hybrid float64, rankingCtx *model.RankingContext) float64 {
	relevance := hybrid
	lowered := strings.ToLower(content)

	if matchesAny(lowered, analysisTypeKeywords[rankingCtx.AnalysisType]) {
		relevance += 0.1
	}
	if len(rankingCtx.PriorityFactors) > 0 && matchesAny(lowered, rankingCtx.PriorityFactors) {
		relevance += 0.1
	}

	return clamp01(relevance)
}

// Group buckets ranked evidence by how load-bearing it is
func (r *Ranker) Group(evidence []*model.RankedEvidence) *model.PriorityGroups {
	groups := &model.PriorityGroups{}
	for _, item := range evidence {
		switch {
		case item.FinalScore >= 0.8 && item.Rank <= 3:
			groups.Critical = append(groups.Critical, item)
		case item.FinalScore >= 0.6 && item.Rank <= 8:
			groups.Important = append(groups.Important, item)
		case item.FinalScore >= 0.4:
			groups.Supporting = append(groups.Supporting, item)
		default:
			groups.Contextual = append(groups.Contextual, item)
		}
	}
	return groups
}

// Filter drops evidence below the quality floor and applies the optional
// count cap, preserving rank order
func (r *Ranker) Filter(evidence []*model.RankedEvidence) []*model.RankedEvidence {
	filtered := make([]*model.RankedEvidence, 0, len(evidence))
	for _, item := range evidence {
		if item.FinalScore < r.config.QualityFloor {
			continue
		}
		filtered = append(filtered, item)
		if r.config.MaxItems > 0 && len(filtered) >= r.config.MaxItems {
			break
		}
	}
	return filtered
}

// countSentences approximates the number of sentences in the content
func countSentences(content string) int {
	count := 0
	for _, r := range content {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}

func clamp01(value float64) float64 {
	return clamp(value, 0, 1)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
