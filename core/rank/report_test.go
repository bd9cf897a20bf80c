package rank

import (
	"testing"

	"github.com/scenlens/matrixer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	ranker := newTestRanker()

	t.Run("Empty evidence recommends broadening the search", func(t *testing.T) {
		report := ranker.Report(nil)
		assert.Zero(t, report.TotalItems)
		require.Len(t, report.Recommendations, 1)
		assert.Contains(t, report.Recommendations[0], "insufficient evidence")
	})

	t.Run("Means and distribution are aggregated", func(t *testing.T) {
		evidence := []*model.RankedEvidence{
			{FinalScore: 0.8, ConfidenceScore: 0.8, RecencyScore: 0.9, CredibilityScore: 0.9, QualityScore: 0.8},
			{FinalScore: 0.5, ConfidenceScore: 0.6, RecencyScore: 0.7, CredibilityScore: 0.7, QualityScore: 0.6},
			{FinalScore: 0.2, ConfidenceScore: 0.4, RecencyScore: 0.5, CredibilityScore: 0.5, QualityScore: 0.4},
		}

		report := ranker.Report(evidence)
		assert.Equal(t, 3, report.TotalItems)
		assert.InDelta(t, 0.6, report.MeanConfidence, 1e-9)
		assert.InDelta(t, 0.7, report.MeanRecency, 1e-9)
		assert.InDelta(t, 0.7, report.MeanCredibility, 1e-9)
		assert.InDelta(t, 0.6, report.MeanQuality, 1e-9)
		assert.Equal(t, 1, report.Distribution.High)
		assert.Equal(t, 1, report.Distribution.Medium)
		assert.Equal(t, 1, report.Distribution.Low)
	})

	t.Run("Healthy evidence base gets a positive recommendation", func(t *testing.T) {
		evidence := make([]*model.RankedEvidence, 0, 6)
		for i := 0; i < 6; i++ {
			evidence = append(evidence, &model.RankedEvidence{
				FinalScore: 0.8, ConfidenceScore: 0.8, RecencyScore: 0.9, CredibilityScore: 0.9, QualityScore: 0.8,
			})
		}

		report := ranker.Report(evidence)
		require.Len(t, report.Recommendations, 1)
		assert.Contains(t, report.Recommendations[0], "sufficient")
	})

	t.Run("Stale evidence triggers the freshness recommendation", func(t *testing.T) {
		evidence := make([]*model.RankedEvidence, 0, 6)
		for i := 0; i < 6; i++ {
			evidence = append(evidence, &model.RankedEvidence{
				FinalScore: 0.8, ConfidenceScore: 0.8, RecencyScore: 0.2, CredibilityScore: 0.9, QualityScore: 0.8,
			})
		}

		report := ranker.Report(evidence)
		assert.Contains(t, report.Recommendations, "evidence is stale, refresh cards with recent data")
	})

	t.Run("Small evidence sets are flagged as unstable", func(t *testing.T) {
		evidence := []*model.RankedEvidence{
			{FinalScore: 0.8, ConfidenceScore: 0.8, RecencyScore: 0.9, CredibilityScore: 0.9, QualityScore: 0.8},
		}

		report := ranker.Report(evidence)
		assert.Contains(t, report.Recommendations, "fewer than five evidence items found, results may be unstable")
	})

	t.Run("Recommendations are capped at four", func(t *testing.T) {
		evidence := []*model.RankedEvidence{
			{FinalScore: 0.1, ConfidenceScore: 0.1, RecencyScore: 0.1, CredibilityScore: 0.1, QualityScore: 0.1},
			{FinalScore: 0.1, ConfidenceScore: 0.1, RecencyScore: 0.1, CredibilityScore: 0.1, QualityScore: 0.1},
		}

		report := ranker.Report(evidence)
		assert.LessOrEqual(t, len(report.Recommendations), maxRecommendations)
		assert.Len(t, report.Recommendations, 4)
	})
}
