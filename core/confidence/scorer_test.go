package confidence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/model"
	"github.com/stretchr/testify/assert"
)

func evidenceItem(quality, credibility, final, recency float64, sourceType model.SourceType) *model.RankedEvidence {
	return &model.RankedEvidence{
		RID:              uuid.New(),
		QualityScore:     quality,
		CredibilityScore: credibility,
		FinalScore:       final,
		RecencyScore:     recency,
		SourceType:       sourceType,
	}
}

func strongEvidence(n int) []*model.RankedEvidence {
	sourceTypes := []model.SourceType{
		model.SourceTypeExpertAnalysis,
		model.SourceTypeMarketData,
		model.SourceTypeThemeAnalysis,
		model.SourceTypeUserGenerated,
	}
	evidence := make([]*model.RankedEvidence, 0, n)
	for i := 0; i < n; i++ {
		evidence = append(evidence, evidenceItem(0.85, 0.9, 0.8, 0.95, sourceTypes[i%len(sourceTypes)]))
	}
	return evidence
}

func TestScore(t *testing.T) {
	scorer := NewScorer(model.DefaultConfidenceConfig())
	assembled := &model.AssembledContext{TokenCount: 1200}

	t.Run("Strong evidence yields high overall confidence", func(t *testing.T) {
		score := scorer.Score(assembled, strongEvidence(10), nil)

		assert.Greater(t, score.Overall, 0.6)
		assert.LessOrEqual(t, score.Overall, 1.0)
		assert.NotEmpty(t, score.QualityGrade)
	})

	t.Run("Empty evidence degrades to conservative defaults", func(t *testing.T) {
		score := scorer.Score(assembled, nil, nil)

		assert.Equal(t, 0.3, score.Dimensions.DataQuality)
		assert.Equal(t, 0.1, score.Dimensions.EvidenceStrength)
		assert.GreaterOrEqual(t, score.Overall, 0.1)
		assert.Less(t, score.Overall, 0.6)
	})

	t.Run("Overall never falls below the floor", func(t *testing.T) {
		weak := []*model.RankedEvidence{evidenceItem(0.05, 0.05, 0.05, 0.1, model.SourceTypeAICategorized)}
		score := scorer.Score(nil, weak, nil)
		assert.GreaterOrEqual(t, score.Overall, 0.1)
	})

	t.Run("Interval spreads with uncertainty and is clamped", func(t *testing.T) {
		score := scorer.Score(assembled, strongEvidence(10), nil)

		assert.LessOrEqual(t, score.Interval.Lower, score.Overall)
		assert.GreaterOrEqual(t, score.Interval.Upper, score.Overall)
		assert.InDelta(t, score.Interval.Upper-score.Interval.Lower, score.Interval.Width, 1e-9)
	})

	t.Run("Stale evidence lowers temporal reliability", func(t *testing.T) {
		fresh := scorer.Score(assembled, strongEvidence(12), nil)

		stale := strongEvidence(12)
		for i := 0; i < 8; i++ {
			stale[i].RecencyScore = 0.2
		}
		degraded := scorer.Score(assembled, stale, nil)

		assert.Less(t, degraded.Dimensions.TemporalReliability, fresh.Dimensions.TemporalReliability)
		reduction := fresh.Dimensions.TemporalReliability - degraded.Dimensions.TemporalReliability
		assert.GreaterOrEqual(t, reduction, 0.24)
		assert.Less(t, degraded.Overall, fresh.Overall)
	})

	t.Run("Pluggable temporal relevance overrides the recency mean", func(t *testing.T) {
		config := model.DefaultConfidenceConfig()
		config.TemporalRelevance = func(evidence []*model.RankedEvidence) float64 { return 0.42 }
		custom := NewScorer(config)

		score := custom.Score(assembled, strongEvidence(5), nil)
		assert.InDelta(t, 0.42, score.Dimensions.TemporalReliability, 1e-9)
	})

	t.Run("Consistency falls with score spread", func(t *testing.T) {
		tight := scorer.Score(assembled, strongEvidence(6), nil)

		spread := strongEvidence(6)
		finals := []float64{0.1, 0.9, 0.2, 0.8, 0.3, 0.7}
		for i, item := range spread {
			item.FinalScore = finals[i]
		}
		loose := scorer.Score(assembled, spread, nil)

		assert.Greater(t, tight.Dimensions.AnalysisConsistency, loose.Dimensions.AnalysisConsistency)
	})

	t.Run("Few diverse sources raise uncertainty", func(t *testing.T) {
		diverse := scorer.Score(assembled, strongEvidence(10), nil)

		uniform := make([]*model.RankedEvidence, 0, 10)
		for i := 0; i < 10; i++ {
			uniform = append(uniform, evidenceItem(0.85, 0.9, 0.8, 0.95, model.SourceTypeUserGenerated))
		}
		narrow := scorer.Score(assembled, uniform, nil)

		assert.Greater(t, narrow.Uncertainty.SourceDiversity, diverse.Uncertainty.SourceDiversity)
	})

	t.Run("Thin evidence triggers recommendations", func(t *testing.T) {
		score := scorer.Score(assembled, strongEvidence(2), nil)
		assert.Contains(t, score.Recommendations, "evidence base is thin, add more cards or broaden retrieval")
	})
}

func TestQualityGrade(t *testing.T) {
	t.Run("Grade ladder", func(t *testing.T) {
		cases := []struct {
			overall float64
			grade   string
		}{
			{0.95, "A+"},
			{0.9, "A+"},
			{0.86, "A"},
			{0.8, "A-"},
			{0.79, "B+"},
			{0.72, "B"},
			{0.66, "B-"},
			{0.61, "C+"},
			{0.55, "C"},
			{0.45, "C-"},
			{0.35, "D"},
			{0.29, "F"},
		}
		for _, c := range cases {
			assert.Equal(t, c.grade, QualityGrade(c.overall), "overall %v", c.overall)
		}
	})
}

func TestImpactScoreBounds(t *testing.T) {
	scorer := NewScorer(model.DefaultConfidenceConfig())

	t.Run("Margin combines confidence gap and uncertainty", func(t *testing.T) {
		score := &model.ConfidenceScore{
			Overall:     0.8,
			Uncertainty: model.UncertaintyFactors{OverallUncertainty: 0.5},
		}

		bounds := scorer.ImpactScoreBounds(0.6, score)
		expectedMargin := (1-0.8)*0.3 + 0.5*0.2
		assert.InDelta(t, expectedMargin, bounds.Margin, 1e-9)
		assert.InDelta(t, 0.6-expectedMargin, bounds.Lower, 1e-9)
		assert.InDelta(t, 0.6+expectedMargin, bounds.Upper, 1e-9)
	})

	t.Run("Bounds are clamped to [0, 1]", func(t *testing.T) {
		score := &model.ConfidenceScore{
			Overall:     0.2,
			Uncertainty: model.UncertaintyFactors{OverallUncertainty: 0.9},
		}

		bounds := scorer.ImpactScoreBounds(0.05, score)
		assert.GreaterOrEqual(t, bounds.Lower, 0.0)
		assert.LessOrEqual(t, bounds.Upper, 1.0)
	})
}

func TestTemporalDegradation(t *testing.T) {
	scorer := NewScorer(model.DefaultConfidenceConfig())
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	score := &model.ConfidenceScore{Overall: 0.8}

	t.Run("Fresh analysis does not degrade", func(t *testing.T) {
		degradation := scorer.TemporalDegradation(score, now, now)
		assert.Zero(t, degradation.AgeDays)
		assert.Equal(t, 0.8, degradation.CurrentConfidence)
		assert.False(t, degradation.NeedsRefresh)
	})

	t.Run("Confidence decays one percent per day", func(t *testing.T) {
		degradation := scorer.TemporalDegradation(score, now.AddDate(0, 0, -10), now)
		assert.Equal(t, 10, degradation.AgeDays)
		assert.InDelta(t, 0.8*0.9, degradation.CurrentConfidence, 1e-9)
		assert.InDelta(t, 0.1, degradation.Degradation, 1e-9)
	})

	t.Run("Heavy degradation requires a refresh", func(t *testing.T) {
		degradation := scorer.TemporalDegradation(score, now.AddDate(0, 0, -25), now)
		assert.True(t, degradation.NeedsRefresh, "25 days means 25 percent degradation")
	})

	t.Run("Age past thirty days requires a refresh", func(t *testing.T) {
		degradation := scorer.TemporalDegradation(score, now.AddDate(0, 0, -40), now)
		assert.True(t, degradation.NeedsRefresh)
	})

	t.Run("Very old analyses floor at zero confidence", func(t *testing.T) {
		degradation := scorer.TemporalDegradation(score, now.AddDate(-1, 0, 0), now)
		assert.Equal(t, 0.0, degradation.CurrentConfidence)
	})
}

func TestCompare(t *testing.T) {
	scorer := NewScorer(model.DefaultConfidenceConfig())

	t.Run("Empty input is poor", func(t *testing.T) {
		comparison := scorer.Compare(nil)
		assert.Equal(t, model.ConsistencyPoor, comparison.Consistency)
	})

	t.Run("Identical scores are highly consistent", func(t *testing.T) {
		scores := []*model.ConfidenceScore{{Overall: 0.7}, {Overall: 0.7}, {Overall: 0.7}}
		comparison := scorer.Compare(scores)
		assert.InDelta(t, 0.7, comparison.Mean, 1e-9)
		assert.Zero(t, comparison.Variance)
		assert.Equal(t, model.ConsistencyHigh, comparison.Consistency)
	})

	t.Run("Moderate spread", func(t *testing.T) {
		scores := []*model.ConfidenceScore{{Overall: 0.5}, {Overall: 0.8}}
		comparison := scorer.Compare(scores)
		// variance 0.0225
		assert.Equal(t, model.ConsistencyModerate, comparison.Consistency)
	})

	t.Run("Wide spread", func(t *testing.T) {
		scores := []*model.ConfidenceScore{{Overall: 0.2}, {Overall: 0.8}}
		comparison := scorer.Compare(scores)
		// variance 0.09
		assert.Equal(t, model.ConsistencyLow, comparison.Consistency)
	})

	t.Run("Extreme spread is poor", func(t *testing.T) {
		scores := []*model.ConfidenceScore{{Overall: 0.1}, {Overall: 0.95}, {Overall: 0.1}, {Overall: 0.95}}
		comparison := scorer.Compare(scores)
		// variance about 0.18
		assert.Equal(t, model.ConsistencyPoor, comparison.Consistency)
	})
}
