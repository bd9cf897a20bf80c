package confidence

import (
	"math"
	"time"

	"github.com/scenlens/matrixer/model"
)

// Scorer derives a multi-dimensional confidence assessment from an
// assembled context, ranked evidence and a candidate impact calculation.
// Scoring is pure: identical inputs always yield identical outputs.
type Scorer struct {
	config model.ConfidenceConfig
}

// NewScorer creates a new confidence scorer
func NewScorer(config model.ConfidenceConfig) *Scorer {
	return &Scorer{config: config}
}

// Score computes the six confidence dimensions, the uncertainty model,
// the overall score with its interval and quality grade, and
// recommendations. Overall is clamped to [0.1, 1].
func (s *Scorer) Score(assembled *model.AssembledContext, evidence []*model.RankedEvidence, impact *model.ImpactCalculation) *model.ConfidenceScore {
	dimensions := s.dimensions(assembled, evidence, impact)
	uncertainty := s.uncertainty(evidence)

	weights := s.config.DimensionWeights
	overall := dimensions.DataQuality*weights.DataQuality +
		dimensions.EvidenceStrength*weights.EvidenceStrength +
		dimensions.AnalysisConsistency*weights.AnalysisConsistency +
		dimensions.TemporalReliability*weights.TemporalReliability +
		dimensions.SourceCredibility*weights.SourceCredibility +
		dimensions.Methodological*weights.Methodological
	overall -= s.config.UncertaintyPenalty * uncertainty.OverallUncertainty
	overall = clamp(overall, 0.1, 1)

	spread := s.config.IntervalSpread * uncertainty.OverallUncertainty
	interval := model.ConfidenceInterval{
		Lower: clamp01(overall - spread),
		Upper: clamp01(overall + spread),
	}
	interval.Width = interval.Upper - interval.Lower

	return &model.ConfidenceScore{
		Overall:         overall,
		Dimensions:      dimensions,
		Uncertainty:     uncertainty,
		Interval:        interval,
		QualityGrade:    QualityGrade(overall),
		Recommendations: s.recommendations(dimensions, uncertainty, len(evidence)),
	}
}

// dimensions computes the six scored dimensions
func (s *Scorer) dimensions(assembled *model.AssembledContext, evidence []*model.RankedEvidence, impact *model.ImpactCalculation) model.ConfidenceDimensions {
	if len(evidence) == 0 {
		// Degrade to conservative defaults instead of failing
		return model.ConfidenceDimensions{
			DataQuality:         0.3,
			EvidenceStrength:    0.1,
			AnalysisConsistency: 0.5,
			TemporalReliability: 0.5,
			SourceCredibility:   0.5,
			Methodological:      s.methodological(assembled, evidence),
		}
	}

	var quality, credibility, final float64
	for _, item := range evidence {
		quality += item.QualityScore
		credibility += item.CredibilityScore
		final += item.FinalScore
	}
	total := float64(len(evidence))
	quality /= total
	credibility /= total
	final /= total

	strength := clamp01(0.5*math.Min(1, total/10) + 0.5*final)

	return model.ConfidenceDimensions{
		DataQuality:         clamp01(quality),
		EvidenceStrength:    strength,
		AnalysisConsistency: s.analysisConsistency(evidence),
		TemporalReliability: s.temporalReliability(evidence),
		SourceCredibility:   clamp01(credibility),
		Methodological:      s.methodological(assembled, evidence),
	}
}

// analysisConsistency falls with the spread of the evidence final scores
func (s *Scorer) analysisConsistency(evidence []*model.RankedEvidence) float64 {
	if len(evidence) < 2 {
		return 0.5
	}

	mean := 0.0
	for _, item := range evidence {
		mean += item.FinalScore
	}
	mean /= float64(len(evidence))

	variance := 0.0
	for _, item := range evidence {
		delta := item.FinalScore - mean
		variance += delta * delta
	}
	variance /= float64(len(evidence))

	return clamp01(1 - 2*math.Sqrt(variance))
}

// temporalReliability is the mean recency of the evidence set, optionally
// replaced by a pluggable temporal relevance function
func (s *Scorer) temporalReliability(evidence []*model.RankedEvidence) float64 {
	if s.config.TemporalRelevance != nil {
		return clamp01(s.config.TemporalRelevance(evidence))
	}

	if len(evidence) == 0 {
		return 0.5
	}

	recency := 0.0
	for _, item := range evidence {
		recency += item.RecencyScore
	}
	return clamp01(recency / float64(len(evidence)))
}

// methodological reflects how much of the method's input budget was
// actually available
func (s *Scorer) methodological(assembled *model.AssembledContext, evidence []*model.RankedEvidence) float64 {
	score := 0.7
	if len(evidence) >= 5 {
		score += 0.1
	}
	if assembled != nil && assembled.TokenCount >= 500 {
		score += 0.1
	}
	return clamp01(score)
}

// uncertainty quantifies the main uncertainty sources; the model term is
// a configured constant
func (s *Scorer) uncertainty(evidence []*model.RankedEvidence) model.UncertaintyFactors {
	factors := model.UncertaintyFactors{
		ModelUncertainty: s.config.ModelUncertainty,
	}

	factors.DataSparsity = clamp01(1 - float64(len(evidence))/10)

	sourceTypes := make(map[model.SourceType]bool)
	recency := 0.0
	for _, item := range evidence {
		sourceTypes[item.SourceType] = true
		recency += item.RecencyScore
	}
	factors.SourceDiversity = clamp01(1 - float64(len(sourceTypes))/5)

	if len(evidence) > 0 {
		factors.TemporalUncertainty = clamp01(1 - recency/float64(len(evidence)))
	} else {
		factors.TemporalUncertainty = 0.5
	}

	factors.OverallUncertainty = clamp01((factors.DataSparsity +
		factors.SourceDiversity +
		factors.ModelUncertainty +
		factors.TemporalUncertainty) / 4)

	return factors
}

// recommendations lists the weakest aspects of the assessment
func (s *Scorer) recommendations(dimensions model.ConfidenceDimensions, uncertainty model.UncertaintyFactors, evidenceCount int) []string {
	var recommendations []string

	if evidenceCount < 5 {
		recommendations = append(recommendations,
			"evidence base is thin, add more cards or broaden retrieval")
	}
	if dimensions.DataQuality < 0.5 {
		recommendations = append(recommendations,
			"data quality is low, curate richer evidence content")
	}
	if dimensions.TemporalReliability < 0.4 {
		recommendations = append(recommendations,
			"evidence is aging, refresh sources with recent data")
	}
	if dimensions.SourceCredibility < 0.6 {
		recommendations = append(recommendations,
			"source credibility is weak, add market data or expert analysis")
	}
	if uncertainty.OverallUncertainty > 0.5 {
		recommendations = append(recommendations,
			"uncertainty is high, treat the impact estimate as indicative only")
	}

	return recommendations
}

// QualityGrade maps an overall confidence score onto a letter grade
func QualityGrade(overall float64) string {
	switch {
	case overall >= 0.9:
		return "A+"
	case overall >= 0.85:
		return "A"
	case overall >= 0.8:
		return "A-"
	case overall >= 0.75:
		return "B+"
	case overall >= 0.7:
		return "B"
	case overall >= 0.65:
		return "B-"
	case overall >= 0.6:
		return "C+"
	case overall >= 0.5:
		return "C"
	case overall >= 0.4:
		return "C-"
	case overall >= 0.3:
		return "D"
	default:
		return "F"
	}
}

// ImpactScoreBounds derives confidence bounds around a normalized impact
// score: margin = (1-overall)*0.3 + overallUncertainty*0.2
func (s *Scorer) ImpactScoreBounds(normalizedScore float64, score *model.ConfidenceScore) model.ImpactBounds {
	margin := (1-score.Overall)*0.3 + score.Uncertainty.OverallUncertainty*0.2
	return model.ImpactBounds{
		Lower:  clamp01(normalizedScore - margin),
		Upper:  clamp01(normalizedScore + margin),
		Margin: margin,
	}
}

// TemporalDegradation models how a stored confidence score decays with age
// and whether the analysis should be refreshed
func (s *Scorer) TemporalDegradation(score *model.ConfidenceScore, generatedAt time.Time, now time.Time) model.TemporalDegradation {
	ageDays := int(now.Sub(generatedAt).Hours() / 24)
	if ageDays < 0 {
		ageDays = 0
	}

	current := score.Overall * math.Max(0, 1-float64(ageDays)*0.01)
	degradation := 0.0
	if score.Overall > 0 {
		degradation = (score.Overall - current) / score.Overall
	}

	return model.TemporalDegradation{
		AgeDays:           ageDays,
		CurrentConfidence: current,
		Degradation:       degradation,
		NeedsRefresh:      degradation > 0.2 || ageDays > 30,
	}
}

// Compare aggregates overall confidence across multiple analyses and
// rates their consistency by variance
func (s *Scorer) Compare(scores []*model.ConfidenceScore) model.ConfidenceComparison {
	comparison := model.ConfidenceComparison{Consistency: model.ConsistencyPoor}
	if len(scores) == 0 {
		return comparison
	}

	for _, score := range scores {
		comparison.Mean += score.Overall
	}
	comparison.Mean /= float64(len(scores))

	for _, score := range scores {
		delta := score.Overall - comparison.Mean
		comparison.Variance += delta * delta
	}
	comparison.Variance /= float64(len(scores))

	switch {
	case comparison.Variance < 0.01:
		comparison.Consistency = model.ConsistencyHigh
	case comparison.Variance < 0.05:
		comparison.Consistency = model.ConsistencyModerate
	case comparison.Variance < 0.15:
		comparison.Consistency = model.ConsistencyLow
	}

	return comparison
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
