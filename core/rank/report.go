package rank

import (
	"github.com/scenlens/matrixer/model"
)

// Report summarizes the aggregate quality of a ranked evidence set and
// derives up to four textual recommendations
func (r *Ranker) Report(evidence []*model.RankedEvidence) *model.QualityReport {
	report := &model.QualityReport{
		TotalItems: len(evidence),
	}

	if len(evidence) == 0 {
		report.Recommendations = []string{
			"insufficient evidence available, broaden the search or add more cards",
		}
		return report
	}

	for _, item := range evidence {
		report.MeanConfidence += item.ConfidenceScore
		report.MeanRecency += item.RecencyScore
		report.MeanCredibility += item.CredibilityScore
		report.MeanQuality += item.QualityScore

		switch {
		case item.FinalScore >= 0.7:
			report.Distribution.High++
		case item.FinalScore >= 0.4:
			report.Distribution.Medium++
		default:
			report.Distribution.Low++
		}
	}

	total := float64(len(evidence))
	report.MeanConfidence /= total
	report.MeanRecency /= total
	report.MeanCredibility /= total
	report.MeanQuality /= total

	report.Recommendations = r.recommendations(report)
	return report
}

const maxRecommendations = 4

// recommendations derives advice from the aggregate report figures
func (r *Ranker) recommendations(report *model.QualityReport) []string {
	var recommendations []string

	if report.MeanQuality < 0.5 {
		recommendations = append(recommendations,
			"overall evidence quality is low, consider adding richer source material")
	}
	if report.MeanRecency < 0.4 {
		recommendations = append(recommendations,
			"evidence is stale, refresh cards with recent data")
	}
	if report.MeanCredibility < 0.6 {
		recommendations = append(recommendations,
			"source credibility is low, add market data or expert analysis sources")
	}
	if report.Distribution.Low > report.TotalItems/2 {
		recommendations = append(recommendations,
			"score distribution skews low, tighten the search query or quality filter")
	}
	if report.TotalItems < 5 {
		recommendations = append(recommendations,
			"fewer than five evidence items found, results may be unstable")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"evidence base is sufficient for a reliable analysis")
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return recommendations
}
