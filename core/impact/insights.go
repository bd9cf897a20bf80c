package impact

import (
	"fmt"

	"github.com/scenlens/matrixer/model"
)

const indicatorCallOutThreshold = 0.6

// Insights produces ranked human-readable findings for an impact estimate:
// the directional statement first, then reasoning, evidence summaries,
// caveats and indicator call-outs.
func Insights(calculation *model.ImpactCalculation, evidence []*model.RankedEvidence, report *model.QualityReport) []string {
	var insights []string

	insights = append(insights, directionalStatement(calculation))

	if calculation.Reasoning != "" {
		insights = append(insights, calculation.Reasoning)
	}

	if report != nil && report.TotalItems > 0 {
		insights = append(insights, fmt.Sprintf(
			"based on %v evidence items with mean quality %.2f and mean credibility %.2f",
			report.TotalItems, report.MeanQuality, report.MeanCredibility))
	}

	if strongest := strongestCitation(calculation, evidence); strongest != "" {
		insights = append(insights, strongest)
	}

	if report != nil && report.TotalItems > 0 && report.Distribution.Low > report.TotalItems/2 {
		insights = append(insights, "most evidence scored low, treat this estimate with caution")
	}

	if calculation.Indicators.Innovation > indicatorCallOutThreshold {
		insights = append(insights, "strong innovation signal across the evidence base")
	}
	if calculation.Indicators.Disruption > indicatorCallOutThreshold {
		insights = append(insights, "strong disruption signal across the evidence base")
	}
	if calculation.Indicators.Growth > indicatorCallOutThreshold {
		insights = append(insights, "strong growth signal across the evidence base")
	}

	return insights
}

// directionalStatement summarizes the estimate's sign and magnitude
func directionalStatement(calculation *model.ImpactCalculation) string {
	switch calculation.Direction {
	case model.DirectionPositive:
		return fmt.Sprintf("expected positive impact (score %.1f of 5)", calculation.RawScore)
	case model.DirectionNegative:
		return fmt.Sprintf("expected negative impact (score %.1f of -5)", calculation.RawScore)
	default:
		return "no clear directional impact expected"
	}
}

// strongestCitation names the highest-relevance cited evidence item
func strongestCitation(calculation *model.ImpactCalculation, evidence []*model.RankedEvidence) string {
	if len(calculation.CitedEvidence) == 0 {
		return ""
	}

	strongest := calculation.CitedEvidence[0]
	for _, citation := range calculation.CitedEvidence[1:] {
		if citation.Relevance > strongest.Relevance {
			strongest = citation
		}
	}

	for _, item := range evidence {
		if item.RID == strongest.RID {
			return fmt.Sprintf("strongest supporting evidence: %v (relevance %.2f)", item.Source, strongest.Relevance)
		}
	}
	return ""
}
