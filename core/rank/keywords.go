package rank

import (
	"strings"

	"github.com/scenlens/matrixer/model"
)

// evidenceTypeKeywords maps each evidence type to its keyword set.
// Classification checks the types in fixed precedence order.
var evidenceTypeKeywords = map[model.EvidenceType][]string{
	model.EvidenceTypeFinancialImpact: {
		"revenue", "profit", "earnings", "margin", "cost", "cash flow", "valuation", "financial",
	},
	model.EvidenceTypeMarketAnalysis: {
		"market", "competitor", "demand", "market share", "customer", "industry", "pricing",
	},
	model.EvidenceTypeTechnicalAnalysis: {
		"technology", "technical", "platform", "infrastructure", "architecture", "engineering", "compute",
	},
	model.EvidenceTypeRiskAssessment: {
		"risk", "threat", "vulnerability", "exposure", "compliance", "regulatory", "downside",
	},
	model.EvidenceTypeStrategicInsight: {
		"strategy", "strategic", "roadmap", "positioning", "vision", "long-term", "expansion",
	},
}

// evidenceTypePrecedence is the order in which keyword categories are checked
var evidenceTypePrecedence = []model.EvidenceType{
	model.EvidenceTypeFinancialImpact,
	model.EvidenceTypeMarketAnalysis,
	model.EvidenceTypeTechnicalAnalysis,
	model.EvidenceTypeRiskAssessment,
	model.EvidenceTypeStrategicInsight,
}

// analysisTypeKeywords maps each analysis type to the terms that make
// evidence content more relevant for it
var analysisTypeKeywords = map[model.AnalysisType][]string{
	model.AnalysisTypeMatrix: {
		"impact", "effect", "scenario", "outcome", "consequence",
	},
	model.AnalysisTypeRisk: {
		"risk", "threat", "vulnerability", "exposure", "downside", "mitigation",
	},
	model.AnalysisTypeOpportunity: {
		"opportunity", "growth", "upside", "potential", "innovation", "advantage",
	},
	model.AnalysisTypeMarket: {
		"market", "demand", "competitor", "share", "pricing", "customer",
	},
}

// authorityPhrases signal authoritative sourcing in evidence content
var authorityPhrases = []string{
	"according to",
	"research shows",
	"studies indicate",
	"data shows",
	"reported by",
	"analysts estimate",
}

// technicalTerms contribute to the content quality score
var technicalTerms = []string{
	"algorithm", "infrastructure", "architecture", "semiconductor", "throughput",
	"latency", "scalability", "benchmark", "deployment", "integration",
	"patent", "protocol", "capacity",
}

// classifyEvidenceType returns the first keyword category matched by the
// content, in fixed precedence order
func classifyEvidenceType(content string) model.EvidenceType {
	lowered := strings.ToLower(content)
	for _, evidenceType := range evidenceTypePrecedence {
		for _, keyword := range evidenceTypeKeywords[evidenceType] {
			if strings.Contains(lowered, keyword) {
				return evidenceType
			}
		}
	}
	return model.EvidenceTypeGeneralAnalysis
}

// matchesAny reports whether the lowered content contains any of the terms
func matchesAny(lowered string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// countMatches counts how many of the terms occur in the lowered content
func countMatches(lowered string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			count++
		}
	}
	return count
}
