package impact

import (
	"fmt"
	"strings"

	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
)

const systemPrompt = `You are a scenario impact analyst. Given an asset, a hypothetical scenario and supporting evidence, estimate the scenario's impact on the asset.
Respond with a single JSON object and nothing else:
{"impactScore": <integer from -5 to 5>, "rationale": "<at most 200 characters>", "evidence": [{"id": "<evidence id>", "relevance": <number from 0 to 1>}], "confidence": <number from 0 to 1>}
Cite at most 5 evidence items, only ones listed in the prompt.`

// buildPrompt renders the assembled context and the top ranked evidence
// into the user prompt, truncating evidence content to bound token cost
func buildPrompt(assembled *model.AssembledContext, evidence []*model.RankedEvidence, config model.ImpactConfig) string {
	var prompt strings.Builder

	prompt.WriteString(assembled.Text)
	prompt.WriteString("\n\n## Evidence\n")

	count := len(evidence)
	if config.MaxEvidence > 0 && count > config.MaxEvidence {
		count = config.MaxEvidence
	}
	for _, item := range evidence[:count] {
		content := item.Content
		if config.MaxEvidenceChars > 0 && len(content) > config.MaxEvidenceChars {
			content = helper.Truncate(content, config.MaxEvidenceChars)
		}
		prompt.WriteString(fmt.Sprintf("[%v] (%v, score %.2f) %v\n", item.RID, item.EvidenceType, item.FinalScore, content))
	}

	prompt.WriteString("\nEstimate the impact of the scenario on the asset.")
	return prompt.String()
}
