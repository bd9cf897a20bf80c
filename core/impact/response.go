package impact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
)

const (
	maxRationaleChars = 200
	maxCitedEvidence  = 5
)

// llmResponse is the strict JSON contract expected from the model
type llmResponse struct {
	ImpactScore *int           `json:"impactScore"`
	Rationale   string         `json:"rationale"`
	Evidence    []llmReference `json:"evidence"`
	Confidence  *float64       `json:"confidence"`
}

type llmReference struct {
	ID        string  `json:"id"`
	Relevance float64 `json:"relevance"`
}

// parseResponse decodes and validates the model output, collecting every
// contract violation instead of stopping at the first
func parseResponse(raw string) (*llmResponse, error) {
	raw = strings.TrimSpace(raw)
	// Some models wrap JSON in markdown fences despite JSON mode
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	response := &llmResponse{}
	if err := json.Unmarshal([]byte(raw), response); err != nil {
		return nil, helper.NewError("decoding impact response", err)
	}

	var violations []string
	if response.ImpactScore == nil {
		violations = append(violations, "impactScore is missing")
	} else if *response.ImpactScore < -5 || *response.ImpactScore > 5 {
		violations = append(violations, fmt.Sprintf("impactScore %v is outside [-5, 5]", *response.ImpactScore))
	}
	if response.Rationale == "" {
		violations = append(violations, "rationale is missing")
	} else if utf8.RuneCountInString(response.Rationale) > maxRationaleChars {
		violations = append(violations, fmt.Sprintf("rationale exceeds %v characters", maxRationaleChars))
	}
	if len(response.Evidence) > maxCitedEvidence {
		violations = append(violations, fmt.Sprintf("more than %v evidence citations", maxCitedEvidence))
	}
	for i, reference := range response.Evidence {
		if _, err := uuid.Parse(reference.ID); err != nil {
			violations = append(violations, fmt.Sprintf("evidence[%v].id %q is not a valid id", i, reference.ID))
		}
		if reference.Relevance < 0 || reference.Relevance > 1 {
			violations = append(violations, fmt.Sprintf("evidence[%v].relevance %v is outside [0, 1]", i, reference.Relevance))
		}
	}
	if response.Confidence == nil {
		violations = append(violations, "confidence is missing")
	} else if *response.Confidence < 0 || *response.Confidence > 1 {
		violations = append(violations, fmt.Sprintf("confidence %v is outside [0, 1]", *response.Confidence))
	}

	if len(violations) > 0 {
		return nil, helper.NewError("validating impact response", errors.New(strings.Join(violations, "; ")))
	}

	return response, nil
}

// citedEvidence converts validated references into model citations
func (r *llmResponse) citedEvidence() []model.CitedEvidence {
	cited := make([]model.CitedEvidence, 0, len(r.Evidence))
	for _, reference := range r.Evidence {
		rid, err := uuid.Parse(reference.ID)
		if err != nil {
			continue
		}
		cited = append(cited, model.CitedEvidence{RID: rid, Relevance: reference.Relevance})
	}
	return cited
}
