package impact

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	validRID := uuid.New()

	t.Run("Valid response parses", func(t *testing.T) {
		raw := fmt.Sprintf(`{"impactScore": 3, "rationale": "strong tailwind", "evidence": [{"id": %q, "relevance": 0.8}], "confidence": 0.7}`, validRID)

		response, err := parseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, 3, *response.ImpactScore)
		assert.Equal(t, "strong tailwind", response.Rationale)
		assert.Equal(t, 0.7, *response.Confidence)

		cited := response.citedEvidence()
		require.Len(t, cited, 1)
		assert.Equal(t, validRID, cited[0].RID)
		assert.Equal(t, 0.8, cited[0].Relevance)
	})

	t.Run("Markdown fences are stripped", func(t *testing.T) {
		raw := "```json\n{\"impactScore\": -2, \"rationale\": \"headwind\", \"confidence\": 0.6}\n```"

		response, err := parseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, -2, *response.ImpactScore)
	})

	t.Run("Boundary scores are accepted", func(t *testing.T) {
		for _, score := range []int{-5, 0, 5} {
			raw := fmt.Sprintf(`{"impactScore": %v, "rationale": "edge", "confidence": 0.5}`, score)
			response, err := parseResponse(raw)
			require.NoError(t, err)
			assert.Equal(t, score, *response.ImpactScore)
		}
	})

	t.Run("Invalid JSON fails", func(t *testing.T) {
		_, err := parseResponse("not json at all")
		require.Error(t, err)
	})

	t.Run("All violations are collected", func(t *testing.T) {
		_, err := parseResponse(`{}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "impactScore is missing")
		assert.Contains(t, err.Error(), "rationale is missing")
		assert.Contains(t, err.Error(), "confidence is missing")
	})

	t.Run("Out of range values are rejected", func(t *testing.T) {
		raw := `{"impactScore": 7, "rationale": "x", "confidence": 1.5}`
		_, err := parseResponse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "impactScore 7 is outside [-5, 5]")
		assert.Contains(t, err.Error(), "confidence 1.5 is outside [0, 1]")
	})

	t.Run("Overlong rationale is rejected", func(t *testing.T) {
		long := make([]byte, maxRationaleChars+1)
		for i := range long {
			long[i] = 'a'
		}
		raw := fmt.Sprintf(`{"impactScore": 1, "rationale": %q, "confidence": 0.5}`, string(long))
		_, err := parseResponse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rationale exceeds 200 characters")
	})

	t.Run("Rationale length is counted in characters, not bytes", func(t *testing.T) {
		// 200 three-byte runes stay within the contract
		rationale := strings.Repeat("需", maxRationaleChars)
		raw := fmt.Sprintf(`{"impactScore": 1, "rationale": %q, "confidence": 0.5}`, rationale)
		response, err := parseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, rationale, response.Rationale)

		over := fmt.Sprintf(`{"impactScore": 1, "rationale": %q, "confidence": 0.5}`, rationale+"需")
		_, err = parseResponse(over)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rationale exceeds 200 characters")
	})

	t.Run("Too many citations are rejected", func(t *testing.T) {
		citations := ""
		for i := 0; i <= maxCitedEvidence; i++ {
			if i > 0 {
				citations += ","
			}
			citations += fmt.Sprintf(`{"id": %q, "relevance": 0.5}`, uuid.New())
		}
		raw := fmt.Sprintf(`{"impactScore": 1, "rationale": "x", "evidence": [%v], "confidence": 0.5}`, citations)
		_, err := parseResponse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than 5 evidence citations")
	})

	t.Run("Invalid citation ids and relevances are rejected", func(t *testing.T) {
		raw := `{"impactScore": 1, "rationale": "x", "evidence": [{"id": "not-a-uuid", "relevance": 2}], "confidence": 0.5}`
		_, err := parseResponse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `evidence[0].id "not-a-uuid" is not a valid id`)
		assert.Contains(t, err.Error(), "evidence[0].relevance 2 is outside [0, 1]")
	})
}
