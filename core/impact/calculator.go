package impact

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/llm"
	"github.com/scenlens/matrixer/model"
)

// ErrNoCompleter is returned on the model path when no completion client
// is configured, forcing the heuristic fallback
var ErrNoCompleter = errors.New("no completion client configured")

// Calculator derives a calibrated impact estimate from assembled context and
// ranked evidence. The primary path asks the language model; when every
// attempt fails a deterministic heuristic takes over.
type Calculator struct {
	completer llm.Completer
	config    model.ImpactConfig
	retry     helper.RetryPolicy
	log       *slog.Logger
}

// NewCalculator creates a new impact calculator
func NewCalculator(completer llm.Completer, config model.ImpactConfig, logger *slog.Logger) *Calculator {
	if config.Calibration == nil {
		config.Calibration = model.IdentityCalibration
	}
	return &Calculator{
		completer: completer,
		config:    config,
		retry:     helper.NewRetryPolicy(config.MaxAttempts, config.BackoffBase),
		log:       logger,
	}
}

// WithModel returns a copy of the calculator targeting a different model,
// used for per-request model overrides
func (c *Calculator) WithModel(modelName string) *Calculator {
	if modelName == "" || modelName == c.config.Model {
		return c
	}
	config := c.config
	config.Model = modelName
	return &Calculator{completer: c.completer, config: config, retry: c.retry, log: c.log}
}

// Calculate produces the impact estimate for one (asset, scenario) pair.
// Transport, parse and validation failures are retried with exponential
// backoff; on exhaustion the heuristic fallback is used instead of failing.
func (c *Calculator) Calculate(ctx context.Context, assembled *model.AssembledContext, evidence []*model.RankedEvidence) (*model.ImpactCalculation, error) {
	calculation, err := c.calculateLLM(ctx, assembled, evidence)
	if err != nil {
		if ctx.Err() != nil {
			return nil, helper.NewError("calculating impact", ctx.Err())
		}
		if c.log != nil {
			c.log.Warn("impact model path failed, using heuristic fallback", slog.String("error", err.Error()))
		}
		calculation = c.calculateFallback(evidence)
	}

	calculation.Indicators = c.indicators(evidence)
	return calculation, nil
}

// calculateLLM runs the prompt through the completer with retries
func (c *Calculator) calculateLLM(ctx context.Context, assembled *model.AssembledContext, evidence []*model.RankedEvidence) (*model.ImpactCalculation, error) {
	if c.completer == nil {
		return nil, helper.NewError("calculating impact", ErrNoCompleter)
	}

	request := llm.CompletionRequest{
		Model:       c.config.Model,
		System:      systemPrompt,
		Prompt:      buildPrompt(assembled, evidence, c.config),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		JSONOnly:    true,
	}

	var response *llmResponse
	err := c.retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		raw, err := c.completer.Complete(callCtx, request)
		if err != nil {
			return err
		}
		parsed, err := parseResponse(raw)
		if err != nil {
			return err
		}
		response = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw := c.config.Calibration(float64(*response.ImpactScore))
	raw = clamp(raw, -5, 5)

	return &model.ImpactCalculation{
		RawScore:        raw,
		NormalizedScore: (raw + 5) / 10,
		Direction:       direction(raw),
		Reasoning:       response.Rationale,
		CitedEvidence:   response.citedEvidence(),
		Confidence:      *response.Confidence,
		Provider:        c.config.Model,
	}, nil
}

// calculateFallback scans evidence content for positive and negative terms,
// weighting each hit by the item's relevance score
func (c *Calculator) calculateFallback(evidence []*model.RankedEvidence) *model.ImpactCalculation {
	var positive, negative float64
	for _, item := range evidence {
		lowered := strings.ToLower(item.Content)
		for _, term := range c.config.PositiveTerms {
			if strings.Contains(lowered, term) {
				positive += item.RelevanceScore
			}
		}
		for _, term := range c.config.NegativeTerms {
			if strings.Contains(lowered, term) {
				negative += item.RelevanceScore
			}
		}
	}

	net := positive - negative
	heuristicDirection := model.DirectionNeutral
	score := 0.5
	switch {
	case net > 0.2:
		heuristicDirection = model.DirectionPositive
		score = clamp(0.5+net*0.5, 0, 1)
	case net < -0.2:
		heuristicDirection = model.DirectionNegative
		score = clamp(0.5+net*0.5, 0, 1)
	}

	raw := c.config.Calibration(score*10 - 5)
	raw = clamp(raw, -5, 5)

	return &model.ImpactCalculation{
		RawScore:        raw,
		NormalizedScore: (raw + 5) / 10,
		Direction:       heuristicDirection,
		Reasoning:       "heuristic estimate from evidence term analysis",
		Confidence:      fallbackConfidence,
		Provider:        "heuristic",
		FromFallback:    true,
	}
}

const fallbackConfidence = 0.4

// indicatorTerms map each impact indicator to its signal vocabulary
var indicatorTerms = map[string][]string{
	"opportunities": {"opportunity", "opportunities", "potential", "upside"},
	"threats":       {"threat", "competition", "pressure", "headwind"},
	"growth":        {"growth", "expansion", "increase", "accelerat"},
	"risks":         {"risk", "exposure", "uncertainty", "volatile"},
	"innovation":    {"innovation", "innovative", "breakthrough", "novel"},
	"disruption":    {"disruption", "disrupt", "transform", "obsolete"},
}

// indicators derives the thematic signal breakdown from evidence content,
// weighting each match by the item's relevance
func (c *Calculator) indicators(evidence []*model.RankedEvidence) model.ImpactIndicators {
	if len(evidence) == 0 {
		return model.ImpactIndicators{}
	}

	signal := func(name string) float64 {
		total := 0.0
		for _, item := range evidence {
			lowered := strings.ToLower(item.Content)
			for _, term := range indicatorTerms[name] {
				if strings.Contains(lowered, term) {
					total += item.RelevanceScore
					break
				}
			}
		}
		return clamp(total/float64(len(evidence))*2, 0, 1)
	}

	return model.ImpactIndicators{
		Opportunities: signal("opportunities"),
		Threats:       signal("threats"),
		Growth:        signal("growth"),
		Risks:         signal("risks"),
		Innovation:    signal("innovation"),
		Disruption:    signal("disruption"),
	}
}

// CompositeConfidence combines the model's own confidence with retrieval
// agreement and rank correlation as a weighted geometric mean. A zero in
// any input zeroes the composite.
func (c *Calculator) CompositeConfidence(llmConfidence, retrievalAgreement, rankCorrelation float64) float64 {
	llmConfidence = clamp(llmConfidence, 0, 1)
	retrievalAgreement = clamp(retrievalAgreement, 0, 1)
	rankCorrelation = clamp(rankCorrelation, 0, 1)

	composite := math.Pow(llmConfidence, c.config.LLMConfidenceWeight) *
		math.Pow(retrievalAgreement, c.config.VarianceWeight) *
		math.Pow(rankCorrelation, c.config.RankWeight)

	return clamp(composite, 0, 1)
}

// RetrievalAgreement maps the spread of evidence final scores onto [0,1],
// where a tight spread means the retrieval sources agree
func RetrievalAgreement(evidence []*model.RankedEvidence) float64 {
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

	return clamp(1-2*math.Sqrt(variance), 0, 1)
}

// RankCorrelation measures how well the cited evidence relevance order
// agrees with the ranker's order. Citations of top-ranked items score high.
func RankCorrelation(evidence []*model.RankedEvidence, cited []model.CitedEvidence) float64 {
	if len(cited) == 0 || len(evidence) == 0 {
		return 0.5
	}

	rankByRID := make(map[string]int, len(evidence))
	for _, item := range evidence {
		rankByRID[item.RID.String()] = item.Rank
	}

	total := 0.0
	matched := 0
	for _, citation := range cited {
		rank, ok := rankByRID[citation.RID.String()]
		if !ok {
			continue
		}
		matched++
		total += citation.Relevance / float64(rank)
	}
	if matched == 0 {
		return 0
	}

	return clamp(total/float64(matched), 0, 1)
}

// direction maps a raw score onto its sign
func direction(raw float64) model.Direction {
	switch {
	case raw > 0:
		return model.DirectionPositive
	case raw < 0:
		return model.DirectionNegative
	default:
		return model.DirectionNeutral
	}
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
