package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scenlens/matrixer/core/assemble"
	"github.com/scenlens/matrixer/core/confidence"
	"github.com/scenlens/matrixer/core/impact"
	"github.com/scenlens/matrixer/core/rank"
	"github.com/scenlens/matrixer/core/retrieval"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
	"golang.org/x/sync/semaphore"
)

const defaultSearchLimit = 20

// Processor sequences the analysis pipeline for single and batch requests:
// assemble context, retrieve and rank evidence, calculate impact, score
// confidence, generate insights.
type Processor struct {
	assembler  *assemble.Assembler
	engine     *retrieval.Engine
	ranker     *rank.Ranker
	scorer     *confidence.Scorer
	calculator *impact.Calculator
	config     model.BatchConfig
	sink       ResultSink
	events     EventSink
	log        *slog.Logger

	// Successes and Failures count completed and failed analyses over the
	// processor's lifetime, covering single and batch runs
	Successes atomic.Int64
	Failures  atomic.Int64
}

// NewProcessor creates a new matrix processor. The result and event sinks
// are optional.
func NewProcessor(
	assembler *assemble.Assembler,
	engine *retrieval.Engine,
	ranker *rank.Ranker,
	scorer *confidence.Scorer,
	calculator *impact.Calculator,
	config model.BatchConfig,
	sink ResultSink,
	events EventSink,
	logger *slog.Logger,
) *Processor {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Processor{
		assembler:  assembler,
		engine:     engine,
		ranker:     ranker,
		scorer:     scorer,
		calculator: calculator,
		config:     config,
		sink:       sink,
		events:     events,
		log:        logger,
	}
}

// Analyze runs the full pipeline for one (asset, scenario) pair, tracking
// it as a job and emitting lifecycle events
func (p *Processor) Analyze(ctx context.Context, request *model.AnalysisRequest) (*model.MatrixAnalysisResult, error) {
	job := newJob()
	startJob(job)
	p.emit(job, model.JobEventStatusStarted, model.Metadata{
		"asset_rid":    request.AssetRID.String(),
		"scenario_rid": request.ScenarioRID.String(),
	})

	result, err := p.analyze(ctx, request)
	if err != nil {
		failJob(job, err)
		p.Failures.Add(1)
		p.emit(job, model.JobEventStatusFailed, model.Metadata{"error": err.Error()})
		return nil, err
	}

	completeJob(job)
	p.Successes.Add(1)
	p.emit(job, model.JobEventStatusCompleted, model.Metadata{
		"impact_score": result.Impact.RawScore,
		"confidence":   result.Confidence.Overall,
	})

	return result, nil
}

// analyze runs the pipeline steps in order
func (p *Processor) analyze(ctx context.Context, request *model.AnalysisRequest) (*model.MatrixAnalysisResult, error) {
	started := time.Now()

	assembler := p.assembler
	if request.ContextTokenLimit > 0 {
		// Token limits map to characters at roughly four per token
		assembler = assembler.WithBudget(request.ContextTokenLimit * 4)
	}

	assembled, err := assembler.Assemble(ctx, request.AssetRID, request.ScenarioRID, request.FocusQuery)
	if err != nil {
		return nil, helper.NewError("assembling analysis context", err)
	}

	query := request.FocusQuery
	if query == "" {
		query = assembled.AssetName + " " + assembled.ScenarioName
	}

	filters := &model.SearchFilters{AssetRID: &request.AssetRID}
	results, err := p.engine.Search(ctx, query, filters, defaultSearchLimit)
	if err != nil {
		return nil, helper.NewError("searching evidence", err)
	}

	rankingCtx := &model.RankingContext{AnalysisType: model.AnalysisTypeMatrix}
	if request.PrioritizeRecency {
		// The market profile carries the highest recency weight
		rankingCtx.AnalysisType = model.AnalysisTypeMarket
	}
	evidence := p.ranker.Filter(p.ranker.Rank(results, rankingCtx))
	report := p.ranker.Report(evidence)

	calculator := p.calculator.WithModel(request.Model)
	calculation, err := calculator.Calculate(ctx, assembled, evidence)
	if err != nil {
		return nil, helper.NewError("calculating impact", err)
	}
	calculation.Confidence = calculator.CompositeConfidence(
		calculation.Confidence,
		impact.RetrievalAgreement(evidence),
		impact.RankCorrelation(evidence, calculation.CitedEvidence),
	)

	score := p.scorer.Score(assembled, evidence, calculation)

	insights := impact.Insights(calculation, evidence, report)
	if request.ConfidenceThreshold > 0 && score.Overall < request.ConfidenceThreshold {
		insights = append(insights, fmt.Sprintf(
			"confidence %.2f is below the requested threshold %.2f",
			score.Overall, request.ConfidenceThreshold))
	}

	result := &model.MatrixAnalysisResult{
		AssetRID:       request.AssetRID,
		ScenarioRID:    request.ScenarioRID,
		Impact:         calculation,
		Confidence:     score,
		Evidence:       evidence,
		Report:         report,
		Insights:       insights,
		ProcessingTime: time.Since(started),
		GeneratedAt:    time.Now(),
		Provider:       calculation.Provider,
		Model:          calculation.Provider,
	}

	if p.sink != nil {
		if err := p.sink.SaveResult(result); err != nil && p.log != nil {
			// Persistence is a hand-off, a failed save does not void the analysis
			p.log.Warn("saving analysis result failed", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// AnalyzeBatch runs the pipeline for every pair with bounded parallelism,
// isolating per-pair failures into the errors list
func (p *Processor) AnalyzeBatch(ctx context.Context, pairs []model.BatchPair, template *model.AnalysisRequest) (*model.BatchResult, error) {
	if template == nil {
		template = &model.AnalysisRequest{}
	}

	batch := &model.BatchResult{}
	sem := semaphore.NewWeighted(p.config.Concurrency)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var successes, failures atomic.Int64

	for _, pair := range pairs {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, helper.NewError("acquiring batch slot", err)
		}

		wg.Add(1)
		go func(pair model.BatchPair) {
			defer wg.Done()
			defer sem.Release(1)

			request := *template
			request.AssetRID = pair.AssetRID
			request.ScenarioRID = pair.ScenarioRID

			result, err := p.Analyze(ctx, &request)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures.Add(1)
				batch.Errors = append(batch.Errors, model.BatchError{
					AssetRID:    pair.AssetRID,
					ScenarioRID: pair.ScenarioRID,
					Message:     err.Error(),
				})
				return
			}
			successes.Add(1)
			batch.Results = append(batch.Results, result)
		}(pair)
	}

	wg.Wait()

	batch.SuccessfulAnalyses = int(successes.Load())
	batch.FailedAnalyses = int(failures.Load())
	batch.Summary = summarize(batch.Results)

	return batch, nil
}

// summarize aggregates impact, confidence, direction and timing figures
// over the successful analyses
func summarize(results []*model.MatrixAnalysisResult) *model.BatchSummary {
	if len(results) == 0 {
		return nil
	}

	summary := &model.BatchSummary{
		Directions:        make(map[model.Direction]int),
		MinProcessingTime: results[0].ProcessingTime,
	}

	var totalTime time.Duration
	for _, result := range results {
		summary.MeanImpact += result.Impact.NormalizedScore
		summary.MeanConfidence += result.Confidence.Overall
		summary.Directions[result.Impact.Direction]++

		totalTime += result.ProcessingTime
		if result.ProcessingTime < summary.MinProcessingTime {
			summary.MinProcessingTime = result.ProcessingTime
		}
		if result.ProcessingTime > summary.MaxProcessingTime {
			summary.MaxProcessingTime = result.ProcessingTime
		}
	}

	total := float64(len(results))
	summary.MeanImpact /= total
	summary.MeanConfidence /= total
	summary.AvgProcessingTime = totalTime / time.Duration(len(results))

	return summary
}
