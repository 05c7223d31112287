// Package service assembles the query-response pipeline: one ProcessQuery
// call performs at most two upstream round trips and otherwise pure
// transformation, returning a QueryResult the UI can always render.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/backend"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/mock"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// queryFailurePrefix is the fixed phrase identifying a query-processing
// failure to the caller.
const queryFailurePrefix = "there was an error processing your query"

// Processor runs the normalization pipeline against one upstream backend.
// It holds no mutable state across calls; every invocation re-parses from
// scratch and builds its own QueryResult.
type Processor struct {
	client       *backend.Client
	synth        *mock.Synthesizer
	probeEnabled bool
}

func NewProcessor(client *backend.Client, synth *mock.Synthesizer, probeEnabled bool) *Processor {
	return &Processor{
		client:       client,
		synth:        synth,
		probeEnabled: probeEnabled,
	}
}

// ProcessQuery resolves a natural-language question into a QueryResult.
//
// Connectivity failures (probe or main call) degrade to a synthetic result
// with IsMockData set and never surface as errors. A structured upstream
// error propagates as a single wrapped error. Partial or malformed payloads
// recover field by field and still produce a result.
func (p *Processor) ProcessQuery(ctx context.Context, question string) (*models.QueryResult, error) {
	if p.probeEnabled {
		if err := p.client.Probe(ctx); err != nil {
			log.Warn().Err(err).Msg("connectivity probe failed, entering degraded mode")
			return p.synth.QueryResult(question), nil
		}
	}

	body, err := p.client.Ask(ctx, question)
	if err != nil {
		var appErr *backend.Error
		if errors.As(err, &appErr) {
			return nil, fmt.Errorf("%s: %s", queryFailurePrefix, appErr.Message)
		}
		log.Warn().Err(err).Msg("upstream unreachable, entering degraded mode")
		return p.synth.QueryResult(question), nil
	}

	raw := pipeline.DecodeRawResponse(body)

	toolCalls := pipeline.ExtractToolCalls(raw.History)
	vizs := pipeline.NormalizeVisualizations(raw)
	explanation := resolveExplanation(raw)

	if len(vizs) == 0 && explanation != "" {
		if viz, ok := pipeline.ExtractTableVisualization(explanation); ok {
			log.Debug().Msg("synthesized visualization from explanation table")
			vizs = append(vizs, viz)
		}
	}

	result := &models.QueryResult{
		Data:           pipeline.ProjectDataPoints(vizs),
		SQL:            resolveSQL(raw, toolCalls),
		Explanation:    explanation,
		Visualizations: vizs,
		ToolCalls:      toolCalls,
	}
	if len(toolCalls) > 0 {
		idx, total := 0, len(toolCalls)
		result.CurrentToolCallIndex = &idx
		result.TotalToolCalls = &total
	}

	log.Info().
		Int("visualizations", len(vizs)).
		Int("tool_calls", len(toolCalls)).
		Bool("has_sql", result.SQL != "").
		Msg("query normalized")
	return result, nil
}

// resolveExplanation prefers the explicit RESULT field and falls back to the
// last assistant message in the history.
func resolveExplanation(raw *models.RawResponse) string {
	if raw.Result != "" {
		return raw.Result
	}
	for i := len(raw.History) - 1; i >= 0; i-- {
		if raw.History[i].Role == "assistant" && raw.History[i].Content != "" {
			return raw.History[i].Content
		}
	}
	return ""
}

// resolveSQL derives the best-effort executed-query trace: the first tool
// call's arguments pretty-printed, else the explicit final_query field.
func resolveSQL(raw *models.RawResponse, toolCalls []models.ToolCall) string {
	if len(toolCalls) > 0 {
		if b, err := json.MarshalIndent(toolCalls[0].Arguments, "", "  "); err == nil {
			return string(b)
		}
	}
	return raw.FinalQuery
}
