package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

const answererSystemPrompt = `You are a data analyst answering questions about a sales database.

RULES:
1. Generate only SELECT queries - never INSERT, UPDATE, DELETE, DROP, or DDL
2. Always add a LIMIT clause (max 1000 rows) unless the user asks otherwise
3. ALWAYS wrap your final SQL in a code block exactly like this:
` + "```sql" + `
SELECT ...
` + "```" + `
4. Execute the SQL exactly once after writing it
5. Summarize the results in plain language, including a markdown table of the data`

// AgentEngine answers questions with an LLM tool-calling loop. The model
// writes SQL, the execute_sql tool runs it through the guard and data source,
// and the final text plus the recorded tool trace become the Answer.
type AgentEngine struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	ds        DataSource
	guard     *QueryGuard
}

// NewAgentEngine creates an engine backed by Anthropic Claude or a
// compatible provider.
func NewAgentEngine(apiKey, model, baseURL string, ds DataSource) *AgentEngine {
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AgentEngine{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 4096,
		ds:        ds,
		guard:     NewQueryGuard(),
	}
}

func (e *AgentEngine) Answer(ctx context.Context, question string) (*Answer, error) {
	var (
		trace    []ToolExecution
		lastSQL  string
		lastRows *Rows
	)

	executeSQL := func(ctx context.Context, input map[string]interface{}) (string, error) {
		sql, _ := input["sql"].(string)
		if sql == "" {
			return "", fmt.Errorf("sql is required")
		}
		if err := e.guard.Check(sql); err != nil {
			return "", err
		}
		lastSQL = sql
		rows, err := e.ds.Query(ctx, sql)
		if err != nil {
			return "", fmt.Errorf("execute query: %w", err)
		}
		lastRows = rows
		out := map[string]interface{}{
			"row_count": len(rows.Records),
			"columns":   rows.Columns,
			"data":      rows.Records,
		}
		return mustJSON(out), nil
	}

	toolParams := []anthropic.ToolUnionUnionParam{
		anthropic.ToolParam{
			Name:        anthropic.String("execute_sql"),
			Description: anthropic.String("Execute a SQL SELECT query and return the results. Only SELECT queries are allowed."),
			InputSchema: anthropic.F[interface{}](map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sql": map[string]interface{}{
						"type":        "string",
						"description": "The SQL SELECT query to execute",
					},
				},
				"required": []string{"sql"},
			}),
		},
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
	}

	maxIter := 10
	for iter := 0; iter < maxIter; iter++ {
		resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.F(anthropic.Model(e.model)),
			MaxTokens: anthropic.F(int64(e.maxTokens)),
			Messages:  anthropic.F(messages),
			Tools:     anthropic.F(toolParams),
			System: anthropic.F([]anthropic.TextBlockParam{
				anthropic.NewTextBlock(answererSystemPrompt),
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}

		var textContent string
		type pendingCall struct {
			id    string
			name  string
			input map[string]interface{}
		}
		var pending []pendingCall

		for _, block := range resp.Content {
			switch b := block.AsUnion().(type) {
			case anthropic.TextBlock:
				textContent += b.Text
			case anthropic.ToolUseBlock:
				var input map[string]interface{}
				if err := json.Unmarshal(b.Input, &input); err != nil {
					log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
					input = map[string]interface{}{}
				}
				pending = append(pending, pendingCall{id: b.ID, name: b.Name, input: input})
			}
		}

		log.Debug().
			Int("iter", iter).
			Str("stop_reason", string(resp.StopReason)).
			Int("tool_calls", len(pending)).
			Msg("answerer iteration")

		done := resp.StopReason == "end_turn" ||
			resp.StopReason == "stop_sequence" ||
			resp.StopReason == "max_tokens" ||
			len(pending) == 0
		if done {
			return e.finishAnswer(textContent, lastSQL, lastRows, trace)
		}

		messages = append(messages, resp.ToParam())

		var results []anthropic.ContentBlockParamUnion
		for _, tc := range pending {
			var output string
			var execErr error
			if tc.name == "execute_sql" {
				output, execErr = executeSQL(ctx, tc.input)
			} else {
				execErr = fmt.Errorf("unknown tool: %s", tc.name)
			}
			if execErr != nil {
				log.Warn().Err(execErr).Str("tool", tc.name).Msg("tool execution error")
				output = fmt.Sprintf("error: %v", execErr)
			}
			trace = append(trace, ToolExecution{
				ID:     tc.id,
				Name:   tc.name,
				Args:   mustJSON(tc.input),
				Output: output,
			})
			results = append(results, anthropic.NewToolResultBlock(tc.id, output, execErr != nil))
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}

	return nil, fmt.Errorf("answerer loop exceeded max iterations (%d)", maxIter)
}

func (e *AgentEngine) finishAnswer(text, lastSQL string, rows *Rows, trace []ToolExecution) (*Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("model returned no answer text")
	}

	sql := extractSQL(text)
	if sql == "" {
		sql = lastSQL
	}

	var figure models.Figure
	if points := pointsFromRows(rows); len(points) > 0 {
		figure = barFigure(points, "Results")
	}

	return &Answer{
		Explanation: text,
		SQL:         sql,
		Figure:      figure,
		Trace:       trace,
	}, nil
}

// extractSQL pulls SQL from model output: a ```sql code block first, then a
// bare SELECT statement.
var reSelectStmt = regexp.MustCompile(`(?is)(SELECT\s+.+?FROM\s+.+?(?:LIMIT\s+\d+|;\s*$|\z))`)

func extractSQL(text string) string {
	lower := strings.ToLower(text)
	if idx := strings.Index(lower, "```sql"); idx >= 0 {
		rest := text[idx+len("```sql"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if m := reSelectStmt.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
