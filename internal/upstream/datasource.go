// Package upstream implements the analytics backend the gateway talks to:
// a small HTTP service that answers natural-language questions with SQL,
// conversation history and chart figures. It exists both as a development
// stand-in (scripted engine) and as a real answerer backed by an LLM and a
// SQL warehouse.
package upstream

import "context"

// Rows is a generic tabular result from a data source.
type Rows struct {
	Columns []string
	Records []map[string]interface{}
}

// DataSource executes read-only SQL against some warehouse.
type DataSource interface {
	Query(ctx context.Context, sql string) (*Rows, error)
	Close()
}
