package upstream

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQuerySource runs queries against BigQuery.
type BigQuerySource struct {
	client   *bigquery.Client
	location string
}

// NewBigQuerySource creates a client for the project. credentialsFile is
// optional; when empty, application default credentials apply.
func NewBigQuerySource(ctx context.Context, projectID, credentialsFile, location string) (*BigQuerySource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	return &BigQuerySource{client: client, location: location}, nil
}

func (s *BigQuerySource) Close() {
	s.client.Close()
}

// Query runs sql as a job and materializes the result rows.
func (s *BigQuerySource) Query(ctx context.Context, sql string) (*Rows, error) {
	q := s.client.Query(sql)
	q.Location = s.location

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job read: %w", err)
	}

	var columns []string
	var records []map[string]interface{}
	first := true

	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if first && it.Schema != nil {
			for _, f := range it.Schema {
				columns = append(columns, f.Name)
			}
			first = false
		}

		record := make(map[string]interface{}, len(row))
		for k, v := range row {
			record[k] = v
		}
		records = append(records, record)
	}

	return &Rows{Columns: columns, Records: records}, nil
}
