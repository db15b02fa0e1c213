package bqdryrun

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

var (
	// ErrCredentials is returned when the BigQuery client cannot be constructed,
	// which almost always means application default credentials are missing.
	ErrCredentials = errors.New("bigquery client could not be created; run 'gcloud auth application-default login' or set GOOGLE_APPLICATION_CREDENTIALS")

	// ErrNoStatistics is returned when a dry run job comes back without statistics.
	ErrNoStatistics = errors.New("dry run returned no job statistics")
)

// DefaultLocation is the query location used when none is configured.
const DefaultLocation = "US"

// Client wraps a BigQuery client and runs queries in dry run mode only.
// It is safe for concurrent use and is meant to be created once per process.
type Client struct {
	*bigquery.Client
}

// NewClient creates a new BigQuery client for dry runs.
// An empty projectID lets the client library detect the project from the
// ambient credentials, and an empty location falls back to DefaultLocation.
//
// Example:
//
//	client, err := bqdryrun.NewClient(ctx, "my-project", "EU")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(ctx context.Context, projectID, location string, opts ...option.ClientOption) (*Client, error) {
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}
	if location == "" {
		location = DefaultLocation
	}
	bqClient, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
	}
	bqClient.Location = location
	return &Client{Client: bqClient}, nil
}

// DryRun plans sql with the given parameters without executing it and returns
// the statistics of the resulting job. Errors from BigQuery are returned as is.
func (c *Client) DryRun(ctx context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.JobStatistics, error) {
	q := c.Client.Query(sql)
	q.DryRun = true
	q.Location = c.Client.Location
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return nil, err
	}
	status := job.LastStatus()
	if status == nil {
		return nil, ErrNoStatistics
	}
	if err := status.Err(); err != nil {
		return nil, err
	}
	if status.Statistics == nil {
		return nil, ErrNoStatistics
	}
	return status.Statistics, nil
}
