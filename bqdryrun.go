package bqdryrun

import (
	"context"

	"cloud.google.com/go/bigquery"
)

// DefaultSchemaPreviewLimit is the number of output columns Estimate reports.
const DefaultSchemaPreviewLimit = 10

// Planner plans a query in dry run mode and returns the job statistics.
// *Client is the production implementation.
type Planner interface {
	DryRun(ctx context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.JobStatistics, error)
}

// Service validates and estimates queries through a Planner.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	planner            Planner
	defaultPrice       float64
	schemaPreviewLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultPrice sets the USD price per TiB used when Estimate gets no price.
// Prices rejected by ValidatePrice are ignored.
func WithDefaultPrice(pricePerTiB float64) Option {
	return func(s *Service) {
		if ValidatePrice(pricePerTiB) == nil {
			s.defaultPrice = pricePerTiB
		}
	}
}

// WithSchemaPreviewLimit caps the number of schema fields Estimate returns.
// Values below 1 are ignored.
func WithSchemaPreviewLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.schemaPreviewLimit = n
		}
	}
}

// NewService creates a Service that submits every dry run to planner.
func NewService(planner Planner, opts ...Option) *Service {
	s := &Service{
		planner:            planner,
		defaultPrice:       DefaultPricePerTiB,
		schemaPreviewLimit: DefaultSchemaPreviewLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPrice returns the price Estimate uses when called without one.
func (s *Service) DefaultPrice() float64 {
	return s.defaultPrice
}
