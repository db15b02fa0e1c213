package bqdryrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

var (
	// ErrEmptySQL is returned when the query SQL is empty.
	ErrEmptySQL = errors.New("query SQL cannot be empty")

	// ErrInvalidPrice is returned when a price per TiB is negative or not a number.
	ErrInvalidPrice = errors.New("price per TiB must be a non-negative number")
)

// InvalidSQL is the error code of a query BigQuery refused to plan.
const InvalidSQL = "INVALID_SQL"

// queryErrorReasons are the job error reasons that blame the query text.
// Reasons such as accessDenied, backendError or quotaExceeded do not.
var queryErrorReasons = map[string]bool{
	"invalidQuery": true,
	"invalid":      true,
	"notFound":     true,
}

// QueryError describes why BigQuery rejected a query.
type QueryError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Location *ErrorLocation `json:"location,omitempty"`
}

// ValidationResult is the outcome of Validate. Error is set only when IsValid is false.
type ValidationResult struct {
	IsValid bool        `json:"isValid"`
	Error   *QueryError `json:"error,omitempty"`
}

// TableRef identifies a table a query reads.
type TableRef struct {
	Project string `json:"project"`
	Dataset string `json:"dataset"`
	Table   string `json:"table"`
}

// FieldInfo is one column of a query's output schema.
type FieldInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Mode string `json:"mode"`
}

// DryRunResult is the outcome of Estimate: either the plan figures or, when
// Error is set, only the error.
type DryRunResult struct {
	TotalBytesProcessed int64       `json:"totalBytesProcessed"`
	USDEstimate         float64     `json:"usdEstimate"`
	ReferencedTables    []TableRef  `json:"referencedTables"`
	SchemaPreview       []FieldInfo `json:"schemaPreview"`
	Error               *QueryError `json:"error,omitempty"`
}

// MarshalJSON encodes a failed dry run as {"error": ...} alone.
func (r DryRunResult) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Error *QueryError `json:"error"`
		}{r.Error})
	}
	type plain DryRunResult
	p := plain(r)
	if p.ReferencedTables == nil {
		p.ReferencedTables = []TableRef{}
	}
	if p.SchemaPreview == nil {
		p.SchemaPreview = []FieldInfo{}
	}
	return json.Marshal(p)
}

// Validate dry runs sql and reports whether BigQuery accepts it.
// A rejected query is reported in the result; the returned error is reserved
// for failures that are not about the SQL, such as network or permission errors.
func (s *Service) Validate(ctx context.Context, sql string, params map[string]ParamValue) (ValidationResult, error) {
	_, qerr, err := s.dryRun(ctx, sql, params)
	if err != nil {
		return ValidationResult{}, err
	}
	if qerr != nil {
		return ValidationResult{IsValid: false, Error: qerr}, nil
	}
	return ValidationResult{IsValid: true}, nil
}

// Estimate dry runs sql and reports the bytes it would scan, the estimated cost
// at pricePerTiB, the tables it reads and a preview of its output schema.
// A nil pricePerTiB uses the service default.
func (s *Service) Estimate(ctx context.Context, sql string, params map[string]ParamValue, pricePerTiB *float64) (DryRunResult, error) {
	price := s.defaultPrice
	if pricePerTiB != nil {
		price = *pricePerTiB
	}
	if err := ValidatePrice(price); err != nil {
		return DryRunResult{}, err
	}

	stats, qerr, err := s.dryRun(ctx, sql, params)
	if err != nil {
		return DryRunResult{}, err
	}
	if qerr != nil {
		return DryRunResult{Error: qerr}, nil
	}

	result := DryRunResult{
		TotalBytesProcessed: stats.TotalBytesProcessed,
		USDEstimate:         EstimateUSD(stats.TotalBytesProcessed, price),
		ReferencedTables:    []TableRef{},
		SchemaPreview:       []FieldInfo{},
	}
	if details, ok := stats.Details.(*bigquery.QueryStatistics); ok && details != nil {
		result.ReferencedTables = tableRefs(details.ReferencedTables)
		result.SchemaPreview = schemaPreview(details.Schema, s.schemaPreviewLimit)
	}
	return result, nil
}

// dryRun submits a single dry run. Exactly one of stats, qerr and err is set.
func (s *Service) dryRun(ctx context.Context, sql string, params map[string]ParamValue) (*bigquery.JobStatistics, *QueryError, error) {
	// Validate non-empty SQL
	if strings.TrimSpace(sql) == "" {
		return nil, nil, ErrEmptySQL
	}
	stats, err := s.planner.DryRun(ctx, sql, BuildQueryParameters(params))
	if err != nil {
		if qerr := queryError(err); qerr != nil {
			return nil, qerr, nil
		}
		return nil, nil, fmt.Errorf("failed to dry run query: %w", err)
	}
	if stats == nil {
		return nil, nil, ErrNoStatistics
	}
	return stats, nil, nil
}

// queryError converts a BigQuery rejection of the query into a QueryError.
// It returns nil for errors that are not about the query itself.
func queryError(err error) *QueryError {
	var message string
	var apiErr *googleapi.Error
	var bqErr *bigquery.Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Code != http.StatusBadRequest && apiErr.Code != http.StatusNotFound {
			return nil
		}
		message = apiErr.Message
	case errors.As(err, &bqErr):
		if !queryErrorReasons[bqErr.Reason] {
			return nil
		}
		message = bqErr.Message
	default:
		return nil
	}
	if message == "" {
		message = err.Error()
	}
	return &QueryError{
		Code:     InvalidSQL,
		Message:  message,
		Location: ExtractErrorLocation(message),
	}
}

func tableRefs(tables []*bigquery.Table) []TableRef {
	refs := make([]TableRef, 0, len(tables))
	for _, t := range tables {
		if t == nil {
			continue
		}
		refs = append(refs, TableRef{
			Project: t.ProjectID,
			Dataset: t.DatasetID,
			Table:   t.TableID,
		})
	}
	return refs
}

func schemaPreview(schema bigquery.Schema, limit int) []FieldInfo {
	if len(schema) > limit {
		schema = schema[:limit]
	}
	fields := make([]FieldInfo, 0, len(schema))
	for _, f := range schema {
		if f == nil {
			continue
		}
		fields = append(fields, FieldInfo{
			Name: f.Name,
			Type: string(f.Type),
			Mode: fieldMode(f),
		})
	}
	return fields
}

func fieldMode(f *bigquery.FieldSchema) string {
	switch {
	case f.Repeated:
		return "REPEATED"
	case f.Required:
		return "REQUIRED"
	}
	return "NULLABLE"
}
