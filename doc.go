// Package bqdryrun validates BigQuery SQL and estimates its cost without running it.
//
// Every operation is a single BigQuery dry run: the service plans the query,
// reports the bytes it would scan, the tables it reads and the schema it would
// produce, and charges nothing. This package only shapes the request and
// reshapes the answer.
//
// # Basic Usage
//
//	ctx := context.Background()
//	client, err := bqdryrun.NewClient(ctx, "my-project", "US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	svc := bqdryrun.NewService(client)
//	res, err := svc.Validate(ctx, "SELECT 1", nil)
//	if err != nil {
//	    log.Fatal(err) // the service could not be reached
//	}
//	if !res.IsValid {
//	    fmt.Println(res.Error.Message)
//	}
//
// # Query Parameters
//
// Named parameters are given as a map of ParamValue. Whatever their kind, they
// are bound as STRING parameters, so a numeric comparison needs a cast in SQL:
//
//	params := map[string]bqdryrun.ParamValue{
//	    "corpus":    bqdryrun.StringParam("hamlet"),
//	    "min_count": bqdryrun.IntParam(10),
//	}
//	sql := "SELECT word FROM `bigquery-public-data.samples.shakespeare` " +
//	    "WHERE corpus = @corpus AND word_count > CAST(@min_count AS INT64)"
//	res, err := svc.Validate(ctx, sql, params)
//
// # Cost Estimates
//
//	price := 6.25
//	est, err := svc.Estimate(ctx, sql, params, &price)
//	// est.TotalBytesProcessed, est.USDEstimate, est.ReferencedTables, est.SchemaPreview
//
// A nil price falls back to the service default (see WithDefaultPrice) and then
// to DefaultPricePerTiB.
//
// # Error Handling
//
// Queries that BigQuery rejects while planning are not Go errors: they come back
// as a result carrying a QueryError with code INVALID_SQL. A returned Go error
// always means something other than the SQL went wrong:
//
//	res, err := svc.Validate(ctx, sql, nil)
//	if err != nil {
//	    if errors.Is(err, bqdryrun.ErrEmptySQL) {
//	        // Handle missing SQL
//	    }
//	    // network, permission or quota problem
//	}
//
// Available sentinel errors include:
//   - ErrEmptySQL
//   - ErrInvalidPrice
//   - ErrUnsupportedParam
//   - ErrCredentials
//   - ErrNoStatistics
package bqdryrun
