package server

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/require"

	"github.com/mevdschee/bqdryrun"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	level := slog.LevelWarn
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type fakePlanner struct {
	mu     sync.Mutex
	calls  int
	sql    string
	params []bigquery.QueryParameter

	stats *bigquery.JobStatistics
	err   error
}

func (f *fakePlanner) DryRun(_ context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.JobStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sql = sql
	f.params = params
	return f.stats, f.err
}

func (f *fakePlanner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func selectOneStats() *bigquery.JobStatistics {
	return &bigquery.JobStatistics{
		Details: &bigquery.QueryStatistics{
			Schema: bigquery.Schema{{Name: "f0_", Type: bigquery.IntegerFieldType}},
		},
	}
}

func testServer(t *testing.T, planner bqdryrun.Planner) *Server {
	t.Helper()
	s, err := New(Config{
		Logger:  testLogger(t),
		Service: bqdryrun.NewService(planner),
		Version: "test",
	})
	require.NoError(t, err)
	return s
}
