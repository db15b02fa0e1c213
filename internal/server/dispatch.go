package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mevdschee/bqdryrun"
)

var (
	// ErrUnknownTool is returned when a call names a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMissingSQL is returned when a call has no sql argument.
	ErrMissingSQL = errors.New("missing required argument: sql")

	// ErrInvalidArguments is returned when the arguments cannot be decoded.
	ErrInvalidArguments = errors.New("invalid arguments")
)

type toolArgs struct {
	SQL         *string        `json:"sql"`
	Params      map[string]any `json:"params"`
	PricePerTiB *float64       `json:"pricePerTiB"`
}

// Dispatcher routes tool calls to a bqdryrun.Service.
type Dispatcher struct {
	svc *bqdryrun.Service
}

// NewDispatcher returns a Dispatcher backed by svc.
func NewDispatcher(svc *bqdryrun.Service) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// Dispatch decodes args and routes the call to the operation behind the tool.
// The result is a bqdryrun.ValidationResult or a bqdryrun.DryRunResult.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	if name != ValidateSQLTool && name != DryRunSQLTool {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	in, params, err := decodeArgs(args)
	if err != nil {
		return nil, err
	}

	switch name {
	case ValidateSQLTool:
		return d.svc.Validate(ctx, *in.SQL, params)
	default:
		return d.svc.Estimate(ctx, *in.SQL, params, in.PricePerTiB)
	}
}

func decodeArgs(args json.RawMessage) (toolArgs, map[string]bqdryrun.ParamValue, error) {
	var in toolArgs
	if len(bytes.TrimSpace(args)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(args))
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil {
			return toolArgs{}, nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return toolArgs{}, nil, fmt.Errorf("%w: unexpected data after arguments", ErrInvalidArguments)
		}
	}
	if in.SQL == nil || strings.TrimSpace(*in.SQL) == "" {
		return toolArgs{}, nil, ErrMissingSQL
	}
	params, err := bqdryrun.ParamsFromMap(in.Params)
	if err != nil {
		return toolArgs{}, nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return in, params, nil
}
