package bqdryrun

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParamValueString(t *testing.T) {
	tests := []struct {
		name  string
		value ParamValue
		kind  ParamKind
		out   string
	}{
		{name: "zero value", value: ParamValue{}, kind: NullKind, out: "null"},
		{name: "null", value: NullParam(), kind: NullKind, out: "null"},
		{name: "string", value: StringParam("hello"), kind: StringKind, out: "hello"},
		{name: "empty string", value: StringParam(""), kind: StringKind, out: ""},
		{name: "int", value: IntParam(123), kind: IntKind, out: "123"},
		{name: "negative int", value: IntParam(-42), kind: IntKind, out: "-42"},
		{name: "max int", value: IntParam(math.MaxInt64), kind: IntKind, out: "9223372036854775807"},
		{name: "float", value: FloatParam(3.14), kind: FloatKind, out: "3.14"},
		{name: "whole float", value: FloatParam(2), kind: FloatKind, out: "2"},
		{name: "tiny float", value: FloatParam(1e-7), kind: FloatKind, out: "1e-07"},
		{name: "true", value: BoolParam(true), kind: BoolKind, out: "true"},
		{name: "false", value: BoolParam(false), kind: BoolKind, out: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.value.Kind(), tt.kind)
			}
			if got := tt.value.String(); got != tt.out {
				t.Errorf("String() = %q, want %q", got, tt.out)
			}
		})
	}
}

func TestParamFromAny(t *testing.T) {
	tests := []struct {
		name         string
		in           any
		kind         ParamKind
		out          string
		errorMessage string
	}{
		{name: "nil", in: nil, kind: NullKind, out: "null"},
		{name: "string", in: "Alice", kind: StringKind, out: "Alice"},
		{name: "bool", in: true, kind: BoolKind, out: "true"},
		{name: "json integer", in: json.Number("30"), kind: IntKind, out: "30"},
		{name: "json negative integer", in: json.Number("-7"), kind: IntKind, out: "-7"},
		{name: "json float", in: json.Number("3.14"), kind: FloatKind, out: "3.14"},
		{name: "json exponent", in: json.Number("1e3"), kind: FloatKind, out: "1e3"},
		{name: "json whole float", in: json.Number("1234567.0"), kind: FloatKind, out: "1234567.0"},
		{name: "json big integer", in: json.Number("9007199254740993"), kind: IntKind, out: "9007199254740993"},
		{name: "json integer beyond int64", in: json.Number("123456789012345678901234567890"), kind: IntKind, out: "123456789012345678901234567890"},
		{name: "json negative integer beyond int64", in: json.Number("-99999999999999999999"), kind: IntKind, out: "-99999999999999999999"},
		{name: "int", in: 42, kind: IntKind, out: "42"},
		{name: "int8", in: int8(-8), kind: IntKind, out: "-8"},
		{name: "int16", in: int16(300), kind: IntKind, out: "300"},
		{name: "int32", in: int32(-5), kind: IntKind, out: "-5"},
		{name: "int64", in: int64(7), kind: IntKind, out: "7"},
		{name: "uint", in: uint(9), kind: IntKind, out: "9"},
		{name: "uint8", in: uint8(255), kind: IntKind, out: "255"},
		{name: "uint16", in: uint16(65535), kind: IntKind, out: "65535"},
		{name: "uint32", in: uint32(4294967295), kind: IntKind, out: "4294967295"},
		{name: "uint64", in: uint64(12), kind: IntKind, out: "12"},
		{name: "max uint64", in: uint64(math.MaxUint64), kind: IntKind, out: "18446744073709551615"},
		{name: "float64", in: 2.5, kind: FloatKind, out: "2.5"},
		{name: "float32", in: float32(0.5), kind: FloatKind, out: "0.5"},
		{name: "bad json number", in: json.Number("abc"), errorMessage: `unsupported parameter value: "abc" is not a number`},
		{name: "bad json float", in: json.Number("1.2.3"), errorMessage: `unsupported parameter value: "1.2.3" is not a number`},
		{name: "object", in: map[string]any{"a": 1}, errorMessage: "unsupported parameter value: map[string]interface {}"},
		{name: "array", in: []any{"a"}, errorMessage: "unsupported parameter value: []interface {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParamFromAny(tt.in)
			if tt.errorMessage != "" {
				if err == nil {
					t.Fatalf("ParamFromAny() expected error %q, got nil", tt.errorMessage)
				}
				if !errors.Is(err, ErrUnsupportedParam) {
					t.Errorf("ParamFromAny() error = %v, want ErrUnsupportedParam", err)
				}
				if err.Error() != tt.errorMessage {
					t.Errorf("ParamFromAny() error = %q, want %q", err.Error(), tt.errorMessage)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParamFromAny() unexpected error: %v", err)
			}
			if got.Kind() != tt.kind {
				t.Errorf("ParamFromAny().Kind() = %v, want %v", got.Kind(), tt.kind)
			}
			if got.String() != tt.out {
				t.Errorf("ParamFromAny().String() = %q, want %q", got.String(), tt.out)
			}
		})
	}
}

func TestParamFromAnyFitsInt64(t *testing.T) {
	got, err := ParamFromAny(json.Number("9223372036854775807"))
	if err != nil {
		t.Fatalf("ParamFromAny() unexpected error: %v", err)
	}
	if got != IntParam(math.MaxInt64) {
		t.Errorf("ParamFromAny() = %#v, want IntParam(math.MaxInt64)", got)
	}
}

func TestParamsFromMap(t *testing.T) {
	params, err := ParamsFromMap(nil)
	if err != nil || params != nil {
		t.Errorf("ParamsFromMap(nil) = %v, %v, want nil, nil", params, err)
	}

	params, err = ParamsFromMap(map[string]any{"name": "Alice", "age": json.Number("30")})
	if err != nil {
		t.Fatalf("ParamsFromMap() unexpected error: %v", err)
	}
	if len(params) != 2 || params["name"] != StringParam("Alice") || params["age"] != IntParam(30) {
		t.Errorf("ParamsFromMap() = %v", params)
	}

	_, err = ParamsFromMap(map[string]any{"nested": map[string]any{}})
	if !errors.Is(err, ErrUnsupportedParam) {
		t.Errorf("ParamsFromMap() error = %v, want ErrUnsupportedParam", err)
	}
}

func TestBuildQueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]ParamValue
		names  []string
		values []string
	}{
		{name: "nil", params: nil},
		{name: "empty", params: map[string]ParamValue{}},
		{
			name:   "single int",
			params: map[string]ParamValue{"id": IntParam(123)},
			names:  []string{"id"},
			values: []string{"123"},
		},
		{
			name: "every kind, sorted by name",
			params: map[string]ParamValue{
				"string_param": StringParam("hello"),
				"int_param":    IntParam(42),
				"float_param":  FloatParam(3.14),
				"bool_param":   BoolParam(true),
				"none_param":   NullParam(),
			},
			names:  []string{"bool_param", "float_param", "int_param", "none_param", "string_param"},
			values: []string{"true", "3.14", "42", "null", "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQueryParameters(tt.params)
			if got == nil {
				t.Fatal("BuildQueryParameters() returned nil, want empty slice")
			}
			if len(got) != len(tt.params) {
				t.Fatalf("BuildQueryParameters() length = %d, want %d", len(got), len(tt.params))
			}
			for i, p := range got {
				if p.Name != tt.names[i] {
					t.Errorf("parameter %d name = %q, want %q", i, p.Name, tt.names[i])
				}
				// Go strings are bound as STRING parameters
				value, ok := p.Value.(string)
				if !ok {
					t.Errorf("parameter %s value type = %T, want string", p.Name, p.Value)
					continue
				}
				if value != tt.values[i] {
					t.Errorf("parameter %s value = %q, want %q", p.Name, value, tt.values[i])
				}
				if value != tt.params[p.Name].String() {
					t.Errorf("parameter %s value = %q, want %q", p.Name, value, tt.params[p.Name].String())
				}
			}
		})
	}
}
