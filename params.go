package bqdryrun

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
)

// ErrUnsupportedParam is returned when a parameter value is not a string,
// number, boolean or null.
var ErrUnsupportedParam = errors.New("unsupported parameter value")

// ParamType is the BigQuery type every query parameter is bound as.
const ParamType = bigquery.StringFieldType

// ParamKind identifies which primitive a ParamValue holds.
type ParamKind int

// Kinds of ParamValue.
const (
	NullKind ParamKind = iota
	StringKind
	IntKind
	FloatKind
	BoolKind
)

func (k ParamKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	}
	return "ParamKind(" + strconv.Itoa(int(k)) + ")"
}

// ParamValue is a user supplied query parameter value. The zero value is null.
//
// Numbers that came from JSON and do not fit an int64 keep their literal
// text in s, so they render exactly as the client wrote them.
type ParamValue struct {
	kind ParamKind
	s    string
	i    int64
	f    float64
	b    bool
}

// NullParam returns the null value.
func NullParam() ParamValue { return ParamValue{} }

// StringParam returns a string value.
func StringParam(s string) ParamValue { return ParamValue{kind: StringKind, s: s} }

// IntParam returns an integer value.
func IntParam(i int64) ParamValue { return ParamValue{kind: IntKind, i: i} }

// FloatParam returns a floating point value.
func FloatParam(f float64) ParamValue { return ParamValue{kind: FloatKind, f: f} }

// BoolParam returns a boolean value.
func BoolParam(b bool) ParamValue { return ParamValue{kind: BoolKind, b: b} }

// Kind reports which primitive p holds.
func (p ParamValue) Kind() ParamKind { return p.kind }

// String renders the value the way it is bound to the query:
//   - strings as is
//   - integers in base 10
//   - floats as the shortest decimal that round-trips
//   - JSON numbers outside the int64 range as written
//   - booleans as true or false
//   - null as null
func (p ParamValue) String() string {
	switch p.kind {
	case StringKind:
		return p.s
	case IntKind:
		if p.s != "" {
			return p.s
		}
		return strconv.FormatInt(p.i, 10)
	case FloatKind:
		if p.s != "" {
			return p.s
		}
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(p.b)
	}
	return "null"
}

// ParamFromAny converts a decoded JSON value (or a Go primitive) to a ParamValue.
// JSON numbers decoded with UseNumber keep their digits.
func ParamFromAny(v any) (ParamValue, error) {
	switch v := v.(type) {
	case nil:
		return NullParam(), nil
	case string:
		return StringParam(v), nil
	case bool:
		return BoolParam(v), nil
	case json.Number:
		return numberParam(v)
	case int:
		return IntParam(int64(v)), nil
	case int8:
		return IntParam(int64(v)), nil
	case int16:
		return IntParam(int64(v)), nil
	case int32:
		return IntParam(int64(v)), nil
	case int64:
		return IntParam(v), nil
	case uint:
		return uintParam(uint64(v)), nil
	case uint8:
		return IntParam(int64(v)), nil
	case uint16:
		return IntParam(int64(v)), nil
	case uint32:
		return IntParam(int64(v)), nil
	case uint64:
		return uintParam(v), nil
	case float32:
		return FloatParam(float64(v)), nil
	case float64:
		return FloatParam(v), nil
	}
	return ParamValue{}, fmt.Errorf("%w: %T", ErrUnsupportedParam, v)
}

func uintParam(u uint64) ParamValue {
	if u > math.MaxInt64 {
		return ParamValue{kind: IntKind, s: strconv.FormatUint(u, 10)}
	}
	return IntParam(int64(u))
}

func numberParam(n json.Number) (ParamValue, error) {
	if i, err := n.Int64(); err == nil {
		return IntParam(i), nil
	}
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if _, ok := new(big.Int).SetString(lit, 10); ok {
			return ParamValue{kind: IntKind, s: lit}, nil
		}
	} else if f, err := n.Float64(); err == nil {
		return ParamValue{kind: FloatKind, f: f, s: lit}, nil
	}
	return ParamValue{}, fmt.Errorf("%w: %q is not a number", ErrUnsupportedParam, lit)
}

// ParamsFromMap converts every value of m with ParamFromAny.
// A nil map yields a nil map.
func ParamsFromMap(m map[string]any) (map[string]ParamValue, error) {
	if m == nil {
		return nil, nil
	}
	params := make(map[string]ParamValue, len(m))
	for name, v := range m {
		p, err := ParamFromAny(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		params[name] = p
	}
	return params, nil
}

// BuildQueryParameters turns named values into BigQuery query parameters.
// Every value is bound as a Go string, which BigQuery types as STRING; the
// dry run only needs type-correct placeholders to plan the query.
// The result has one parameter per entry, ordered by name.
func BuildQueryParameters(params map[string]ParamValue) []bigquery.QueryParameter {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]bigquery.QueryParameter, 0, len(names))
	for _, name := range names {
		result = append(result, bigquery.QueryParameter{
			Name:  name,
			Value: params[name].String(),
		})
	}
	return result
}
