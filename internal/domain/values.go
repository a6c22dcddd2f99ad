package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// ErrNonFiniteFloat rejects NaN and infinities, which neither compare equal to
// themselves nor encode as JSON.
var ErrNonFiniteFloat = errors.New("translatable: float value must be finite")

// ErrIntOutOfRange indicates a value that does not fit in an int64.
var ErrIntOutOfRange = errors.New("translatable: integer value out of int64 range")

// CoerceValue converts v to the canonical Go type of kind: string for string
// and text, int64 for int, float64 for float, bool for bool. Drivers and JSON
// hand back different representations of the same value; coercing on every
// boundary keeps equality checks stable. nil passes through.
func CoerceValue(kind interfaces.FieldKind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case interfaces.FieldString, interfaces.FieldText:
		switch val := v.(type) {
		case string:
			return val, nil
		case []byte:
			return string(val), nil
		case fmt.Stringer:
			return val.String(), nil
		}
	case interfaces.FieldInt:
		switch val := v.(type) {
		case int:
			return int64(val), nil
		case int8:
			return int64(val), nil
		case int16:
			return int64(val), nil
		case int32:
			return int64(val), nil
		case int64:
			return val, nil
		case uint8:
			return int64(val), nil
		case uint16:
			return int64(val), nil
		case uint32:
			return int64(val), nil
		case uint:
			return uintToInt64(uint64(val))
		case uint64:
			return uintToInt64(val)
		case float32:
			return floatToInt64(float64(val))
		case float64:
			return floatToInt64(val)
		case json.Number:
			return val.Int64()
		case []byte:
			return strconv.ParseInt(string(val), 10, 64)
		case string:
			return strconv.ParseInt(val, 10, 64)
		}
	case interfaces.FieldFloat:
		var f float64
		switch val := v.(type) {
		case float64:
			f = val
		case float32:
			f = float64(val)
		case int:
			f = float64(val)
		case int64:
			f = float64(val)
		case json.Number:
			parsed, err := val.Float64()
			if err != nil {
				return nil, err
			}
			f = parsed
		case []byte:
			parsed, err := strconv.ParseFloat(string(val), 64)
			if err != nil {
				return nil, err
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, err
			}
			f = parsed
		default:
			return nil, fmt.Errorf("cannot use %T as %s", v, kind)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNonFiniteFloat, f)
		}
		return f, nil
	case interfaces.FieldBool:
		switch val := v.(type) {
		case bool:
			return val, nil
		case int64:
			return val != 0, nil
		case int:
			return val != 0, nil
		case float64:
			return val != 0, nil
		case []byte:
			return strconv.ParseBool(string(val))
		case string:
			return strconv.ParseBool(val)
		}
	default:
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, kind)
}

func uintToInt64(v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", ErrIntOutOfRange, v)
	}
	return int64(v), nil
}

// floatToInt64 accepts integral values inside [-2^63, 2^63).
func floatToInt64(v float64) (any, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("cannot use non-integral %v as %s", v, interfaces.FieldInt)
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %v", ErrIntOutOfRange, v)
	}
	return int64(v), nil
}
