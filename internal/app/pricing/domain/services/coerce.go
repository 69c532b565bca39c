package services

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

var (
	errMissing   = errors.New("is required")
	errNonFinite = errors.New("must be a finite number")
)

// timeLayouts are tried in order when a timestamp arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *time.Time:
		return x == nil
	case *decimal.Decimal:
		return x == nil
	case *string:
		return x == nil
	}
	return false
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		return *x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, errNonFinite
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, errNonFinite
		}
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int8:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(x)), nil
	case uint16:
		return decimal.NewFromInt(int64(x)), nil
	case uint32:
		return decimal.NewFromInt(int64(x)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), nil
	case *big.Rat:
		if x == nil {
			return decimal.Zero, errMissing
		}
		return parseDecimal(x.FloatString(9))
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case []byte:
		return parseDecimal(string(x))
	}
	return decimal.Zero, errors.Newf("has unsupported type %T", v)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errMissing
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNonFinite
	}
	return d, nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case *bool:
		if x == nil {
			return false, errMissing
		}
		return *x, nil
	case int:
		return intBool(int64(x))
	case int32:
		return intBool(int64(x))
	case int64:
		return intBool(x)
	case float64:
		if x == 0 || x == 1 {
			return x == 1, nil
		}
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err == nil {
			return b, nil
		}
	case []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(string(x)))
		if err == nil {
			return b, nil
		}
	}
	return false, errors.Newf("has unsupported type %T", v)
}

func intBool(i int64) (bool, error) {
	switch i {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Newf("%d is not a boolean", i)
}

func toTime(v any) (*time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		t := x.UTC()
		return &t, nil
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil, nil
		}
		t := x.UTC()
		return &t, nil
	case string:
		return parseTime(x)
	case []byte:
		return parseTime(string(x))
	}
	return nil, errors.Newf("has unsupported type %T", v)
}

func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.Newf("%q is not a recognized timestamp", s)
}

func toText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), nil
	case *string:
		return strings.TrimSpace(*x), nil
	case []byte:
		return strings.TrimSpace(string(x)), nil
	case fmt.Stringer:
		return strings.TrimSpace(x.String()), nil
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", errNonFinite
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	}
	return "", errors.Newf("has unsupported type %T", v)
}
