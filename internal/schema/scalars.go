package schema

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
)

// Decimal is a fixed-point number serialized as a string with two decimals.
// Inputs may be strings, ints or floats.
var Decimal = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "Fixed-point decimal serialized as a string with two decimal places",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case decimal.Decimal:
			return v.StringFixed(2)
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			return v.StringFixed(2)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil
			}
			return d
		case float64:
			return decimal.NewFromFloat(v)
		case float32:
			return decimal.NewFromFloat32(v)
		case int:
			return decimal.NewFromInt(int64(v))
		case int64:
			return decimal.NewFromInt(v)
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch v := valueAST.(type) {
		case *ast.StringValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		case *ast.FloatValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		case *ast.IntValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		}
		return nil
	},
})

var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateTime is an ISO-8601 timestamp. Values without a zone are read as UTC.
var DateTime = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "ISO-8601 timestamp, always returned in UTC",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano)
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.UTC().Format(time.RFC3339Nano)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if t, ok := parseDateTime(s); ok {
			return t
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		if t, ok := parseDateTime(v.Value); ok {
			return t
		}
		return nil
	},
})
