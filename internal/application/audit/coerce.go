package audit

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Formatos de fecha aceptados en celdas de texto. Día antes que mes (convención colombiana).
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
}

// isBlank indica si el valor es nil o texto vacío.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// coerceString convierte cualquier valor a texto recortado; nil -> "".
func coerceString(v any) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceDecimal convierte a decimal. Vacío -> 0 sin error; no interpretable -> 0 con ok=false.
func coerceDecimal(v any) (decimal.Decimal, bool) {
	if isBlank(v) {
		return decimal.Zero, true
	}
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, true
		}
		return *x, true
	case float64:
		return decimal.NewFromFloat(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(x), " ", ""))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(n), true
}

// coerceDate convierte a fecha. Vacío -> nil sin error; no interpretable -> nil con ok=false.
func coerceDate(v any) (*time.Time, bool) {
	if isBlank(v) {
		return nil, true
	}
	switch x := v.(type) {
	case time.Time:
		return &x, true
	case *time.Time:
		return x, x != nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return &t, true
			}
		}
		if t, err := cast.ToTimeInDefaultLocationE(s, time.UTC); err == nil {
			return &t, true
		}
	}
	return nil, false
}
