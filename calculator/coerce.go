package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"propcalc/domain"
)

// Warning reports a value that was adjusted during coercion.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Coerce builds typed values for fields from raw input. Exactly the field
// names end up as keys: missing entries take the field default, non-numeric
// number input becomes 0 without clamping, and out-of-range numbers are
// clamped.
func Coerce(fields []domain.FieldSpec, raw map[string]any) (domain.Values, []Warning) {
	values := make(domain.Values, len(fields))
	var warnings []Warning

	for _, f := range fields {
		in, present := raw[f.Name]
		if !present || in == nil {
			in = f.DefaultValue
		}

		switch f.Type {
		case domain.FieldNumber:
			n, ok := toNumber(in)
			if !ok {
				warnings = append(warnings, Warning{
					Field:   f.Name,
					Message: fmt.Sprintf("%s is not a number, using 0", f.Label),
				})
				values[f.Name] = 0.0
				continue
			}
			if f.Min != nil && n < *f.Min {
				warnings = append(warnings, Warning{
					Field:   f.Name,
					Message: fmt.Sprintf("%s raised to minimum %s", f.Label, trimFloat(*f.Min)),
				})
				n = *f.Min
			}
			if f.Max != nil && n > *f.Max {
				warnings = append(warnings, Warning{
					Field:   f.Name,
					Message: fmt.Sprintf("%s lowered to maximum %s", f.Label, trimFloat(*f.Max)),
				})
				n = *f.Max
			}
			values[f.Name] = n
		case domain.FieldBoolean:
			values[f.Name] = toBool(in)
		case domain.FieldSelect:
			s := toText(in)
			if !hasOption(f.Options, s) {
				def := toText(f.DefaultValue)
				if present {
					warnings = append(warnings, Warning{
						Field:   f.Name,
						Message: fmt.Sprintf("unknown option %q for %s, using %q", s, f.Label, def),
					})
				}
				s = def
			}
			values[f.Name] = s
		default:
			values[f.Name] = toText(in)
		}
	}
	return values, warnings
}

// FormValues flattens url.Values into the raw map Coerce expects, keeping the
// last value of each key. Unchecked checkboxes are absent from forms, so
// boolean fields missing from a submitted form are read as false.
func FormValues(fields []domain.FieldSpec, form url.Values, submitted bool) map[string]any {
	raw := make(map[string]any, len(form))
	for k, v := range form {
		if len(v) > 0 {
			raw[k] = v[len(v)-1]
		}
	}
	if submitted {
		for _, f := range fields {
			if _, ok := raw[f.Name]; !ok && f.Type == domain.FieldBoolean {
				raw[f.Name] = false
			}
		}
	}
	return raw
}

var numberReplacer = strings.NewReplacer("$", "", ",", "", "%", "", "_", "", " ", "")

// toNumber reports false when v cannot be read as a finite number.
func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case bool:
		if t {
			n = 1
		}
	case string:
		f, err := strconv.ParseFloat(numberReplacer.Replace(strings.TrimSpace(t)), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return trimFloat(t)
	default:
		return fmt.Sprint(t)
	}
}

func hasOption(opts []domain.Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
