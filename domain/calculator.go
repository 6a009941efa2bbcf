package domain

import (
	"strconv"
	"strings"
)

type FieldType string

const (
	FieldNumber  FieldType = "number"
	FieldText    FieldType = "text"
	FieldSelect  FieldType = "select"
	FieldBoolean FieldType = "boolean"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes one calculator input. Min and Max are optional bounds
// for number fields; values outside them are clamped during coercion.
type FieldSpec struct {
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	DefaultValue any       `json:"defaultValue"`
	Options      []Option  `json:"options,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	Help         string    `json:"help,omitempty"`
}

type ResultFormat string

const (
	FormatCurrency ResultFormat = "currency"
	FormatNumber   ResultFormat = "number"
	FormatInteger  ResultFormat = "integer"
	FormatPercent  ResultFormat = "percent"
	FormatText     ResultFormat = "text"
)

type ResultSpec struct {
	Label  string       `json:"label"`
	Format ResultFormat `json:"format"`
}

// Result is one labeled output of a calculation. Numeric formats carry Value,
// FormatText carries Text.
type Result struct {
	Label  string       `json:"label"`
	Value  float64      `json:"value"`
	Text   string       `json:"text,omitempty"`
	Format ResultFormat `json:"format"`
}

func (r Result) IsCurrency() bool {
	return r.Format == FormatCurrency
}

// String renders the raw value: two decimals for numbers, no decimals for
// integers, the text as-is otherwise. Currency symbols are added by renderers.
func (r Result) String() string {
	switch r.Format {
	case FormatText:
		return r.Text
	case FormatInteger:
		return strconv.FormatFloat(r.Value, 'f', 0, 64)
	default:
		return strconv.FormatFloat(r.Value, 'f', 2, 64)
	}
}

// Values holds coerced field values: float64 for number fields, bool for
// boolean fields and string for text and select fields.
type Values map[string]any

func (v Values) Number(name string) float64 {
	if f, ok := v[name].(float64); ok {
		return f
	}
	return 0
}

func (v Values) Int(name string) int {
	return int(v.Number(name))
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Text(name string) string {
	s, _ := v[name].(string)
	return strings.TrimSpace(s)
}

type Calculator struct {
	Fields    []FieldSpec
	Results   []ResultSpec
	Calculate func(Values) []Result
}

// Content is the static bundle behind one calculator page.
type Content struct {
	Title       string
	Description string
	Slug        string
	Category    string
	Article     string
	Calculator  Calculator
}

// Field returns the FieldSpec named name.
func (c Content) Field(name string) (FieldSpec, bool) {
	for _, f := range c.Calculator.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
