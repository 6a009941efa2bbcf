package tools

import (
	"math"
	"sort"

	"propcalc/calculator"
	"propcalc/domain"
)

type bracket struct {
	// upTo is the bracket ceiling; 0 means unbounded
	upTo float64
	rate float64
}

type threshold struct {
	from float64
	rate float64
}

// transferTaxSchedule combines the ways jurisdictions levy transfer tax.
// Every component present is added together.
type transferTaxSchedule struct {
	label    string
	flatRate float64
	// perUnit is charged for each unit of price or fraction thereof
	unit    float64
	perUnit float64
	// marginal brackets tax each slice of the price at its own rate
	marginal []bracket
	// the highest matching threshold applies to the whole price
	wholeValue []threshold
}

func (s transferTaxSchedule) tax(price float64) float64 {
	if price <= 0 {
		return 0
	}

	total := price * s.flatRate / 100

	if s.unit > 0 {
		total += math.Ceil(price/s.unit) * s.perUnit
	}

	lower := 0.0
	for _, b := range s.marginal {
		upper := b.upTo
		if upper == 0 || upper > price {
			upper = price
		}
		if upper > lower {
			total += (upper - lower) * b.rate / 100
		}
		if b.upTo == 0 || b.upTo >= price {
			break
		}
		lower = b.upTo
	}

	rate := 0.0
	for _, t := range s.wholeValue {
		if price >= t.from {
			rate = t.rate
		}
	}
	total += price * rate / 100

	return total
}

var transferTaxSchedules = map[string]transferTaxSchedule{
	"CA": {label: "California (county rate)", unit: 1000, perUnit: 1.10},
	"CO": {label: "Colorado", unit: 100, perUnit: 0.01},
	"DE": {label: "Delaware", flatRate: 4},
	"NY": {
		label: "New York State (with mansion tax)", unit: 500, perUnit: 2,
		wholeValue: []threshold{{from: 1_000_000, rate: 1}},
	},
	"PA": {label: "Pennsylvania (state + typical local)", flatRate: 2},
	"WA": {
		label: "Washington (graduated REET)",
		marginal: []bracket{
			{upTo: 525_000, rate: 1.1},
			{upTo: 1_525_000, rate: 1.28},
			{upTo: 3_025_000, rate: 2.75},
			{upTo: 0, rate: 3.0},
		},
	},
	"TX": {label: "Texas (no transfer tax)"},
}

func jurisdictionOptions() []domain.Option {
	codes := make([]string, 0, len(transferTaxSchedules))
	for code := range transferTaxSchedules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	opts := make([]domain.Option, 0, len(codes))
	for _, code := range codes {
		opts = append(opts, domain.Option{Value: code, Label: transferTaxSchedules[code].label})
	}
	return opts
}

var TransferTax = domain.Content{
	Title:       "Real Estate Transfer Tax Calculator",
	Description: "Estimate the transfer tax due on a sale and how it splits between buyer and seller.",
	Slug:        "transfer-tax",
	Category:    CategoryTaxes,
	Article: `Rates are simplified state-level schedules. Counties and cities often add
their own tax on top, so confirm with your closing agent.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("salePrice", "Sale Price", 500000),
			{
				Name: "jurisdiction", Label: "Jurisdiction", Type: domain.FieldSelect,
				DefaultValue: "CA", Options: jurisdictionOptions(),
			},
			percentField("sellerSharePercent", "Seller Pays (%)", 100, 100),
		},
		Results: []domain.ResultSpec{
			{Label: "Transfer Tax", Format: domain.FormatCurrency},
			{Label: "Effective Rate", Format: domain.FormatPercent},
			{Label: "Seller Pays", Format: domain.FormatCurrency},
			{Label: "Buyer Pays", Format: domain.FormatCurrency},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("salePrice")
			tax := transferTaxSchedules[v.Text("jurisdiction")].tax(price)
			seller := tax * v.Number("sellerSharePercent") / 100

			return []domain.Result{
				calculator.Currency("Transfer Tax", tax),
				calculator.Percent("Effective Rate", safeDiv(tax, price)*100),
				calculator.Currency("Seller Pays", seller),
				calculator.Currency("Buyer Pays", tax-seller),
			}
		},
	},
}
