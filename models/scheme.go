package models

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type SchemeType string

const (
	Scheme3Months SchemeType = "3m"
	Scheme6Months SchemeType = "6m"
	Scheme1Year   SchemeType = "1y"
	Scheme5Years  SchemeType = "5y"
)

// SchemeRuleKind tags the two validation shapes: short schemes accept only a
// fixed set of amounts, long schemes accept any amount inside a range.
type SchemeRuleKind int

const (
	RuleFixedAmounts SchemeRuleKind = iota
	RuleRange
)

// SchemeRule is a tagged variant: either FixedAmounts or Min/Max is
// meaningful depending on Kind.
type SchemeRule struct {
	Kind         SchemeRuleKind
	FixedAmounts []decimal.Decimal
	Min          decimal.Decimal
	Max          decimal.Decimal
}

// Allows reports whether amount satisfies the rule.
func (r SchemeRule) Allows(amount decimal.Decimal) bool {
	switch r.Kind {
	case RuleFixedAmounts:
		for _, a := range r.FixedAmounts {
			if amount.Equal(a) {
				return true
			}
		}
		return false
	case RuleRange:
		return amount.GreaterThanOrEqual(r.Min) && amount.LessThanOrEqual(r.Max)
	}
	return false
}

// Scheme is a fixed-term investment product: the return rate and duration are
// constants of the product, not of the subscription.
type Scheme struct {
	Type       SchemeType      `json:"type"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Rule       SchemeRule      `json:"-"`
	ReturnRate decimal.Decimal `json:"return_rate"`
	Duration   time.Duration   `json:"-"`
}

func fixedAmounts(values ...int64) SchemeRule {
	amounts := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		amounts = append(amounts, decimal.NewFromInt(v))
	}
	return SchemeRule{Kind: RuleFixedAmounts, FixedAmounts: amounts}
}

func amountRange(min, max int64) SchemeRule {
	return SchemeRule{Kind: RuleRange, Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

func newScheme(t SchemeType, name string, rule SchemeRule, rate string, days int) Scheme {
	return Scheme{
		Type:       t,
		Name:       name,
		Slug:       slug.Make(name),
		Rule:       rule,
		ReturnRate: decimal.RequireFromString(rate),
		Duration:   time.Duration(days) * 24 * time.Hour,
	}
}

// Schemes is the product catalog, keyed by SchemeType.
var Schemes = map[SchemeType]Scheme{
	Scheme3Months: newScheme(Scheme3Months, "3 Months Growth", fixedAmounts(25000, 50000, 100000, 250000), "0.18", 90),
	Scheme6Months: newScheme(Scheme6Months, "6 Months Growth", fixedAmounts(50000, 100000, 250000, 500000), "0.45", 180),
	Scheme1Year:   newScheme(Scheme1Year, "1 Year Prime", amountRange(100000, 5000000), "1.20", 365),
	Scheme5Years:  newScheme(Scheme5Years, "5 Years Prime", amountRange(500000, 10000000), "7.00", 1825),
}

// SchemeFor looks up a scheme by type.
func SchemeFor(t SchemeType) (Scheme, bool) {
	s, ok := Schemes[t]
	return s, ok
}
