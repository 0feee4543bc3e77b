package domain

import (
	"math"
	"strings"
)

// AssetClass is an explicit enumeration of the asset classes the
// walk-forward evaluator annualizes Sharpe for. Factored out of a
// symbol-prefix regex (redesign flag) so tests can inject a
// class directly instead of relying on string matching.
type AssetClass string

const (
	AssetClassCrypto AssetClass = "crypto"
	AssetClassGold   AssetClass = "gold"
	AssetClassForex  AssetClass = "forex"
)

// forexCurrencies lists the conventional 3-letter currency codes
// that, paired with a second currency, identify a forex pair symbol
// (e.g. "EURUSD", "GBPJPY"). Gold is special-cased to "XAU"/"GOLD".
var forexCurrencies = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "JPY": true, "AUD": true,
	"CAD": true, "CHF": true, "NZD": true,
}

// InferAssetClass maps a symbol string to an AssetClass using a
// documented, explicit rule set rather than an ad-hoc regex:
//   - symbols starting with "XAU" or containing "GOLD" are gold.
//   - symbols whose first and second halves are both known forex
//     currency codes are forex.
//   - everything else defaults to crypto.
func InferAssetClass(symbol string) AssetClass {
	upper := strings.ToUpper(symbol)
	if strings.HasPrefix(upper, "XAU") || strings.Contains(upper, "GOLD") {
		return AssetClassGold
	}
	if len(upper) == 6 {
		first, second := upper[:3], upper[3:]
		if forexCurrencies[first] && forexCurrencies[second] {
			return AssetClassForex
		}
	}
	return AssetClassCrypto
}

// AnnualizationFactor returns sqrt(periods_per_year) for the asset
// class, used to annualize a per-trade Sharpe ratio.
func (a AssetClass) AnnualizationFactor() float64 {
	switch a {
	case AssetClassGold:
		return math.Sqrt(252 * 22.5)
	case AssetClassForex:
		return math.Sqrt(252 * 24)
	default: // crypto, and any unrecognized class
		return math.Sqrt(365 * 24)
	}
}
