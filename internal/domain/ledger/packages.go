// internal/domain/ledger/packages.go
package ledger

import "fmt"

// TokenPackage is a purchasable bundle. Bonus tokens ride along on the
// larger bundles.
type TokenPackage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Tokens      int64   `json:"tokens"`
	BonusTokens int64   `json:"bonus_tokens"`
	PriceUSD    float64 `json:"price_usd"`
}

var packages = []TokenPackage{
	{ID: "starter", Name: "Starter", Tokens: 100, BonusTokens: 0, PriceUSD: 5},
	{ID: "growth", Name: "Growth", Tokens: 500, BonusTokens: 50, PriceUSD: 20},
	{ID: "scale", Name: "Scale", Tokens: 1000, BonusTokens: 150, PriceUSD: 35},
	{ID: "max", Name: "Max", Tokens: 5000, BonusTokens: 1000, PriceUSD: 150},
}

// Packages returns the purchasable bundles, smallest first.
func Packages() []TokenPackage {
	out := make([]TokenPackage, len(packages))
	copy(out, packages)
	return out
}

// PackageByID looks up a purchasable bundle.
func PackageByID(id string) (TokenPackage, error) {
	for _, p := range packages {
		if p.ID == id {
			return p, nil
		}
	}
	return TokenPackage{}, fmt.Errorf("%w: %q", ErrUnknownPackage, id)
}
