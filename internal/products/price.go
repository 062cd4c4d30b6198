package products

import (
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed price.
const CurrencySymbol = "₺"

// PriceOption is one labelled price of a product.
type PriceOption struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Display formats the option as shown on the menu.
func (o PriceOption) Display() string {
	return FormatPrice(o.Price)
}

// FormatPrice renders a price with two decimals and the currency symbol.
func FormatPrice(price decimal.Decimal) string {
	return CurrencySymbol + price.StringFixed(2)
}

// PriceOptions returns the non-null prices of p in menu order: single,
// small, medium, large. Only NULL prices are skipped; zero is a price.
func PriceOptions(p *models.Product) []PriceOption {
	candidates := []struct {
		label string
		price *decimal.Decimal
	}{
		{"Fiyat", p.PriceSingle},
		{"Küçük", p.PriceSmall},
		{"Orta", p.PriceMedium},
		{"Büyük", p.PriceLarge},
	}

	options := make([]PriceOption, 0, len(candidates))
	for _, c := range candidates {
		if c.price != nil {
			options = append(options, PriceOption{Label: c.label, Price: *c.price})
		}
	}
	return options
}

// PriceDisplay returns the compact price shown in product lists: empty
// without prices, the formatted price when there is exactly one, and the
// first price followed by "+" when there are several.
func PriceDisplay(p *models.Product) string {
	options := PriceOptions(p)
	switch len(options) {
	case 0:
		return ""
	case 1:
		return options[0].Display()
	default:
		return options[0].Display() + "+"
	}
}
