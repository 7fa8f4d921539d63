package pricing

import (
	"fmt"
	"math"
)

// Pricing is the shape-shifting pricing block of a product form. OnSale picks
// the variant: a flat Price, or an OriginalPrice/FinalPrice pair with a
// derived DiscountPercent. DiscountPercent is never accepted from input; it
// is recomputed from the two prices on every change.
type Pricing struct {
	OnSale          bool    `json:"onSale"`
	Price           float64 `json:"price,omitempty"`
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
	FinalPrice      float64 `json:"finalPrice,omitempty"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
}

// DiscountPercent derives the discount from an original/sale price pair.
// It is 0 unless both prices are positive and the sale price is actually
// lower, so it can never go negative or above 100.
func DiscountPercent(original, final float64) int {
	if original <= 0 || final <= 0 || final >= original {
		return 0
	}
	return int(math.Round((original - final) / original * 100))
}

// Flat builds the non-sale variant.
func Flat(price float64) Pricing {
	return Pricing{Price: price}
}

// Discounted builds the sale variant with the discount derived.
func Discounted(original, final float64) Pricing {
	return Pricing{
		OnSale:          true,
		OriginalPrice:   original,
		FinalPrice:      final,
		DiscountPercent: DiscountPercent(original, final),
	}
}

// Validate checks the active variant's fields.
func (p Pricing) Validate() error {
	if p.OnSale {
		if p.OriginalPrice <= 0 {
			return fmt.Errorf("original price must be greater than 0")
		}
		if p.FinalPrice <= 0 {
			return fmt.Errorf("sale price must be greater than 0")
		}
		if p.OriginalPrice <= p.FinalPrice {
			return fmt.Errorf("original price must be greater than sale price")
		}
		return nil
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	return nil
}

// Normalize clears the inactive variant's fields and recomputes the discount,
// so the stored shape always matches the OnSale flag.
func (p Pricing) Normalize() Pricing {
	if p.OnSale {
		p.Price = 0
		p.DiscountPercent = DiscountPercent(p.OriginalPrice, p.FinalPrice)
		return p
	}
	p.OriginalPrice = 0
	p.FinalPrice = 0
	p.DiscountPercent = 0
	return p
}
