package bill

import "github.com/shopspring/decimal"

var half = decimal.New(5, -1)

// LineNet is qty * rate less the line discount
func LineNet(item LineItem) float64 {
	return lineNet(item).InexactFloat64()
}

func lineNet(item LineItem) decimal.Decimal {
	qty := decimal.NewFromFloat(item.Qty)
	rate := decimal.NewFromFloat(item.Rate)
	keep := decimal.New(100, 0).Sub(decimal.NewFromFloat(item.Disc)).Shift(-2)
	return qty.Mul(rate).Mul(keep)
}

// ComputeTotals sums the line items of a bill. Nothing is rounded until the
// final aggregates, which are each passed through Round2 once.
// Discounts are already part of each line net, so Discount stays zero,
// as does Rounding.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range items {
		net := lineNet(item)
		subtotal = subtotal.Add(net)
		if item.Tax != 0 {
			tax = tax.Add(net.Mul(decimal.NewFromFloat(item.Tax)).Shift(-2))
		}
	}
	discount := decimal.Zero
	rounding := decimal.Zero
	total := subtotal.Add(tax).Sub(discount).Add(rounding)

	return Totals{
		Subtotal: round2(subtotal).InexactFloat64(),
		Tax:      round2(tax).InexactFloat64(),
		Discount: round2(discount).InexactFloat64(),
		Rounding: round2(rounding).InexactFloat64(),
		Total:    round2(total).InexactFloat64(),
	}
}

// Round2 rounds x to two decimals as floor(x*100 + 0.5) / 100.
// x is taken at its shortest decimal form, so Round2(2.005) is 2.01.
// Halves of negative values round up towards zero: Round2(-2.005) is -2.
func Round2(x float64) float64 {
	return round2(decimal.NewFromFloat(x)).InexactFloat64()
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}
