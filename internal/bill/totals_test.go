package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleItems() []LineItem {
	return []LineItem{
		{Desc: "BLOCK SCREW A - EX5CLASS", SKU: "D0054", Qty: 20, Unit: "PC", Rate: 4.5},
		{Desc: "METER ASSY TCB - Y15ZR V2 (2PV)", SKU: "3F0236", Qty: 2, Unit: "SET", Rate: 175},
		{Desc: "CLIP PANEL - WAVE", SKU: "W0088", Qty: 10, Unit: "PC", Rate: 1.8},
		{Desc: "HOSE BREATHER - EX5", SKU: "H0136", Qty: 12, Unit: "PC", Rate: 3.2},
	}
}

var _ = Describe("LineNet", func() {
	It("should be qty times rate without a discount", func() {
		Expect(LineNet(LineItem{Qty: 3, Rate: 2.5})).To(Equal(7.5))
		Expect(LineNet(LineItem{Qty: 12, Rate: 3.2})).To(Equal(38.4))
	})

	It("should fall as the discount grows and reach zero at 100", func() {
		previous := LineNet(LineItem{Qty: 4, Rate: 25})
		for _, disc := range []float64{10, 25, 50, 75, 99.5} {
			net := LineNet(LineItem{Qty: 4, Rate: 25, Disc: disc})
			Expect(net).To(BeNumerically("<", previous))
			previous = net
		}
		Expect(LineNet(LineItem{Qty: 4, Rate: 25, Disc: 100})).To(BeZero())
	})

	It("should accept out of range input", func() {
		Expect(LineNet(LineItem{Qty: -2, Rate: 5})).To(Equal(-10.0))
		Expect(LineNet(LineItem{Qty: 1, Rate: 10, Disc: 150})).To(Equal(-5.0))
	})
})

var _ = Describe("Round2", func() {
	It("should round halves up", func() {
		Expect(Round2(2.005)).To(Equal(2.01))
		Expect(Round2(1.125)).To(Equal(1.13))
	})

	It("should round below the half down", func() {
		Expect(Round2(2.004)).To(Equal(2.0))
	})

	It("should keep the floor formula for negative values", func() {
		Expect(Round2(-2.005)).To(Equal(-2.0))
		Expect(Round2(-2.006)).To(Equal(-2.01))
	})

	It("should leave two decimal values alone", func() {
		Expect(Round2(496.4)).To(Equal(496.4))
		Expect(Round2(0)).To(BeZero())
	})
})

var _ = Describe("ComputeTotals", func() {
	var (
		items  []LineItem
		totals Totals
	)

	JustBeforeEach(func() {
		totals = ComputeTotals(items)
	})

	When("computing the sample bill", func() {
		BeforeEach(func() {
			items = sampleItems()
		})

		It("should sum the line nets", func() {
			Expect(totals).To(Equal(Totals{Subtotal: 496.4, Tax: 0, Discount: 0, Rounding: 0, Total: 496.4}))
		})
	})

	When("there are no items", func() {
		BeforeEach(func() {
			items = nil
		})

		It("should return all zero totals", func() {
			Expect(totals).To(Equal(Totals{}))
		})
	})

	When("an item carries a discount and tax", func() {
		BeforeEach(func() {
			items = []LineItem{{Qty: 1, Rate: 100, Disc: 10, Tax: 8}}
		})

		It("should tax the discounted amount", func() {
			Expect(totals.Subtotal).To(Equal(90.0))
			Expect(totals.Tax).To(Equal(7.2))
			Expect(totals.Total).To(Equal(97.2))
		})

		It("should keep discount and rounding at zero", func() {
			Expect(totals.Discount).To(BeZero())
			Expect(totals.Rounding).To(BeZero())
		})
	})

	When("only some items are taxed", func() {
		BeforeEach(func() {
			items = []LineItem{
				{Qty: 2, Rate: 50, Tax: 10},
				{Qty: 1, Rate: 1000, Tax: 0},
			}
		})

		It("should only tax the taxed lines", func() {
			Expect(totals.Subtotal).To(Equal(1100.0))
			Expect(totals.Tax).To(Equal(10.0))
			Expect(totals.Total).To(Equal(1110.0))
		})
	})

	When("line amounts have fractions of a cent", func() {
		BeforeEach(func() {
			items = []LineItem{
				{Qty: 1, Rate: 0.004},
				{Qty: 1, Rate: 0.004},
				{Qty: 1, Rate: 0.004},
			}
		})

		It("should round once at the end", func() {
			Expect(totals.Subtotal).To(Equal(0.01))
			Expect(totals.Total).To(Equal(0.01))
		})

		It("should match rounding the raw sums", func() {
			var subtotalRaw, taxRaw float64
			for _, it := range items {
				net := it.Qty * it.Rate * (1 - it.Disc/100)
				subtotalRaw += net
				taxRaw += net * it.Tax / 100
			}
			Expect(totals.Total).To(Equal(Round2(subtotalRaw + taxRaw)))
		})
	})

	When("computing a mixed bill", func() {
		BeforeEach(func() {
			items = []LineItem{
				{Qty: 3, Rate: 19.99, Disc: 12.5, Tax: 6},
				{Qty: 0.75, Rate: 8.4, Tax: 10},
				{Qty: 7, Rate: 1.15, Disc: 3},
			}
		})

		It("should satisfy total = subtotal + tax - discount + rounding", func() {
			sum := totals.Subtotal + totals.Tax - totals.Discount + totals.Rounding
			Expect(totals.Total).To(BeNumerically("~", sum, 0.01))
		})
	})

	It("should not modify the items", func() {
		items = sampleItems()
		before := sampleItems()
		ComputeTotals(items)
		Expect(items).To(Equal(before))
	})
})
