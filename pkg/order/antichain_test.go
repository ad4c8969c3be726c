package order_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/order"
)

var _ = Describe("Antichain", func() {
	v00 := order.NewVersion(0, 0)
	v10 := order.NewVersion(1, 0)
	v11 := order.NewVersion(1, 1)
	v20 := order.NewVersion(2, 0)

	It("drops dominated elements on construction", func() {
		a := order.NewAntichain(v20, v11, v10)
		Expect(a.Elements()).To(ConsistOf(v10))
	})

	It("is well-formed: no two elements are comparable", func() {
		a := order.NewAntichain(v10, v01())
		for _, x := range a.Elements() {
			for _, y := range a.Elements() {
				if x.Equal(y) {
					continue
				}
				Expect(x.LessEqual(y)).To(BeFalse())
			}
		}
	})

	It("orders by frontier containment", func() {
		Expect(order.NewAntichain(v00).LessEqual(order.NewAntichain(v10))).To(BeTrue())
		Expect(order.NewAntichain(v00).Equal(order.NewAntichain(v10))).To(BeFalse())
		Expect(order.NewAntichain(v00).LessThan(order.NewAntichain(v10))).To(BeTrue())
		Expect(order.NewAntichain(v20, v11).LessThan(order.NewAntichain(v20))).To(BeTrue())
	})

	It("reports whether a version lies within its frontier", func() {
		a := order.NewAntichain(v10)
		Expect(a.LessEqualVersion(v10)).To(BeTrue())
		Expect(a.LessEqualVersion(v11)).To(BeTrue())
		Expect(a.LessEqualVersion(v00)).To(BeFalse())
	})

	It("meets two antichains to the union of their frontiers", func() {
		a := order.NewAntichain(v10)
		b := order.NewAntichain(v01())
		m := a.Meet(b)
		Expect(m.Elements()).To(ConsistOf(v10, v01()))
	})

	It("treats the empty antichain as the terminal frontier", func() {
		empty := order.NewAntichain()
		Expect(empty.IsEmpty()).To(BeTrue())
		Expect(empty.LessEqualVersion(v20)).To(BeFalse())
	})

	It("maps extend/truncate pointwise", func() {
		a := order.NewAntichain(v10, v01())
		Expect(a.Extend().Truncate()).To(Equal(a))
	})
})

func v01() order.Version { return order.NewVersion(0, 1) }
