package order_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/order"
)

var _ = Describe("Version", func() {
	v00 := order.NewVersion(0, 0)
	v10 := order.NewVersion(1, 0)
	v01 := order.NewVersion(0, 1)
	v11 := order.NewVersion(1, 1)

	It("orders componentwise", func() {
		Expect(v00.LessThan(v10)).To(BeTrue())
		Expect(v00.LessThan(v01)).To(BeTrue())
		Expect(v00.LessThan(v11)).To(BeTrue())
		Expect(v00.LessEqual(v10)).To(BeTrue())

		Expect(v10.LessThan(v10)).To(BeFalse())
		Expect(v10.LessEqual(v10)).To(BeTrue())
		Expect(v10.LessEqual(v01)).To(BeFalse())
		Expect(v01.LessEqual(v10)).To(BeFalse())
		Expect(v01.LessEqual(v11)).To(BeTrue())
	})

	It("joins to the componentwise max", func() {
		Expect(v10.Join(v01)).To(Equal(v11))
		Expect(v00.Join(v11)).To(Equal(v11))
	})

	It("meets to the componentwise min", func() {
		Expect(v10.Meet(v01)).To(Equal(v00))
	})

	It("round-trips through extend and truncate", func() {
		Expect(v10.Extend().Truncate()).To(Equal(v10))
		Expect(v10.Extend()).To(Equal(order.NewVersion(1, 0, 0)))
	})

	It("applies a step to the trailing coordinate", func() {
		Expect(v10.ApplyStep(1)).To(Equal(order.NewVersion(1, 1)))
		Expect(v10.ApplyStep(3)).To(Equal(order.NewVersion(1, 3)))
	})

	It("advances by a frontier to the least covering version", func() {
		f := order.NewAntichain(order.NewVersion(2, 0))
		Expect(v00.AdvanceBy(f)).To(Equal(order.NewVersion(2, 0)))

		empty := order.NewAntichain()
		Expect(v10.AdvanceBy(empty)).To(Equal(v10))
	})

	It("panics on mismatched arity", func() {
		Expect(func() { v00.LessEqual(order.NewVersion(0, 0, 0)) }).To(Panic())
	})
})
