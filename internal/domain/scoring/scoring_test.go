package scoring_test

import (
	"errors"
	"testing"

	scoring "github.com/okian/eywa/internal/domain/scoring"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func points(amount int64) int {
	p, err := scoring.PaymentPoints(decimal.NewFromInt(amount))
	So(err, ShouldBeNil)
	return p
}

func TestLeadBonus(t *testing.T) {
	Convey("Given the default policy", t, func() {
		Convey("When the branch has fewer than four leads", func() {
			Convey("Then no bonus is awarded", func() {
				for n := 0; n < 4; n++ {
					So(scoring.LeadBonus(n), ShouldEqual, 0)
				}
			})
		})

		Convey("When the branch has four or more leads", func() {
			Convey("Then exactly one bonus point is awarded", func() {
				for _, n := range []int{4, 5, 10, 1000} {
					So(scoring.LeadBonus(n), ShouldEqual, 1)
				}
			})
		})
	})
}

func TestPaymentPoints(t *testing.T) {
	Convey("Given the default policy", t, func() {
		Convey("When scoring amounts on the tier boundaries", func() {
			Convey("Then the exact tier values apply", func() {
				So(points(0), ShouldEqual, 1)
				So(points(1000), ShouldEqual, 1)
				So(points(9999), ShouldEqual, 1)
				So(points(10000), ShouldEqual, 10)
				So(points(29999), ShouldEqual, 10)
				So(points(30000), ShouldEqual, 15)
				So(points(49999), ShouldEqual, 15)
				So(points(50000), ShouldEqual, 25)
				So(points(100999), ShouldEqual, 25)
			})
		})

		Convey("When scoring fractional amounts just below a boundary", func() {
			p, err := scoring.PaymentPoints(decimal.RequireFromString("9999.99"))

			Convey("Then the lower tier applies", func() {
				So(err, ShouldBeNil)
				So(p, ShouldEqual, 1)
			})
		})

		Convey("When scoring increasing amounts", func() {
			Convey("Then points never decrease", func() {
				prev := 0
				for a := int64(0); a <= 120_000; a += 250 {
					p := points(a)
					So(p, ShouldBeGreaterThanOrEqualTo, prev)
					prev = p
				}
			})
		})

		Convey("When scoring a negative amount", func() {
			_, err := scoring.PaymentPoints(decimal.NewFromInt(-1))

			Convey("Then it is rejected as invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrNegativeAmount), ShouldBeTrue)
				So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestPolicyOptions(t *testing.T) {
	Convey("Given a policy with custom options", t, func() {
		Convey("When the lead threshold is lowered", func() {
			p := scoring.NewPolicy(scoring.WithLeadBonusThreshold(2))

			Convey("Then the bonus starts at the new threshold", func() {
				So(p.LeadThreshold(), ShouldEqual, 2)
				So(p.LeadBonus(1), ShouldEqual, 0)
				So(p.LeadBonus(2), ShouldEqual, 1)
			})
		})

		Convey("When a negative threshold is given", func() {
			p := scoring.NewPolicy(scoring.WithLeadBonusThreshold(-1))

			Convey("Then the default is kept", func() {
				So(p.LeadThreshold(), ShouldEqual, 4)
			})
		})

		Convey("When tiers are given out of order", func() {
			p := scoring.NewPolicy(scoring.WithPaymentTiers([]scoring.Tier{
				{Min: decimal.NewFromInt(500), Points: 5},
				{Min: decimal.Zero, Points: 2},
			}))

			Convey("Then they are applied by ascending minimum", func() {
				low, err := p.PaymentPoints(decimal.NewFromInt(499))
				So(err, ShouldBeNil)
				So(low, ShouldEqual, 2)

				high, err := p.PaymentPoints(decimal.NewFromInt(500))
				So(err, ShouldBeNil)
				So(high, ShouldEqual, 5)
			})
		})

		Convey("When an empty tier list is given", func() {
			p := scoring.NewPolicy(scoring.WithPaymentTiers(nil))

			Convey("Then the default tiers remain", func() {
				got, err := p.PaymentPoints(decimal.NewFromInt(50000))
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 25)
			})
		})
	})
}
