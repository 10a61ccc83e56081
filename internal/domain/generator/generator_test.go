package generator_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/okian/eywa/internal/domain/generator"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

// scripted replays a fixed sequence of draws and then repeats the last one.
type scripted struct {
	vals []float64
	i    int
}

func (s *scripted) Float64() float64 {
	if s.i >= len(s.vals) {
		return s.vals[len(s.vals)-1]
	}
	v := s.vals[s.i]
	s.i++
	return v
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateOne(t *testing.T) {
	Convey("Given a generator with scripted randomness", t, func() {
		Convey("When the payment draw is above 0.7", func() {
			// branch, kind, company, contact, amount
			r := &scripted{vals: []float64{0.9, 0.71, 0.0, 0.5, 0.25}}
			g := generator.New(generator.WithRand(r), generator.WithClock(generator.FixedClock(fixedNow)))
			e := g.GenerateOne(7)

			Convey("Then a West payment dated now is produced", func() {
				So(e.ID, ShouldEqual, 8)
				So(e.Branch, ShouldEqual, model.BranchWest)
				So(e.Kind, ShouldEqual, model.KindPayment)
				So(e.Company, ShouldEqual, "NewCompany LLC")
				So(e.Contact, ShouldEqual, "Active Lead")
				So(e.Date, ShouldEqual, fixedNow)
				So(e.Amount.Equal(decimal.NewFromInt(26000)), ShouldBeTrue)
				So(e.Validate(), ShouldBeNil)
			})
		})

		Convey("When the payment draw is exactly 0.7", func() {
			r := &scripted{vals: []float64{0.1, 0.7, 0.99, 0.99}}
			g := generator.New(generator.WithRand(r), generator.WithClock(generator.FixedClock(fixedNow)))
			e := g.GenerateOne(0)

			Convey("Then a Moscow lead without amount is produced", func() {
				So(e.ID, ShouldEqual, 1)
				So(e.Branch, ShouldEqual, model.BranchMoscow)
				So(e.Kind, ShouldEqual, model.KindLead)
				So(e.Amount.IsZero(), ShouldBeTrue)
				So(e.Company, ShouldEqual, "Sole Trader NewClient")
				So(e.Validate(), ShouldBeNil)
			})
		})

		Convey("When the amount draw is at its extremes", func() {
			low := generator.New(generator.WithRand(&scripted{vals: []float64{0, 0.99, 0, 0, 0}})).GenerateOne(0)
			high := generator.New(generator.WithRand(&scripted{vals: []float64{0, 0.99, 0, 0, 0.9999999999}})).GenerateOne(0)

			Convey("Then amounts stay within [1000, 100999]", func() {
				So(low.Amount.Equal(decimal.NewFromInt(1000)), ShouldBeTrue)
				So(high.Amount.Equal(decimal.NewFromInt(100999)), ShouldBeTrue)
			})
		})
	})
}

func TestGenerateInitial(t *testing.T) {
	Convey("Given a generator with scripted randomness", t, func() {
		Convey("When the count draw is zero and every payment draw is low", func() {
			g := generator.New(
				generator.WithRand(&scripted{vals: []float64{0}}),
				generator.WithClock(generator.FixedClock(fixedNow)),
			)
			events := g.GenerateInitial()

			Convey("Then twenty Moscow leads dated now are produced", func() {
				So(len(events), ShouldEqual, 20)
				for i, e := range events {
					So(e.ID, ShouldEqual, i+1)
					So(e.Kind, ShouldEqual, model.KindLead)
					So(e.Branch, ShouldEqual, model.BranchMoscow)
					So(e.Date, ShouldEqual, fixedNow)
				}
			})
		})

		Convey("When the count draw is at the top of its range", func() {
			g := generator.New(generator.WithRand(&scripted{vals: []float64{0.999, 0.5}}))
			events := g.GenerateInitial()

			Convey("Then thirty events are produced", func() {
				So(len(events), ShouldEqual, 30)
			})
		})

		Convey("When many seeds are generated", func() {
			Convey("Then every list honors the generation contract", func() {
				for seed := int64(1); seed <= 200; seed++ {
					g := generator.New(
						generator.WithRand(rand.New(rand.NewSource(seed))), //nolint:gosec // deterministic test data
						generator.WithClock(generator.FixedClock(fixedNow)),
					)
					events := g.GenerateInitial()
					So(len(events), ShouldBeBetweenOrEqual, 20, 30)
					for i, e := range events {
						So(e.ID, ShouldEqual, i+1)
						So(e.Validate(), ShouldBeNil)
						So(e.Date.After(fixedNow.Add(-30*24*time.Hour)) || e.Date.Equal(fixedNow.Add(-30*24*time.Hour)), ShouldBeTrue)
						So(e.Date.After(fixedNow), ShouldBeFalse)
						if e.IsPayment() {
							So(e.Amount.GreaterThanOrEqual(decimal.NewFromInt(1000)), ShouldBeTrue)
							So(e.Amount.LessThanOrEqual(decimal.NewFromInt(100999)), ShouldBeTrue)
						}
					}
				}
			})
		})

		Convey("When the payment ratio is overridden", func() {
			g := generator.New(
				generator.WithRand(&scripted{vals: []float64{0, 0.5}}),
				generator.WithInitialPaymentRatio(1),
			)
			events := g.GenerateInitial()

			Convey("Then every event is a payment", func() {
				for _, e := range events {
					So(e.Kind, ShouldEqual, model.KindPayment)
				}
			})
		})
	})
}
