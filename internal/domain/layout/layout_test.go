package layout_test

import (
	"testing"
	"time"

	"github.com/okian/eywa/internal/domain/layout"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMarkers(t *testing.T) {
	Convey("Given events from both branches", t, func() {
		events := []model.Event{
			{ID: 1, Kind: model.KindLead, Branch: model.BranchMoscow},
			{ID: 2, Kind: model.KindPayment, Branch: model.BranchMoscow, Amount: decimal.NewFromInt(5000)},
			{ID: 3, Kind: model.KindLead, Branch: model.BranchWest},
			{ID: 4, Kind: model.KindPayment, Branch: model.BranchWest, Amount: decimal.NewFromInt(5000)},
		}

		Convey("When markers are computed", func() {
			ms := layout.Markers(events)

			Convey("Then each event gets its tribe class", func() {
				So(len(ms), ShouldEqual, 4)
				So(ms[0].Class, ShouldEqual, "dot-air-lead")
				So(ms[1].Class, ShouldEqual, "dot-air-payment")
				So(ms[2].Class, ShouldEqual, "dot-water-lead")
				So(ms[3].Class, ShouldEqual, "dot-water-payment")
			})

			Convey("Then ids and entrance delays follow list order", func() {
				for i, m := range ms {
					So(m.ID, ShouldEqual, events[i].ID)
					So(m.DelayMS, ShouldEqual, int64(i*100))
				}
			})

			Convey("Then the first marker sits at the first slot", func() {
				So(ms[0].Position, ShouldResemble, layout.Position{Top: 10, Left: 25})
				So(ms[3].Position, ShouldResemble, layout.Position{Top: 10, Right: 25})
			})
		})
	})

	Convey("Given more events than slots", t, func() {
		Convey("When positions are looked up past the last slot", func() {
			n := layout.Slots()

			Convey("Then they wrap around", func() {
				So(n, ShouldEqual, 36)
				So(layout.PositionAt(n), ShouldResemble, layout.PositionAt(0))
				So(layout.PositionAt(n+5), ShouldResemble, layout.PositionAt(5))
			})
		})

		Convey("When every slot is inspected", func() {
			Convey("Then all stay in the upper two thirds with one horizontal anchor", func() {
				for i := 0; i < layout.Slots(); i++ {
					p := layout.PositionAt(i)
					So(p.Top, ShouldBeBetweenOrEqual, 0, 67)
					So((p.Left == 0) != (p.Right == 0), ShouldBeTrue)
				}
			})
		})
	})
}

func TestPopupFor(t *testing.T) {
	Convey("Given a payment event", t, func() {
		e := model.Event{
			ID:      9,
			Company: "EcoSystem LLC",
			Contact: "Olga Morozova",
			Date:    time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC),
			Kind:    model.KindPayment,
			Branch:  model.BranchWest,
			Amount:  decimal.NewFromInt(12000),
		}

		Convey("When its popup is built", func() {
			p := layout.PopupFor(e)

			Convey("Then it carries the display fields", func() {
				So(p.ID, ShouldEqual, 9)
				So(p.Company, ShouldEqual, "EcoSystem LLC")
				So(p.Contact, ShouldEqual, "Olga Morozova")
				So(p.Status, ShouldEqual, layout.StatusPaid)
				So(p.Date, ShouldEqual, "07.03.2025")
			})
		})

		Convey("When the event is a lead", func() {
			e.Kind = model.KindLead
			e.Amount = decimal.Zero

			Convey("Then the status reads as a new lead", func() {
				So(layout.PopupFor(e).Status, ShouldEqual, layout.StatusNewLead)
			})
		})
	})
}
