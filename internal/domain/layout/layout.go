// Package layout places event markers on the tree image and shapes the
// lead popup. It only reads events; it never derives stats.
package layout

import (
	"time"

	"github.com/okian/eywa/internal/domain/model"
)

// EntranceStep is the per-marker entrance animation delay.
const EntranceStep = 100 * time.Millisecond

// Position is a CSS offset in percent. Exactly one of Left or Right is set.
type Position struct {
	Top   int `json:"top"`
	Left  int `json:"left,omitempty"`
	Right int `json:"right,omitempty"`
}

func l(top, left int) Position  { return Position{Top: top, Left: left} }
func r(top, right int) Position { return Position{Top: top, Right: right} }

// positions cover only the upper two thirds of the image.
var positions = [...]Position{
	// crown
	l(10, 25), l(12, 35), l(15, 45), r(10, 25), r(12, 35), r(15, 45),
	l(20, 20), l(25, 30), l(30, 40), r(20, 20), r(25, 30), r(30, 40),
	l(35, 25), l(40, 35), l(45, 45), r(35, 25), r(40, 35), r(45, 45),
	// trunk
	l(50, 38), l(55, 42), l(60, 46), r(50, 38), r(55, 42), r(60, 46),
	// outer edges
	l(18, 15), l(38, 15), r(18, 15), r(38, 15),
	// center line
	l(22, 50), l(28, 50), l(32, 50), l(42, 50), l(48, 50), l(52, 50), l(58, 50), l(62, 50),
}

// Slots is the number of distinct marker positions.
func Slots() int { return len(positions) }

// PositionAt returns the position for the i-th marker; positions repeat
// once every slot is taken.
func PositionAt(i int) Position {
	if i < 0 {
		i = -i
	}
	return positions[i%len(positions)]
}

// Marker is one dot on the tree.
type Marker struct {
	ID    int    `json:"id"`
	Class string `json:"class"`
	Position
	DelayMS int64 `json:"delay_ms"`
}

// Class returns the CSS class for an event: Moscow is the air tribe and
// West the water tribe.
func Class(e model.Event) string {
	tribe := "air"
	if e.Branch == model.BranchWest {
		tribe = "water"
	}
	return "dot-" + tribe + "-" + string(e.Kind)
}

// Markers returns one marker per event in list order.
func Markers(events []model.Event) []Marker {
	out := make([]Marker, 0, len(events))
	for i, e := range events {
		out = append(out, Marker{
			ID:       e.ID,
			Class:    Class(e),
			Position: PositionAt(i),
			DelayMS:  int64(i) * EntranceStep.Milliseconds(),
		})
	}
	return out
}

// Popup is what the page shows when a marker is clicked.
type Popup struct {
	ID      int    `json:"id"`
	Company string `json:"company"`
	Contact string `json:"contact"`
	Status  string `json:"status"`
	Date    string `json:"date"`
}

// Status labels.
const (
	StatusNewLead = "New lead"
	StatusPaid    = "Paid"
)

// PopupFor builds the popup card for e. Dates use the day.month.year form.
func PopupFor(e model.Event) Popup {
	status := StatusNewLead
	if e.IsPayment() {
		status = StatusPaid
	}
	return Popup{
		ID:      e.ID,
		Company: e.Company,
		Contact: e.Contact,
		Status:  status,
		Date:    e.Date.Format("02.01.2006"),
	}
}
