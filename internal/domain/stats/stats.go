// Package stats folds an event list into per-branch and total counters.
package stats

import (
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/internal/domain/scoring"
)

// Aggregate computes branch and total stats from events using policy p
// (nil means the default policy). It is a pure function of its input.
//
// Order matters for the points and must stay as is: payment points are folded
// per event, then each branch gets its lead bonus once, and only then are the
// branches summed. Total.Points is therefore the sum of already-bonused branch
// points, not a bonus computed over the combined lead count.
//
// Events are expected to be validated on append. A payment whose amount the
// policy rejects is still counted but contributes no points.
func Aggregate(events []model.Event, p *scoring.Policy) model.Stats {
	if p == nil {
		p = scoring.Default()
	}

	var moscow, west model.BranchStats
	for i := range events {
		e := &events[i]
		var bs *model.BranchStats
		switch e.Branch {
		case model.BranchMoscow:
			bs = &moscow
		case model.BranchWest:
			bs = &west
		default:
			continue
		}
		switch e.Kind {
		case model.KindLead:
			bs.Leads++
		case model.KindPayment:
			bs.Payments++
			if pts, err := p.PaymentPoints(e.Amount); err == nil {
				bs.Points += pts
			}
		}
	}

	moscow.Points += p.LeadBonus(moscow.Leads)
	west.Points += p.LeadBonus(west.Leads)

	return model.Stats{
		Moscow: moscow,
		West:   west,
		Total:  moscow.Add(west),
	}
}
