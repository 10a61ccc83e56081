package model

// BranchStats is the derived counter set for one branch (or the total).
type BranchStats struct {
	Leads    int `json:"leads"`
	Payments int `json:"payments"`
	Points   int `json:"points"`
}

// Add returns the elementwise sum of s and o.
func (s BranchStats) Add(o BranchStats) BranchStats {
	return BranchStats{
		Leads:    s.Leads + o.Leads,
		Payments: s.Payments + o.Payments,
		Points:   s.Points + o.Points,
	}
}

// Stats is a full snapshot of derived counters. It owns no state of its own
// and is always recomputed from the event list.
type Stats struct {
	Moscow BranchStats `json:"moscow"`
	West   BranchStats `json:"west"`
	Total  BranchStats `json:"total"`
}

// Branch returns the counters for b. Unknown branches yield zero counters.
func (s Stats) Branch(b Branch) BranchStats {
	switch b {
	case BranchMoscow:
		return s.Moscow
	case BranchWest:
		return s.West
	default:
		return BranchStats{}
	}
}
