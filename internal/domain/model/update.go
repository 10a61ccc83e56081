package model

// Update is what live subscribers receive after an append: the new event
// and the stats recomputed with it.
type Update struct {
	Event Event `json:"event"`
	Stats Stats `json:"stats"`
}

// Snapshot is a consistent view of the event list and the stats computed
// from exactly those events.
type Snapshot struct {
	Events []Event `json:"events"`
	Stats  Stats   `json:"stats"`
}
