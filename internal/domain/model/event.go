// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidEvent is returned when an event breaks the lead/payment invariants.
var ErrInvalidEvent = errors.New("invalid event")

// Kind distinguishes plain leads from payments.
type Kind string

// Event kinds.
const (
	KindLead    Kind = "lead"
	KindPayment Kind = "payment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindLead || k == KindPayment
}

// Branch is one of the two fixed regions events are attributed to.
type Branch string

// Branches. Moscow is rendered as the "air" tribe, West as the "water" tribe.
const (
	BranchMoscow Branch = "moscow"
	BranchWest   Branch = "west"
)

// Branches lists every branch in display order.
var Branches = []Branch{BranchMoscow, BranchWest}

// Valid reports whether b is a known branch.
func (b Branch) Valid() bool {
	return b == BranchMoscow || b == BranchWest
}

// Event is a single lead record. Payments carry a positive amount,
// plain leads carry zero.
type Event struct {
	ID      int             `json:"id"`      // 1-based, monotonically increasing
	Company string          `json:"company"` // display only
	Contact string          `json:"contact"` // display only
	Date    time.Time       `json:"date"`
	Kind    Kind            `json:"kind"`
	Branch  Branch          `json:"branch"`
	Amount  decimal.Decimal `json:"amount"`
}

// IsPayment reports whether the event is a payment.
func (e Event) IsPayment() bool { return e.Kind == KindPayment }

// Validate checks the structural invariants of an event:
// a positive id, a known kind and branch, and Amount > 0 iff Kind is payment.
func (e Event) Validate() error {
	switch {
	case e.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidEvent, e.ID)
	case !e.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	case !e.Branch.Valid():
		return fmt.Errorf("%w: unknown branch %q", ErrInvalidEvent, e.Branch)
	}
	if e.IsPayment() && !e.Amount.IsPositive() {
		return fmt.Errorf("%w: payment %d must carry a positive amount", ErrInvalidEvent, e.ID)
	}
	if !e.IsPayment() && !e.Amount.IsZero() {
		return fmt.Errorf("%w: lead %d must not carry an amount", ErrInvalidEvent, e.ID)
	}
	return nil
}
