package checker

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/eywa/internal/domain/model"
)

// Verify checks one observation and returns every problem found.
// local must be the aggregate of events under the server's policy.
func Verify(events []model.Event, served, local model.Stats) []error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrVerification}, args...)...))
	}

	for i, e := range events {
		if e.ID != i+1 {
			fail("event at position %d has id %d, want %d", i, e.ID, i+1)
			break
		}
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			fail("event %d: %v", e.ID, err)
		}
	}

	t := served.Total
	if sum := served.Moscow.Add(served.West); sum != t {
		fail("total %+v is not the sum of branches %+v", t, sum)
	}
	if n := t.Leads + t.Payments; n != len(events) {
		fail("total counts %d events, list has %d", n, len(events))
	}
	if diff := cmp.Diff(local, served); diff != "" {
		fail("served stats differ from recomputation (-local +served):\n%s", diff)
	}
	return problems
}

// VerifyAppendOnly checks that cur extends prev without rewriting it.
func VerifyAppendOnly(prev, cur []model.Event) error {
	if len(cur) < len(prev) {
		return fmt.Errorf("%w: list shrank from %d to %d events", ErrVerification, len(prev), len(cur))
	}
	if diff := cmp.Diff(prev, cur[:len(prev)], cmp.Comparer(sameEvent)); diff != "" {
		return fmt.Errorf("%w: earlier events changed (-before +after):\n%s", ErrVerification, diff)
	}
	return nil
}

func sameEvent(a, b model.Event) bool {
	return a.ID == b.ID &&
		a.Company == b.Company &&
		a.Contact == b.Contact &&
		a.Date.Equal(b.Date) &&
		a.Kind == b.Kind &&
		a.Branch == b.Branch &&
		a.Amount.Equal(b.Amount)
}
