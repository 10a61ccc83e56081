// Package generator synthesizes sample lead and payment events.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/eywa/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Constants for sample-data generation.
const (
	initialMin        = 20
	initialSpread     = 11 // initial count is initialMin + [0, initialSpread)
	historyWindow     = 30 * 24 * time.Hour
	amountSpread      = 100_000
	amountBase        = 1_000
	initialPaymentCut = 0.6 // payment when r > cut, i.e. probability 0.4
	newPaymentCut     = 0.7 // probability 0.3
)

// Rand is a uniform source in [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock stuck at one instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Sample pools for the initial population.
var (
	initialCompanies = []string{
		`Techno Innovations LLC`, `StroyGarant JSC`, `Sole Trader Ivanov A.A.`,
		`MediaGroup LLC`, `FinanceTrade JSC`, `EcoSystem LLC`,
		`Sole Trader Petrova M.V.`, `LogisticPro LLC`, `TelecomService JSC`,
		`RetailMarket LLC`, `Sole Trader Sidorov K.L.`, `Promyshlennik JSC`,
	}
	initialContacts = []string{
		"Anna Smirnova", "Dmitry Kozlov", "Elena Volkova", "Mikhail Novikov",
		"Olga Morozova", "Sergey Lebedev", "Tatiana Sokolova", "Alexey Popov",
		"Natalia Fedorova", "Vladimir Medvedev", "Irina Zakharova", "Andrey Semenov",
	}

	// Placeholder pools used for periodically injected events.
	newCompanies = []string{`NewCompany LLC`, `Startup Inc JSC`, `Sole Trader NewClient`}
	newContacts  = []string{"New Contact", "Active Lead", "Potential Client"}
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithClock sets the clock used for event dates.
func WithClock(c Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithInitialPaymentRatio sets the payment probability for the initial population.
func WithInitialPaymentRatio(ratio float64) Option {
	return func(g *Generator) {
		if ratio >= 0 && ratio <= 1 {
			g.initialPaymentCut = 1 - ratio
		}
	}
}

// WithNewPaymentRatio sets the payment probability for injected events.
func WithNewPaymentRatio(ratio float64) Option {
	return func(g *Generator) {
		if ratio >= 0 && ratio <= 1 {
			g.newPaymentCut = 1 - ratio
		}
	}
}

// Generator produces sample events. It is not safe for concurrent use;
// callers serialize access (the app state container does so under its lock).
type Generator struct {
	rng               Rand
	clock             Clock
	initialPaymentCut float64
	newPaymentCut     float64
}

// New creates a Generator. Without options it uses a time-seeded source
// and the wall clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sample data only
		clock:             SystemClock(),
		initialPaymentCut: initialPaymentCut,
		newPaymentCut:     newPaymentCut,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateInitial produces between 20 and 30 events dated within the last
// 30 days, with ids 1..n in generation order.
func (g *Generator) GenerateInitial() []model.Event {
	now := g.clock.Now()
	n := initialMin + g.intn(initialSpread)
	events := make([]model.Event, 0, n)
	for i := 0; i < n; i++ {
		branch := g.branch()
		kind := g.kind(g.initialPaymentCut)
		e := model.Event{
			ID:      i + 1,
			Company: pick(g, initialCompanies),
			Contact: pick(g, initialContacts),
			Kind:    kind,
			Branch:  branch,
		}
		e.Date = now.Add(-time.Duration(g.rng.Float64() * float64(historyWindow)))
		e.Amount = g.amount(kind)
		events = append(events, e)
	}
	return events
}

// GenerateOne produces the next event for a list that already holds
// existingCount events. It is dated now.
func (g *Generator) GenerateOne(existingCount int) model.Event {
	branch := g.branch()
	kind := g.kind(g.newPaymentCut)
	e := model.Event{
		ID:      existingCount + 1,
		Company: pick(g, newCompanies),
		Contact: pick(g, newContacts),
		Date:    g.clock.Now(),
		Kind:    kind,
		Branch:  branch,
	}
	e.Amount = g.amount(kind)
	return e
}

// Float64 exposes the underlying source so collaborators (the injector)
// share one random stream.
func (g *Generator) Float64() float64 { return g.rng.Float64() }

func (g *Generator) intn(n int) int {
	i := int(math.Floor(g.rng.Float64() * float64(n)))
	if i >= n { // guards sources that return exactly 1.0
		i = n - 1
	}
	return i
}

func (g *Generator) branch() model.Branch {
	return model.Branches[g.intn(len(model.Branches))]
}

func (g *Generator) kind(cut float64) model.Kind {
	if g.rng.Float64() > cut {
		return model.KindPayment
	}
	return model.KindLead
}

// amount is floor(r*100000)+1000 for payments and zero for leads.
func (g *Generator) amount(kind model.Kind) decimal.Decimal {
	if kind != model.KindPayment {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(g.intn(amountSpread) + amountBase))
}

func pick(g *Generator, pool []string) string {
	return pool[g.intn(len(pool))]
}
