// Package scoring defines how leads and payments turn into points.
package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Default scoring configuration constants.
const (
	defaultLeadBonusThreshold = 4
	defaultLeadBonus          = 1
)

// Sentinel kinds for scoring errors.
var (
	ErrInvalidInput   = errors.New("invalid scoring input")
	ErrNegativeAmount = fmt.Errorf("%w: negative payment amount", ErrInvalidInput)
)

// Tier awards Points to every payment whose amount is at least Min.
type Tier struct {
	Min    decimal.Decimal `koanf:"min"`
	Points int             `koanf:"points"`
}

// DefaultTiers: below 10k = 1, 10k-30k = 10, 30k-50k = 15, 50k+ = 25.
func DefaultTiers() []Tier {
	return []Tier{
		{Min: decimal.Zero, Points: 1},
		{Min: decimal.NewFromInt(10_000), Points: 10},
		{Min: decimal.NewFromInt(30_000), Points: 15},
		{Min: decimal.NewFromInt(50_000), Points: 25},
	}
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithLeadBonusThreshold sets the lead count at which a branch earns the bonus.
func WithLeadBonusThreshold(threshold int) Option {
	return func(p *Policy) {
		if threshold >= 0 {
			p.leadThreshold = threshold
		}
	}
}

// WithPaymentTiers replaces the payment tiers. Tiers are sorted by Min;
// an empty slice keeps the defaults.
func WithPaymentTiers(tiers []Tier) Option {
	return func(p *Policy) {
		if len(tiers) == 0 {
			return
		}
		p.tiers = make([]Tier, len(tiers))
		copy(p.tiers, tiers)
		sort.SliceStable(p.tiers, func(i, j int) bool {
			return p.tiers[i].Min.LessThan(p.tiers[j].Min)
		})
	}
}

// Policy holds the thresholds used for scoring. A Policy is immutable once built
// and safe for concurrent use.
type Policy struct {
	leadThreshold int
	leadBonus     int
	tiers         []Tier
}

// NewPolicy builds a Policy with the default thresholds unless overridden.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		leadThreshold: defaultLeadBonusThreshold,
		leadBonus:     defaultLeadBonus,
		tiers:         DefaultTiers(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LeadThreshold returns the lead count at which the bonus is awarded.
func (p *Policy) LeadThreshold() int { return p.leadThreshold }

// LeadBonus returns the flat bonus for a branch with leadCount leads.
// It is awarded once per branch, not once per lead.
func (p *Policy) LeadBonus(leadCount int) int {
	if leadCount >= p.leadThreshold {
		return p.leadBonus
	}
	return 0
}

// PaymentPoints maps a payment amount to points by tier.
// Negative amounts are rejected with ErrNegativeAmount.
func (p *Policy) PaymentPoints(amount decimal.Decimal) (int, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	points := 0
	for _, t := range p.tiers {
		if amount.LessThan(t.Min) {
			break
		}
		points = t.Points
	}
	return points, nil
}

var defaultPolicy = NewPolicy()

// Default returns the shared policy with the standard thresholds.
func Default() *Policy { return defaultPolicy }

// LeadBonus applies the default policy.
func LeadBonus(leadCount int) int { return defaultPolicy.LeadBonus(leadCount) }

// PaymentPoints applies the default policy.
func PaymentPoints(amount decimal.Decimal) (int, error) { return defaultPolicy.PaymentPoints(amount) }
