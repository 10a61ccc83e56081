package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/internal/domain/scoring"
	"github.com/okian/eywa/internal/domain/stats"
	"github.com/okian/eywa/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run executes the check against a running service. It returns a report
// even when verification fails; the error then wraps ErrVerification.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Report, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	report := &Report{StartTime: time.Now()}
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	policy := scoring.NewPolicy(scoring.WithLeadBonusThreshold(cfg.LeadBonusThreshold))

	log.Info(ctx, "starting eywa check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("rounds", cfg.Rounds),
		logger.Duration("interval", cfg.Interval),
	)

	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Rounds; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}

		round, problems, err := observe(ctx, client, policy)
		if err != nil {
			return report, fmt.Errorf("round %d: %w", i+1, err)
		}
		if i > 0 {
			prev := report.Rounds[i-1].Events
			if err := VerifyAppendOnly(prev, round.Events); err != nil {
				problems = append(problems, err)
			}
		}
		report.Rounds = append(report.Rounds, round)
		report.Problems = append(report.Problems, problems...)

		log.Info(ctx, "round verified",
			logger.Int("round", i+1),
			logger.Int("events", len(round.Events)),
			logger.Int("totalPoints", round.Served.Total.Points),
			logger.Int("problems", len(problems)),
		)
		if cfg.Verbose {
			for _, p := range problems {
				log.Warn(ctx, "check failed", logger.Error(p))
			}
		}
	}

	report.Duration = time.Since(report.StartTime)
	if !report.OK() {
		return report, errors.Join(report.Problems...)
	}
	log.Info(ctx, "all checks passed", logger.Duration("duration", report.Duration))
	return report, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidInput)
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: empty base url", ErrInvalidInput)
	case cfg.Rounds < 1:
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidInput, cfg.Rounds)
	case cfg.LeadBonusThreshold < 0:
		return fmt.Errorf("%w: negative lead threshold", ErrInvalidInput)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	if _, err := client.get(ctx, "/healthz"); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// observe fetches the list and the stats in parallel. An append can land
// between the two reads, so a mismatch is retried before it is reported.
func observe(ctx context.Context, client *HTTPClient, policy *scoring.Policy) (Round, []error, error) {
	var (
		round    Round
		problems []error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var events []model.Event
		var served model.Stats

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return client.getJSON(gctx, "/api/leads", &events) })
		g.Go(func() error { return client.getJSON(gctx, "/api/stats", &served) })
		if err := g.Wait(); err != nil {
			return Round{}, nil, err
		}

		round = Round{Events: events, Served: served, Local: stats.Aggregate(events, policy)}
		problems = Verify(round.Events, round.Served, round.Local)
		if len(problems) == 0 {
			break
		}
	}
	return round, problems, nil
}
