package checker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/eywa/internal/adapters/http/api"
	service "github.com/okian/eywa/internal/app"
	"github.com/okian/eywa/internal/checker"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/internal/domain/stats"
	"github.com/okian/eywa/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []model.Event {
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return []model.Event{
		{ID: 1, Date: day, Kind: model.KindLead, Branch: model.BranchMoscow},
		{ID: 2, Date: day, Kind: model.KindLead, Branch: model.BranchMoscow},
		{ID: 3, Date: day, Kind: model.KindPayment, Branch: model.BranchWest, Amount: decimal.NewFromInt(31000)},
		{ID: 4, Date: day, Kind: model.KindLead, Branch: model.BranchMoscow},
		{ID: 5, Date: day, Kind: model.KindLead, Branch: model.BranchMoscow},
	}
}

func TestVerify(t *testing.T) {
	events := sampleEvents()
	local := stats.Aggregate(events, nil)

	t.Run("consistent", func(t *testing.T) {
		assert.Empty(t, checker.Verify(events, local, local))
	})

	t.Run("served stats drift", func(t *testing.T) {
		served := local
		served.West.Points++
		served.Total.Points++
		problems := checker.Verify(events, served, local)
		require.Len(t, problems, 1)
		assert.ErrorIs(t, problems[0], checker.ErrVerification)
	})

	t.Run("total not additive", func(t *testing.T) {
		served := local
		served.Total.Points = 0
		problems := checker.Verify(events, served, local)
		assert.GreaterOrEqual(t, len(problems), 1)
	})

	t.Run("id gap", func(t *testing.T) {
		gapped := append([]model.Event{}, events...)
		gapped[2].ID = 7
		problems := checker.Verify(gapped, local, local)
		require.NotEmpty(t, problems)
		assert.Contains(t, problems[0].Error(), "position 2")
	})

	t.Run("payment without amount", func(t *testing.T) {
		broken := append([]model.Event{}, events...)
		broken[2].Amount = decimal.Zero
		problems := checker.Verify(broken, local, stats.Aggregate(broken, nil))
		require.NotEmpty(t, problems)
		assert.ErrorIs(t, problems[0], checker.ErrVerification)
	})
}

func TestVerifyAppendOnly(t *testing.T) {
	events := sampleEvents()

	assert.NoError(t, checker.VerifyAppendOnly(events[:3], events))
	assert.NoError(t, checker.VerifyAppendOnly(events, events))
	assert.ErrorIs(t, checker.VerifyAppendOnly(events, events[:2]), checker.ErrVerification)

	rewritten := append([]model.Event{}, events...)
	rewritten[0].Branch = model.BranchWest
	assert.ErrorIs(t, checker.VerifyAppendOnly(events[:2], rewritten), checker.ErrVerification)

	// Same instant in another zone is the same event.
	moved := append([]model.Event{}, events...)
	moved[0].Date = moved[0].Date.In(time.FixedZone("MSK", 3*60*60))
	assert.NoError(t, checker.VerifyAppendOnly(events, moved))
}

func liveServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New(service.WithSeed(11), service.WithInjection(false))
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(svc.Stop)

	r := chi.NewRouter()
	api.NewServer(svc, svc).Register(context.Background(), r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func TestRun_AgainstLiveService(t *testing.T) {
	srv, svc := liveServer(t)

	cfg := checker.NewConfig()
	cfg.BaseURL = srv.URL
	cfg.Rounds = 3
	cfg.Interval = 25 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for i := 0; i < 4; i++ {
			if ctx.Err() != nil {
				return
			}
			_, _ = svc.AppendGenerated(ctx)
			time.Sleep(15 * time.Millisecond)
		}
	}()

	report, err := checker.Run(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Len(t, report.Rounds, 3)
	last := report.Rounds[2]
	assert.Equal(t, last.Local, last.Served)
	assert.GreaterOrEqual(t, len(last.Events), len(report.Rounds[0].Events))
}

func TestRun_DetectsLyingServer(t *testing.T) {
	events := sampleEvents()
	lie := stats.Aggregate(events, nil)
	lie.Moscow.Points += 5
	lie.Total.Points += 5

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/leads", func(w http.ResponseWriter, _ *http.Request) { _ = json.NewEncoder(w).Encode(events) })
	r.Get("/api/stats", func(w http.ResponseWriter, _ *http.Request) { _ = json.NewEncoder(w).Encode(lie) })
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := checker.NewConfig()
	cfg.BaseURL = srv.URL
	report, err := checker.Run(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, checker.ErrVerification)
	require.NotNil(t, report)
	assert.False(t, report.OK())
}

func TestRun_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := checker.NewConfig()
	cfg.BaseURL = srv.URL
	_, err := checker.Run(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, checker.ErrUnhealthy)
	assert.ErrorIs(t, err, checker.ErrStatus)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := checker.Run(context.Background(), nil, nil)
	assert.ErrorIs(t, err, checker.ErrInvalidInput)

	cfg := checker.NewConfig()
	cfg.Rounds = 0
	_, err = checker.Run(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, checker.ErrInvalidInput)

	cfg = checker.NewConfig()
	cfg.BaseURL = ""
	_, err = checker.Run(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, checker.ErrInvalidInput)
}
