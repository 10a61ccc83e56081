package injector_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/eywa/internal/adapters/injector"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type fakeAppender struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAppender) AppendGenerated(context.Context) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Event{}, f.err
	}
	f.calls++
	return model.Event{ID: f.calls, Kind: model.KindLead, Branch: model.BranchMoscow}, nil
}

func (f *fakeAppender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTick(t *testing.T) {
	convey.Convey("Given an injector with the default chance", t, func() {
		ctx := context.Background()
		app := &fakeAppender{}

		convey.Convey("When the draw is above 0.7", func() {
			inj := injector.New(app, fixedSource(0.71))
			ok, err := inj.Tick(ctx)

			convey.Convey("Then an event is appended", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(app.count(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the draw is exactly 0.7", func() {
			inj := injector.New(app, fixedSource(0.7))
			ok, err := inj.Tick(ctx)

			convey.Convey("Then nothing happens", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(app.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the appender fails", func() {
			app.err = errors.New("boom")
			inj := injector.New(app, fixedSource(0.99))
			ok, err := inj.Tick(ctx)

			convey.Convey("Then the error is returned wrapped", func() {
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(errors.Is(err, app.err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the chance is zero", func() {
			inj := injector.New(app, fixedSource(0.9999), injector.WithChance(0))
			ok, _ := inj.Tick(ctx)

			convey.Convey("Then it never injects", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a fast injector that always fires", t, func() {
		app := &fakeAppender{}
		inj := injector.New(app, fixedSource(0.5),
			injector.WithChance(1),
			injector.WithInterval(time.Millisecond),
		)
		convey.So(inj.Interval(), convey.ShouldEqual, time.Millisecond)

		convey.Convey("When it runs for a while and is shut down", func() {
			ctx := context.Background()
			go inj.Run(ctx)
			deadline := time.Now().Add(2 * time.Second)
			for app.count() < 3 && time.Now().Before(deadline) {
				time.Sleep(time.Millisecond)
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := inj.Shutdown(shutdownCtx)

			convey.Convey("Then events were appended and the loop exits", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(app.count(), convey.ShouldBeGreaterThanOrEqualTo, 3)
				convey.So(inj.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When its context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				inj.Run(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then Run returns", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("run did not return after cancel")
				}
			})
		})

		convey.Convey("When it was never started", func() {
			convey.Convey("Then Shutdown returns at once", func() {
				convey.So(inj.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})
}
