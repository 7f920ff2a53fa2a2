package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// sequence replays fixed draws in order, wrapping around.
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestOutcomeFor(t *testing.T) {
	Convey("Given single draws", t, func() {
		Convey("Then values below 0.3 should be server errors", func() {
			So(OutcomeFor(0), ShouldEqual, OutcomeServerError)
			So(OutcomeFor(0.2999), ShouldEqual, OutcomeServerError)
		})

		Convey("And values in [0.3, 0.5) should be not found", func() {
			So(OutcomeFor(0.3), ShouldEqual, OutcomeNotFound)
			So(OutcomeFor(0.4999), ShouldEqual, OutcomeNotFound)
		})

		Convey("And values from 0.5 should succeed", func() {
			So(OutcomeFor(0.5), ShouldEqual, OutcomeSuccess)
			So(OutcomeFor(0.9999), ShouldEqual, OutcomeSuccess)
		})
	})
}

func TestErrorOutcomeDistribution(t *testing.T) {
	Convey("Given a simulator with the default random source", t, func() {
		sim := New()

		Convey("When many outcomes are drawn", func() {
			const trials = 200_000
			counts := map[Outcome]int{}
			for i := 0; i < trials; i++ {
				counts[sim.ErrorOutcome()]++
			}

			Convey("Then the split should approach 30/20/50", func() {
				So(float64(counts[OutcomeServerError])/trials, ShouldAlmostEqual, 0.3, 0.01)
				So(float64(counts[OutcomeNotFound])/trials, ShouldAlmostEqual, 0.2, 0.01)
				So(float64(counts[OutcomeSuccess])/trials, ShouldAlmostEqual, 0.5, 0.01)
			})
		})
	})
}

func TestErrorOutcomeUsesOneDraw(t *testing.T) {
	Convey("Given a source that would pick not found on a second draw", t, func() {
		src := &sequence{values: []float64{0.45, 0.1}}
		sim := New(WithSource(src))

		Convey("When one outcome is drawn", func() {
			outcome := sim.ErrorOutcome()

			Convey("Then only the first value should be consumed", func() {
				So(outcome, ShouldEqual, OutcomeNotFound)
				So(src.next, ShouldEqual, 1)
			})
		})
	})
}

func TestDelay(t *testing.T) {
	Convey("Given delay ranges", t, func() {
		Convey("Then the lower bound should be inclusive", func() {
			So(DelayFor(0, 2*time.Second, 5*time.Second), ShouldEqual, 2*time.Second)
		})

		Convey("And the upper bound should be exclusive", func() {
			d := DelayFor(0.999999, 2*time.Second, 5*time.Second)
			So(d, ShouldBeLessThan, 5*time.Second)
			So(d, ShouldBeGreaterThanOrEqualTo, 2*time.Second)
		})

		Convey("And a zero-width range should return the minimum", func() {
			So(DelayFor(0.7, time.Second, time.Second), ShouldEqual, time.Second)
		})

		Convey("And the midpoint should map linearly", func() {
			So(DelayFor(0.5, 0, time.Second), ShouldEqual, 500*time.Millisecond)
		})
	})
}

func TestWait(t *testing.T) {
	Convey("Given a simulator with a recording sleeper", t, func() {
		var slept []time.Duration
		sim := New(
			WithSource(&sequence{values: []float64{0.25}}),
			WithSleep(func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}),
		)

		Convey("When waiting on the slow range", func() {
			d, err := sim.Wait(context.Background(), 2*time.Second, 5*time.Second)

			Convey("Then the drawn delay should be slept exactly once", func() {
				So(err, ShouldBeNil)
				So(d, ShouldEqual, 2750*time.Millisecond)
				So(slept, ShouldResemble, []time.Duration{2750 * time.Millisecond})
			})
		})
	})

	Convey("Given the real sleeper and a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then sleeping should stop with the context error", func() {
			err := Sleep(ctx, time.Hour)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("And a non-positive delay should return immediately", func() {
			So(Sleep(ctx, 0), ShouldBeNil)
		})
	})
}

func TestUserID(t *testing.T) {
	Convey("Given draws at the edges of [0, 1)", t, func() {
		sim := New(WithSource(&sequence{values: []float64{0, 0.9999999, 0.5}}))

		Convey("Then ids should stay within [0, 1000)", func() {
			So(sim.UserID(), ShouldEqual, 0)
			So(sim.UserID(), ShouldEqual, 999)
			So(sim.UserID(), ShouldEqual, 500)
		})
	})
}
