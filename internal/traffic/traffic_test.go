package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/okian/devdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestParseEndpoints(t *testing.T) {
	Convey("Given endpoint lists", t, func() {
		Convey("When the list is empty", func() {
			eps, err := ParseEndpoints("")

			Convey("Then every endpoint should be selected", func() {
				So(err, ShouldBeNil)
				So(eps, ShouldResemble, AllEndpoints())
			})
		})

		Convey("When names are mixed case and repeated", func() {
			eps, err := ParseEndpoints(" Error, slow ,error,")

			Convey("Then they should be deduplicated in order", func() {
				So(err, ShouldBeNil)
				So(eps, ShouldResemble, []Endpoint{EndpointError, EndpointSlow})
			})
		})

		Convey("When a name is unknown", func() {
			_, err := ParseEndpoints("health,metrics")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrUnknownEndpoint), ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given a valid config", t, func() {
		cfg := Config{BaseURL: "http://x", Requests: 1, Workers: 1, Timeout: time.Second, Endpoints: AllEndpoints()}
		So(cfg.Validate(), ShouldBeNil)

		Convey("Then zero workers should be invalid", func() {
			cfg.Workers = 0
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then zero requests should be invalid", func() {
			cfg.Requests = 0
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

// fakeAPI answers like the demo API and remembers what it saw.
type fakeAPI struct {
	mu         sync.Mutex
	requestIDs map[string]bool
	posted     []map[string]any
	healthy    bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requestIDs[r.Header.Get(requestIDHeader)] = true
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/health":
		if !f.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/api/users" && r.Method == http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.posted = append(f.posted, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	case r.URL.Path == "/api/error":
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a healthy API", t, func() {
		api := &fakeAPI{requestIDs: map[string]bool{}, healthy: true}
		srv := httptest.NewServer(api)
		defer srv.Close()

		cfg := &Config{
			BaseURL:   srv.URL,
			Requests:  30,
			Workers:   4,
			Timeout:   time.Second,
			Endpoints: []Endpoint{EndpointHealth, EndpointCreate, EndpointError},
		}

		Convey("When traffic is run", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every request should be tallied per endpoint and status", func() {
				So(err, ShouldBeNil)
				sent, failed := stats.Total()
				So(sent, ShouldEqual, 30)
				So(failed, ShouldEqual, 0)
				So(stats.EndpointNames(), ShouldResemble, []string{"create", "error", "health"})
				So(stats.Endpoint("health").Statuses[http.StatusOK], ShouldEqual, 10)
				So(stats.Endpoint("create").Statuses[http.StatusCreated], ShouldEqual, 10)
				So(stats.Endpoint("error").Statuses[http.StatusInternalServerError], ShouldEqual, 10)
			})

			Convey("And every request should carry its own id", func() {
				api.mu.Lock()
				defer api.mu.Unlock()
				// 30 requests plus the initial health check
				So(len(api.requestIDs), ShouldEqual, 31)
				So(api.requestIDs, ShouldNotContainKey, "")
			})

			Convey("And created users should have a JSON body", func() {
				api.mu.Lock()
				defer api.mu.Unlock()
				So(len(api.posted), ShouldEqual, 10)
				So(api.posted[0], ShouldContainKey, "name")
				So(api.posted[0], ShouldContainKey, "email")
			})
		})
	})

	Convey("Given an unhealthy API", t, func() {
		api := &fakeAPI{requestIDs: map[string]bool{}}
		srv := httptest.NewServer(api)
		defer srv.Close()

		Convey("Then the run should stop before sending traffic", func() {
			stats, err := Run(context.Background(), &Config{
				BaseURL: srv.URL, Requests: 5, Workers: 1, Timeout: time.Second, Endpoints: AllEndpoints(),
			})
			So(stats, ShouldBeNil)
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given stats with mixed results", t, func() {
		s := newStats()
		s.Add(Result{Endpoint: "slow", Status: 200, Latency: 2 * time.Second})
		s.Add(Result{Endpoint: "slow", Status: 200, Latency: 4 * time.Second})
		s.Add(Result{Endpoint: "slow", Err: errors.New("timeout"), Latency: 6 * time.Second})

		Convey("Then latency and failures should be aggregated", func() {
			e := s.Endpoint("slow")
			So(e.Sent, ShouldEqual, 3)
			So(e.Failed, ShouldEqual, 1)
			So(e.Statuses, ShouldResemble, map[int]int{200: 2})
			So(e.MeanLatency(), ShouldEqual, 4*time.Second)
			So(e.MaxLatency, ShouldEqual, 6*time.Second)
		})

		Convey("Then an unknown endpoint should be empty", func() {
			So(s.Endpoint("none").Sent, ShouldEqual, 0)
		})
	})
}
