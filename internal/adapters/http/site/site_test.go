package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/devdash/internal/dashboard"
	"github.com/okian/devdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fixedState dashboard.State

func (f fixedState) Snapshot() dashboard.State { return dashboard.State(f) }

func testPage() Page {
	return Page{
		APIBaseURL:    "http://localhost:3001",
		MetricsURL:    "http://localhost:3001/metrics",
		GrafanaURL:    "http://localhost:3000",
		PrometheusURL: "http://localhost:9090",
		CadvisorURL:   "http://localhost:8080",
		Environment:   "Production",
		Version:       "v1.0.0",
		PollInterval:  5 * time.Second,
	}
}

func newTestMux(state dashboard.State) *http.ServeMux {
	checked := time.Date(2024, 1, 1, 14, 30, 15, 0, time.UTC)
	h, err := NewHandler(fixedState(state), testPage(), WithClock(func() time.Time { return checked }))
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	Register(context.Background(), mux, h)
	return mux
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a dashboard with polled state", t, func() {
		mux := newTestMux(dashboard.State{HealthStatus: "healthy", UptimeSecs: 3725, HasUptime: true})

		Convey("When the page is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			body := w.Body.String()

			Convey("Then it should render every card", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(body, ShouldContainSubstring, `<span id="health-status">healthy</span>`)
				So(body, ShouldContainSubstring, "Last checked: 14:30:15")
				So(body, ShouldContainSubstring, "1h 2m")
				So(body, ShouldContainSubstring, "Production")
				So(body, ShouldContainSubstring, "v1.0.0")
			})

			Convey("And it should link the monitoring tools", func() {
				for _, url := range []string{
					"http://localhost:3000",
					"http://localhost:9090",
					"http://localhost:3001/metrics",
					"http://localhost:8080",
				} {
					So(body, ShouldContainSubstring, `href="`+url+`"`)
				}
			})

			Convey("And it should offer the API test buttons", func() {
				for _, path := range []string{"/health", "/api/users", "/api/slow", "/api/error"} {
					So(body, ShouldContainSubstring, `data-path="`+path+`"`)
				}
				So(body, ShouldContainSubstring, `data-api-base="http://localhost:3001"`)
			})

			Convey("And it should refresh at the poll interval", func() {
				So(body, ShouldContainSubstring, `<meta http-equiv="refresh" content="5">`)
			})
		})

		Convey("When the state is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))

			Convey("Then it should be the JSON snapshot", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got dashboard.State
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.HealthStatus, ShouldEqual, "healthy")
				So(got.UptimeSecs, ShouldEqual, 3725.0)
			})
		})

		Convey("When a static asset is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

			Convey("Then it should be served from the embedded files", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "data-api-base")
			})
		})

		Convey("When the page template is requested as a static file", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/dashboard.html", nil))

			Convey("Then it should not be served", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldNotContainSubstring, "{{")
			})
		})

		Convey("When an unknown path is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

			Convey("Then it should be a 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a dashboard before the first poll", t, func() {
		mux := newTestMux(dashboard.State{})

		Convey("Then health should read Unknown", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			So(w.Body.String(), ShouldContainSubstring, `<span id="health-status">Unknown</span>`)
			So(w.Body.String(), ShouldContainSubstring, "0h 0m")
		})
	})
}

func TestSiteErrors(t *testing.T) {
	Convey("Given site error constants", t, func() {
		So(ErrTemplate, ShouldNotBeNil)
		So(ErrRender, ShouldNotBeNil)
		So(ErrTemplate, ShouldNotEqual, ErrRender)
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		h, err := NewHandler(fixedState{}, testPage())
		So(err, ShouldBeNil)

		Convey("Then registering should panic", func() {
			So(func() { Register(context.Background(), nil, h) }, ShouldPanic)
		})
	})
}
