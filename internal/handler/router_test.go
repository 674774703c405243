package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/oliveagle/jsonpath"

	"github.com/dandantas/keepwarm/internal/handler"
	"github.com/dandantas/keepwarm/internal/model"
	"github.com/dandantas/keepwarm/internal/scheduler"
	"github.com/dandantas/keepwarm/internal/service"
	"github.com/dandantas/keepwarm/internal/store"
	"github.com/dandantas/keepwarm/pkg/middleware"
)

type runningProbe struct{ running bool }

func (p runningProbe) Running() bool { return p.running }

// lookup decodes a JSON object body and evaluates a JSONPath expression on it
func lookup(body []byte, path string) interface{} {
	var doc interface{}
	ExpectWithOffset(1, json.Unmarshal(body, &doc)).To(Succeed())

	value, err := jsonpath.JsonPathLookup(doc, path)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return value
}

func get(url string) (*http.Response, []byte) {
	resp, err := http.Get(url)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return resp, body
}

func post(url string) (*http.Response, []byte) {
	resp, err := http.Post(url, "application/json", nil)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return resp, body
}

var _ = Describe("Router", func() {
	var (
		target     *httptest.Server
		assets     *httptest.Server
		api        *httptest.Server
		state      *scheduler.State
		targetCode atomic.Int64
		assetsURL  string
	)

	BeforeEach(func() {
		targetCode.Store(http.StatusOK)
		target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(int(targetCode.Load()))
		}))

		assets = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("X-Asset-Path", r.URL.Path)
			w.Write([]byte("<html>dashboard</html>"))
		}))
		assetsURL = assets.URL
	})

	JustBeforeEach(func() {
		state = scheduler.NewState(store.NewPingLog(store.DefaultCapacity), time.Now(), scheduler.RandomInterval)
		pinger := service.NewPinger(service.NewHTTPClient(0), "test-agent", 5*time.Second)
		executor := service.NewExecutor(pinger, state, target.URL)

		assetHandler, err := handler.NewAssetHandler(assetsURL)
		Expect(err).NotTo(HaveOccurred())

		router := handler.NewRouter(
			handler.NewPingHandler(state, executor),
			handler.NewStatusHandler(state, target.URL, "*/1 * * * *"),
			handler.NewChartHandler(state),
			handler.NewHealthHandler(runningProbe{running: true}, true, "test"),
			assetHandler,
			middleware.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET, POST", AllowedHeaders: "*"},
		)
		api = httptest.NewServer(router.Handler())
	})

	AfterEach(func() {
		api.Close()
		assets.Close()
		target.Close()
	})

	Describe("GET /api/ping-logs", func() {
		It("should return an empty JSON array before any ping", func() {
			resp, body := get(api.URL + "/api/ping-logs")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(strings.TrimSpace(string(body))).To(Equal("[]"))
		})

		It("should list pings newest first", func() {
			_, first := post(api.URL + "/api/manual-ping")
			_, second := post(api.URL + "/api/manual-ping")

			_, body := get(api.URL + "/api/ping-logs")

			var logs []model.PingRecord
			Expect(json.Unmarshal(body, &logs)).To(Succeed())
			Expect(logs).To(HaveLen(2))
			Expect(logs[0].ID).To(Equal(lookup(second, "$.id")))
			Expect(logs[1].ID).To(Equal(lookup(first, "$.id")))
		})

		It("should return identical data on repeated reads", func() {
			post(api.URL + "/api/manual-ping")

			_, a := get(api.URL + "/api/ping-logs")
			_, b := get(api.URL + "/api/ping-logs")
			Expect(a).To(Equal(b))
		})

		It("should reject other methods", func() {
			resp, _ := post(api.URL + "/api/ping-logs")
			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
		})
	})

	Describe("GET /api/status", func() {
		It("should describe the schedule before the first ping", func() {
			resp, body := get(api.URL + "/api/status")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.isRunning")).To(BeTrue())
			Expect(lookup(body, "$.targetUrl")).To(Equal(target.URL))
			Expect(lookup(body, "$.cronSchedule")).To(Equal("*/1 * * * *"))
			Expect(lookup(body, "$.message")).To(Equal("Pinging every 10-14 minutes (randomized)"))
			var status model.Status
			Expect(json.Unmarshal(body, &status)).To(Succeed())
			Expect(status.LastPingTime).To(BeNil())
			Expect(string(body)).To(ContainSubstring(`"lastPingTime":null`))
			Expect(lookup(body, "$.nextPingTime")).To(Equal(model.FormatTimestamp(state.NextPingAt())))

			seconds := lookup(body, "$.nextPingInSeconds")
			Expect(seconds).To(BeNumerically(">=", 599))
			Expect(seconds).To(BeNumerically("<", 840))
		})

		It("should report the last ping time after a manual ping", func() {
			_, record := post(api.URL + "/api/manual-ping")

			_, body := get(api.URL + "/api/status")
			Expect(lookup(body, "$.lastPingTime")).To(Equal(lookup(record, "$.timestamp")))
		})

		It("should be stable between pings", func() {
			_, a := get(api.URL + "/api/status")
			_, b := get(api.URL + "/api/status")

			Expect(lookup(a, "$.nextPingTime")).To(Equal(lookup(b, "$.nextPingTime")))
			Expect(lookup(a, "$.targetUrl")).To(Equal(lookup(b, "$.targetUrl")))
		})
	})

	Describe("POST /api/manual-ping", func() {
		It("should return the ping record", func() {
			resp, body := post(api.URL + "/api/manual-ping")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.success")).To(BeTrue())
			Expect(lookup(body, "$.status")).To(Equal("200"))
			Expect(lookup(body, "$.url")).To(Equal(target.URL))
			Expect(string(body)).NotTo(ContainSubstring(`"error"`))
		})

		It("should return 200 even when the target fails", func() {
			targetCode.Store(http.StatusBadGateway)

			resp, body := post(api.URL + "/api/manual-ping")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.success")).To(BeFalse())
			Expect(lookup(body, "$.status")).To(Equal("502"))
		})

		It("should return 200 with an ERROR record when the target is down", func() {
			target.Close()

			resp, body := post(api.URL + "/api/manual-ping")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.status")).To(Equal(model.StatusError))
			Expect(lookup(body, "$.error")).NotTo(BeEmpty())
		})

		It("should reschedule the next ping", func() {
			before := time.Now()
			post(api.URL + "/api/manual-ping")

			next := state.NextPingAt()
			Expect(next).To(BeTemporally(">=", before.Add(scheduler.MinInterval)))
			Expect(next).To(BeTemporally("<", time.Now().Add(scheduler.MaxInterval)))
		})

		It("should reject GET", func() {
			resp, body := get(api.URL + "/api/manual-ping")

			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
			Expect(lookup(body, "$.error")).To(Equal("Method Not Allowed"))
		})
	})

	Describe("GET /api/ping-chart.png", func() {
		It("should need at least two pings", func() {
			resp, _ := get(api.URL + "/api/ping-chart.png")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should render a PNG once pings are recorded", func() {
			base := time.Now().Add(-time.Hour)
			for i := 0; i < 3; i++ {
				state.Complete(model.PingRecord{
					ID:             "chart",
					Timestamp:      model.FormatTimestamp(base.Add(time.Duration(i) * 12 * time.Minute)),
					Status:         "200",
					Success:        true,
					ResponseTimeMs: int64(100 + i*50),
				}, time.Now())
			}

			resp, body := get(api.URL + "/api/ping-chart.png")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("image/png"))
			Expect(body).To(HavePrefix("\x89PNG"))
		})
	})

	Describe("health endpoints", func() {
		It("should report healthy", func() {
			resp, body := get(api.URL + "/health")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.status")).To(Equal("healthy"))
			Expect(lookup(body, "$.scheduler")).To(Equal("running"))
		})

		It("should report ready", func() {
			resp, body := get(api.URL + "/ready")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(lookup(body, "$.ready")).To(BeTrue())
		})
	})

	Describe("catch-all assets", func() {
		It("should proxy unmatched paths to the asset host", func() {
			resp, body := get(api.URL + "/index.html")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Asset-Path")).To(Equal("/index.html"))
			Expect(string(body)).To(Equal("<html>dashboard</html>"))
		})

		It("should carry CORS and correlation headers", func() {
			resp, _ := get(api.URL + "/")

			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header.Get(middleware.CorrelationIDHeader)).NotTo(BeEmpty())
		})

		Context("when the asset host is down", func() {
			BeforeEach(func() {
				assets.Close()
			})

			It("should return 502", func() {
				resp, _ := get(api.URL + "/app.js")
				Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			})
		})

		Context("when no asset host is configured", func() {
			BeforeEach(func() {
				assetsURL = ""
			})

			It("should return 404", func() {
				resp, body := get(api.URL + "/index.html")

				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(lookup(body, "$.error")).To(Equal("Not Found"))
			})
		})
	})
})
