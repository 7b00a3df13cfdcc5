package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dnsmasq_hosts"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total HTTP requests",
	}, []string{"method", "route", "code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	hostMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hosts",
		Name:      "mutations_total",
		Help:      "Host file mutations by operation and outcome",
	}, []string{"op", "outcome"})

	reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reload",
		Name:      "total",
		Help:      "dnsmasq reload attempts by outcome",
	}, []string{"outcome"})

	reloadVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reload",
		Name:      "verifications_total",
		Help:      "Post reload DNS lookups by outcome",
	}, []string{"outcome"})
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDropped = "dropped"
)

func init() {
	// ignore AlreadyRegistered so tests and embedding binaries can share the default registry
	_ = prometheus.Register(collectors.NewGoCollector())
	_ = prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prometheus.MustRegister(requestsTotal, requestDuration, hostMutations, reloads, reloadVerifications)
}

func ObserveRequest(method, route string, code int, d time.Duration) {
	requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func IncHostMutation(op string, err error) {
	hostMutations.WithLabelValues(op, outcome(err)).Inc()
}

func IncReload(outcome string) { reloads.WithLabelValues(outcome).Inc() }

func IncReloadVerification(err error) { reloadVerifications.WithLabelValues(outcome(err)).Inc() }

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

var promHandler = promhttp.Handler()

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler { return promHandler }
