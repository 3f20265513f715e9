package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var metricHTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sketchd",
	Name:      "http_requests_total",
	Help:      "HTTP requests served, by method, path and status class.",
}, []string{"method", "path", "class"})

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
