package prometheus

import (
	echoprometheus "github.com/labstack/echo-contrib/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	restapiHTTPErrorCount prometheus.Gauge
)

func configureRestAPI() {
	restapiHTTPErrorCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "restapi",
			Name:      "http_request_errors",
			Help:      "The amount of encountered HTTP request errors.",
		},
	)

	registry.MustRegister(restapiHTTPErrorCount)

	addCollect(collectRestAPI)

	if deps.Echo != nil {
		p := echoprometheus.NewPrometheus("verdict_restapi", nil)
		for _, m := range p.MetricsList {
			registry.MustRegister(m.MetricCollector)
		}
		deps.Echo.Use(p.HandlerFunc)
	}
}

func collectRestAPI() {
	restapiHTTPErrorCount.Set(float64(deps.RestAPIMetrics.HTTPRequestErrorCounter.Load()))
}
