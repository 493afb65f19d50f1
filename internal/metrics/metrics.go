package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProxyRequests считает обработанные запросы к /api/rss по типу ленты и HTTP-статусу.
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proxy_requests_total",
		Help: "Processed feed proxy requests by feed type and response status.",
	}, []string{"type", "status"})

	// UpstreamAttempts считает попытки обращения к зеркалам по семейству, инстансу и исходу.
	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_attempts_total",
		Help: "Upstream mirror fetch attempts by family, instance and result.",
	}, []string{"family", "instance", "result"})
)
