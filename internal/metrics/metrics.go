package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kopimi"

var (
	once sync.Once

	storeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Count of durable snapshot writes by result.",
		},
		[]string{"result"},
	)

	storeLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_load_total",
			Help:      "Count of snapshot loads by result.",
		},
		[]string{"result"},
	)

	pendingWrites = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_pending_writes",
			Help:      "1 while a debounced write is waiting to fire.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method and status.",
		},
		[]string{"method", "status"},
	)

	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Count of barista chat requests by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(storeWrites, storeLoads, pendingWrites, httpRequests, chatRequests)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncStoreWrite(result string) {
	storeWrites.WithLabelValues(result).Inc()
}

func IncStoreLoad(result string) {
	storeLoads.WithLabelValues(result).Inc()
}

func SetPendingWrite(pending bool) {
	if pending {
		pendingWrites.Set(1)
		return
	}
	pendingWrites.Set(0)
}

func IncHTTPRequest(method string, status int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func IncChatRequest(result string) {
	chatRequests.WithLabelValues(result).Inc()
}
