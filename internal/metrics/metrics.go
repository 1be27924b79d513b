package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventhub"

// Registry is the Prometheus registry for all eventhub metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// AppInfo exposes build information as labels; the value is always 1.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always 1, version info in labels)",
	},
	[]string{"version", "commit"},
)

// Domain counters
var (
	SignupsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Total number of accounts created",
		},
	)

	// LoginsTotal counts login attempts by result: success, invalid, rejected.
	LoginsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// EventOperationsTotal counts successful event mutations by operation.
	EventOperationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_operations_total",
			Help:      "Total number of event mutations by operation",
		},
		[]string{"operation"},
	)

	RegistrationsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of event registrations created",
		},
	)
)

// Init records build information.
func Init(version, commit string) {
	AppInfo.WithLabelValues(version, commit).Set(1)
}
