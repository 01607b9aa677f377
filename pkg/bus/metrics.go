package bus

import "github.com/prometheus/client_golang/prometheus"

var (
	publishesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "publishes_total",
			Help:      "Total number of published events that reached at least one subscriber",
		},
		[]string{"category"},
	)

	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "deliveries_total",
			Help:      "Total number of per-observer notifications",
		},
		[]string{"category"},
	)

	droppedPublishesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "dropped_publishes_total",
			Help:      "Published events that had no subscribers",
		},
	)

	duplicateSubscribesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "duplicate_subscribes_total",
			Help:      "Subscribe calls for a handle already present in the category",
		},
	)

	missedUnsubscribesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "missed_unsubscribes_total",
			Help:      "Unsubscribe calls for a handle or registry that was not subscribed",
		},
	)

	observerPanicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "observer_panics_total",
			Help:      "Observer callbacks that panicked during fan-out",
		},
	)

	subscriberGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "eventhub",
			Subsystem: "bus",
			Name:      "subscribers",
			Help:      "Current number of subscribers per category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(
		publishesTotal,
		deliveriesTotal,
		droppedPublishesTotal,
		duplicateSubscribesTotal,
		missedUnsubscribesTotal,
		observerPanicsTotal,
		subscriberGauge,
	)
}
