package hub

import "github.com/prometheus/client_golang/prometheus"

var subscriptionDropsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "eventhub",
		Subsystem: "hub",
		Name:      "subscription_drops_total",
		Help:      "Events dropped because a subscription buffer was full",
	},
	[]string{"category"},
)

func init() {
	prometheus.MustRegister(subscriptionDropsTotal)
}
