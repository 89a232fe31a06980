// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telemed"

var (
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Assistant replies delivered, by matched intent.",
		},
		[]string{"intent"},
	)

	SendsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_sends_rejected_total",
			Help:      "User sends refused before reaching the responder.",
		},
		[]string{"reason"},
	)

	RepliesCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_cancelled_total",
			Help:      "Pending replies dropped because their session closed.",
		},
	)

	ResponderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responder_fallbacks_total",
			Help:      "Replies served by the rule table after the primary responder failed.",
		},
		[]string{"responder"},
	)

	PermissionDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_permission_denied_total",
			Help:      "Device capability requests refused for lack of permission.",
		},
		[]string{"capability"},
	)
)
