// Package metrics defines and registers all custom Prometheus metrics for the
// authentication service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// OtpIssuedTotal counts successfully issued one-time codes.
// Labels:
//   - channel: delivery channel ("email" or "phone")
//   - purpose: the flow purpose tag (e.g. "LOGIN")
var OtpIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time codes issued, by channel and purpose.",
	},
	[]string{"channel", "purpose"},
)

// OtpDeliveryFailuresTotal counts codes that were issued but failed dispatch.
var OtpDeliveryFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_delivery_failures_total",
		Help:      "Total number of issued codes whose delivery failed.",
	},
	[]string{"channel"},
)

// OtpVerifyTotal counts verification outcomes.
// Label:
//   - result: "success" or "failure" (all failure causes collapse externally)
var OtpVerifyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verify_total",
		Help:      "Total number of code verification attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts session tokens issued per login flow.
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by login flow.",
	},
	[]string{"flow"},
)

// OtpSweptTotal counts expired records removed by the background sweeper.
var OtpSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_swept_total",
		Help:      "Total number of expired one-time code records garbage collected.",
	},
)

// AuthenticateDuration measures verify-and-authenticate latency end-to-end.
// Label:
//   - flow: the login flow
var AuthenticateDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "authenticate_duration_seconds",
		Help:      "Duration of verify-and-authenticate from request to token.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"flow"},
)
