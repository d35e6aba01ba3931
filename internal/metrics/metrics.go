package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	evaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "modsentry_evaluations_total",
		Help: "Total number of messages evaluated against rule sets",
	})
	messagesBlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "modsentry_messages_blocked_total",
		Help: "Total number of messages whose final action was block",
	})
	rulesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "modsentry_rules_evaluated_total",
		Help: "Total number of individual rule evaluations performed",
	})
	auditEventsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "modsentry_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(evaluationsTotal, messagesBlockedTotal, rulesEvaluatedTotal, auditEventsDroppedTotal)
}

// IncEvaluation increments the evaluated messages counter.
func IncEvaluation() { evaluationsTotal.Inc() }

// IncBlocked increments the blocked messages counter.
func IncBlocked() { messagesBlockedTotal.Inc() }

// AddRulesEvaluated adds n to the per-rule evaluation counter.
func AddRulesEvaluated(n int) { rulesEvaluatedTotal.Add(float64(n)) }

// IncAuditDropped increments the dropped audit events counter.
func IncAuditDropped() { auditEventsDroppedTotal.Inc() }
