// Package metrics provides Prometheus instrumentation for the pairing
// bot: gauges for queue and chat occupancy, counters for session,
// message, report and ban throughput.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WaitingUsers tracks the current size of the pairing queue.
	WaitingUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "anonchat_waiting_users",
		Help: "Current number of users in the pairing queue",
	})

	// ActiveChats tracks the current number of live chat pairs.
	ActiveChats = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "anonchat_active_chats",
		Help: "Current number of active chat pairs",
	})

	// SessionsCreated counts chat sessions created since start.
	SessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anonchat_sessions_created_total",
		Help: "Total number of chat sessions created",
	})

	// MessagesRelayed counts relayed messages, labeled by content kind.
	MessagesRelayed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anonchat_messages_relayed_total",
		Help: "Total number of messages relayed between partners",
	}, []string{"kind"})

	// ReportsFiled counts abuse reports accepted.
	ReportsFiled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anonchat_reports_filed_total",
		Help: "Total number of abuse reports filed",
	})

	// BansIssued counts manual bans issued by the administrator.
	BansIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anonchat_bans_issued_total",
		Help: "Total number of handles banned",
	})
)

func init() {
	prometheus.MustRegister(
		WaitingUsers,
		ActiveChats,
		SessionsCreated,
		MessagesRelayed,
		ReportsFiled,
		BansIssued,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
