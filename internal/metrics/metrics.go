// Package metrics exposes Prometheus counters for membership activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	MembersRegistered   prometheus.Counter
	MembershipEvents    *prometheus.CounterVec
	InvoicesGenerated   prometheus.Counter
	ExpiringMemberships prometheus.Gauge
	ExpiryScanFailures  prometheus.Counter
	Notifications       *prometheus.CounterVec
}

const (
	EventExtend = "extend"
	EventSwitch = "switch"

	ResultSent   = "sent"
	ResultFailed = "failed"
)

func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		MembersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gym_members_registered_total",
			Help: "Members registered with an initial membership",
		}),
		MembershipEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gym_membership_events_total",
			Help: "Membership lifecycle events by type",
		}, []string{"event"}),
		InvoicesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gym_invoices_generated_total",
			Help: "Invoices generated",
		}),
		ExpiringMemberships: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gym_expiring_memberships",
			Help: "Active memberships found by the last expiry scan",
		}),
		ExpiryScanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gym_expiry_scan_failures_total",
			Help: "Expiry scans that failed to query memberships",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gym_notifications_total",
			Help: "Expiry notifications by result",
		}, []string{"result"}),
	}
	registry.MustRegister(
		m.MembersRegistered,
		m.MembershipEvents,
		m.InvoicesGenerated,
		m.ExpiringMemberships,
		m.ExpiryScanFailures,
		m.Notifications,
	)
	return m
}

func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.MembersRegistered.Inc()
}

func (m *Metrics) RecordLifecycleEvent(event string) {
	if m == nil {
		return
	}
	m.MembershipEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordInvoice() {
	if m == nil {
		return
	}
	m.InvoicesGenerated.Inc()
}

func (m *Metrics) SetExpiring(n int) {
	if m == nil {
		return
	}
	m.ExpiringMemberships.Set(float64(n))
}

func (m *Metrics) RecordScanFailure() {
	if m == nil {
		return
	}
	m.ExpiryScanFailures.Inc()
}

func (m *Metrics) RecordNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}
