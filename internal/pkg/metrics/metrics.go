package metrics

import "github.com/prometheus/client_golang/prometheus"

// QueueMetrics exposes counters for the booking and queue flows.
type QueueMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	ticketsTotal    *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	reapedTotal     prometheus.Counter
	bulkClosedTotal prometheus.Counter
}

func NewQueueMetrics(reg prometheus.Registerer) *QueueMetrics {
	m := &QueueMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consular",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Web appointment booking attempts by result",
		}, []string{"result"}),
		ticketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consular",
			Subsystem: "booking",
			Name:      "tickets_total",
			Help:      "Kiosk ticket creation attempts by result",
		}, []string{"result"}),
		transitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consular",
			Subsystem: "queue",
			Name:      "transitions_total",
			Help:      "Lifecycle transitions applied by kind and action",
		}, []string{"kind", "action"}),
		reapedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consular",
			Subsystem: "jobs",
			Name:      "reaped_total",
			Help:      "Appointments closed by the absence reaper",
		}),
		bulkClosedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consular",
			Subsystem: "jobs",
			Name:      "bulk_closed_total",
			Help:      "Appointments closed by end-of-day bulk closure",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.ticketsTotal, m.transitionTotal, m.reapedTotal, m.bulkClosedTotal)
	return m
}

func (m *QueueMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *QueueMetrics) ObserveTicket(result string) {
	if m == nil {
		return
	}
	m.ticketsTotal.WithLabelValues(result).Inc()
}

func (m *QueueMetrics) ObserveTransition(kind, action string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(kind, action).Inc()
}

func (m *QueueMetrics) AddReaped(n int) {
	if m == nil {
		return
	}
	m.reapedTotal.Add(float64(n))
}

func (m *QueueMetrics) AddBulkClosed(n int) {
	if m == nil {
		return
	}
	m.bulkClosedTotal.Add(float64(n))
}
