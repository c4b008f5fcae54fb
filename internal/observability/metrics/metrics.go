package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for the clinical-financial record flows.
// All observers are nil-safe so services can run without metrics wired.
type ClinicMetrics struct {
	treatmentsTotal        *prometheus.CounterVec
	paymentsTotal          *prometheus.CounterVec
	paymentsCancelledTotal prometheus.Counter
	appointmentsTotal      *prometheus.CounterVec
	appointmentTransitions *prometheus.CounterVec
	sessionsSavedTotal     prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		treatmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "ledger",
			Name:      "treatments_recorded_total",
			Help:      "Total treatments appended to the ledger",
		}, []string{"procedure"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "ledger",
			Name:      "payments_recorded_total",
			Help:      "Total payments appended to the ledger",
		}, []string{"method"}),
		paymentsCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "ledger",
			Name:      "payments_cancelled_total",
			Help:      "Total payments flipped to cancelled",
		}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduling",
			Name:      "appointments_booked_total",
			Help:      "Total appointments booked",
		}, []string{"type"}),
		appointmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduling",
			Name:      "appointment_transitions_total",
			Help:      "Total appointment state transitions",
		}, []string{"status"}),
		sessionsSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduling",
			Name:      "diagnostic_sessions_saved_total",
			Help:      "Total diagnostic sessions appended to history",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.treatmentsTotal,
		m.paymentsTotal,
		m.paymentsCancelledTotal,
		m.appointmentsTotal,
		m.appointmentTransitions,
		m.sessionsSavedTotal,
	)
	return m
}

func (m *ClinicMetrics) ObserveTreatment(procedure string) {
	if m == nil {
		return
	}
	m.treatmentsTotal.WithLabelValues(procedure).Inc()
}

func (m *ClinicMetrics) ObservePayment(method string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(method).Inc()
}

func (m *ClinicMetrics) ObservePaymentCancelled() {
	if m == nil {
		return
	}
	m.paymentsCancelledTotal.Inc()
}

func (m *ClinicMetrics) ObserveAppointmentBooked(apptType string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(apptType).Inc()
}

func (m *ClinicMetrics) ObserveAppointmentTransition(status string) {
	if m == nil {
		return
	}
	m.appointmentTransitions.WithLabelValues(status).Inc()
}

func (m *ClinicMetrics) ObserveSessionSaved() {
	if m == nil {
		return
	}
	m.sessionsSavedTotal.Inc()
}
