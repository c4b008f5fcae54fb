package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewClinicMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveTreatment("Endodoncia")
	m.ObservePayment("Efectivo")
	m.ObservePaymentCancelled()
	m.ObserveAppointmentBooked("Consulta")
	m.ObserveAppointmentTransition("Completada")
	m.ObserveSessionSaved()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 6 {
		t.Errorf("expected 6 metric families, got %d", len(families))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveTreatment("x")
	m.ObservePayment("x")
	m.ObservePaymentCancelled()
	m.ObserveAppointmentBooked("x")
	m.ObserveAppointmentTransition("x")
	m.ObserveSessionSaved()
}
