package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ClinicTimezone != "America/La_Paz" {
		t.Errorf("expected default timezone America/La_Paz, got %s", cfg.ClinicTimezone)
	}
	if cfg.PastBookingToleranceSecs != 60 {
		t.Errorf("expected 60s booking tolerance, got %d", cfg.PastBookingToleranceSecs)
	}
	if cfg.ScheduleStartHour != 8 || cfg.ScheduleEndHour != 18 {
		t.Errorf("expected 8-18 schedule, got %d-%d", cfg.ScheduleStartHour, cfg.ScheduleEndHour)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAST_BOOKING_TOLERANCE_SECS", "30")
	t.Setenv("FINANCIAL_GOAL", "5000")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.PastBookingToleranceSecs != 30 {
		t.Errorf("expected 30s tolerance, got %d", cfg.PastBookingToleranceSecs)
	}
	if cfg.FinancialGoal != 5000 {
		t.Errorf("expected goal 5000, got %v", cfg.FinancialGoal)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("PAST_BOOKING_TOLERANCE_SECS", "soon")

	cfg := Load()

	if cfg.PastBookingToleranceSecs != 60 {
		t.Errorf("expected fallback 60, got %d", cfg.PastBookingToleranceSecs)
	}
}
