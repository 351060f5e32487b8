package alert

import (
	"math"
	"testing"
)

func TestCheckRevenueDrop_CriticalDrop(t *testing.T) {
	e := NewDefaultEvaluator()

	alerts := e.CheckRevenueDrop(monthlySeries(100, 70))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}

	a := alerts[0]
	if a.Type != TypeRevenueDrop {
		t.Errorf("Expected type %s, got %s", TypeRevenueDrop, a.Type)
	}
	if math.Abs(a.ChangePercent-(-30)) > 1e-9 {
		t.Errorf("Expected growth -30, got %v", a.ChangePercent)
	}
	// -30% is at or below the -25% critical cutoff.
	if a.Severity != SeverityCritical {
		t.Errorf("Expected CRITICAL severity, got %s", a.Severity)
	}
}

func TestCheckRevenueDrop_HighSeverity(t *testing.T) {
	e := NewDefaultEvaluator()

	// -15% triggers but stays above the -25% critical cutoff.
	alerts := e.CheckRevenueDrop(monthlySeries(100, 85))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityHigh {
		t.Errorf("Expected HIGH severity, got %s", alerts[0].Severity)
	}
}

func TestCheckRevenueDrop_NoTrigger(t *testing.T) {
	e := NewDefaultEvaluator()

	// -5% stays above the -10% threshold; growth never triggers.
	alerts := e.CheckRevenueDrop(monthlySeries(100, 95, 110))

	if len(alerts) != 0 {
		t.Errorf("Expected no alerts, got %d", len(alerts))
	}
}

func TestCheckRevenueDrop_ScansAllPairs(t *testing.T) {
	e := NewDefaultEvaluator()

	// Two separate drops inside one series raise two alerts.
	alerts := e.CheckRevenueDrop(monthlySeries(100, 80, 90, 60))

	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Current != 80 {
		t.Errorf("Expected first drop at value 80, got %v", alerts[0].Current)
	}
	if alerts[1].Current != 60 {
		t.Errorf("Expected second drop at value 60, got %v", alerts[1].Current)
	}
}

func TestCheckRevenueDrop_ZeroPrevious(t *testing.T) {
	e := NewDefaultEvaluator()

	// Growth from a zero base is reported as 0 and never triggers.
	alerts := e.CheckRevenueDrop(monthlySeries(0, 50))

	if len(alerts) != 0 {
		t.Errorf("Expected no alerts for zero base, got %d", len(alerts))
	}
}

func TestCheckRevenueDrop_ShortSeries(t *testing.T) {
	e := NewDefaultEvaluator()

	if alerts := e.CheckRevenueDrop(monthlySeries(100)); len(alerts) != 0 {
		t.Errorf("Expected no alerts for single point, got %d", len(alerts))
	}
	if alerts := e.CheckRevenueDrop(nil); len(alerts) != 0 {
		t.Errorf("Expected no alerts for empty series, got %d", len(alerts))
	}
}
