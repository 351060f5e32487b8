package alert

import "testing"

func TestCheckCashFlow_NegativeLatest(t *testing.T) {
	e := NewDefaultEvaluator()

	alerts := e.CheckCashFlow(monthlySeries(5000, 2000, -500))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}

	a := alerts[0]
	if a.Type != TypeCashFlow {
		t.Errorf("Expected type %s, got %s", TypeCashFlow, a.Type)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("Expected HIGH severity, got %s", a.Severity)
	}
	if a.Value != -500 {
		t.Errorf("Expected value -500, got %v", a.Value)
	}
}

func TestCheckCashFlow_DeepNegativeIsCritical(t *testing.T) {
	e := NewDefaultEvaluator()

	alerts := e.CheckCashFlow(monthlySeries(5000, -20000))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityCritical {
		t.Errorf("Expected CRITICAL severity below -10000, got %s", alerts[0].Severity)
	}
}

func TestCheckCashFlow_DecliningTrend(t *testing.T) {
	e := NewDefaultEvaluator()

	// Positive but strictly declining for three periods.
	alerts := e.CheckCashFlow(monthlySeries(9000, 6000, 3000))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityMedium {
		t.Errorf("Expected MEDIUM severity for declining trend, got %s", alerts[0].Severity)
	}
}

func TestCheckCashFlow_NegativeBeatsDeclining(t *testing.T) {
	e := NewDefaultEvaluator()

	// Both conditions hold; the below-minimum branch wins and only one
	// alert is raised.
	alerts := e.CheckCashFlow(monthlySeries(3000, 1000, -2000))

	if len(alerts) != 1 {
		t.Fatalf("Expected a single alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityHigh {
		t.Errorf("Expected HIGH severity, got %s", alerts[0].Severity)
	}
}

func TestCheckCashFlow_Healthy(t *testing.T) {
	e := NewDefaultEvaluator()

	tests := []struct {
		name   string
		values []float64
	}{
		{"rising", []float64{1000, 2000, 3000}},
		{"dip not strict", []float64{3000, 3000, 2000}},
		{"two points only", []float64{5000, 4000}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := e.CheckCashFlow(monthlySeries(tt.values...))
			if len(alerts) != 0 {
				t.Errorf("Expected no alerts, got %d", len(alerts))
			}
		})
	}
}

func TestCheckCashFlow_CustomMinimum(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.MinCashFlow = 5000
	e := NewEvaluator(thresholds)

	alerts := e.CheckCashFlow(monthlySeries(8000, 3000))

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert below the custom minimum, got %d", len(alerts))
	}
	// Positive but below minimum: not deep enough for CRITICAL.
	if alerts[0].Severity != SeverityHigh {
		t.Errorf("Expected HIGH severity, got %s", alerts[0].Severity)
	}
}
