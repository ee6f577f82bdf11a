package core

import (
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"critical", SeverityCritical, false},
		{"CRITICAL", SeverityCritical, false},
		{"high", SeverityHigh, false},
		{"medium", SeverityMedium, false},
		{"moderate", SeverityMedium, false},
		{"Moderate", SeverityMedium, false},
		{"low", SeverityLow, false},
		{"", SeverityUnknown, true},
		{"severe", SeverityUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityUnknown, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("Rank(%s) = %d, want less than Rank(%s) = %d",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
}

func TestFindingMaxSeverity(t *testing.T) {
	f := Finding{
		Package: "next",
		Matched: []MatchedAdvisory{
			{AdvisoryID: "CVE-2025-66793", Severity: SeverityHigh},
			{AdvisoryID: "CVE-2025-55182", Severity: SeverityCritical},
		},
	}
	if got := f.MaxSeverity(); got != SeverityCritical {
		t.Errorf("MaxSeverity() = %q, want %q", got, SeverityCritical)
	}
	if !f.Vulnerable() {
		t.Error("Vulnerable() = false, want true")
	}

	clean := Finding{Package: "next"}
	if got := clean.MaxSeverity(); got != SeverityUnknown {
		t.Errorf("MaxSeverity() = %q, want %q", got, SeverityUnknown)
	}
	if clean.Vulnerable() {
		t.Error("Vulnerable() = true, want false")
	}
}
