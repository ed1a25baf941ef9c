package recommend

import (
	"testing"

	"github.com/careaxis/hms/internal/domain/medicine"
)

func TestCompute_DatabasePriority(t *testing.T) {
	med := &medicine.Medicine{
		DefaultDosage:    "10mg",
		DefaultFrequency: "Once daily",
		DefaultDuration:  "10 days",
	}

	rec := Compute(med, "Anything")
	if rec.Dosage != "10mg" || rec.Frequency != "Once daily" || rec.Duration != "10 days" {
		t.Errorf("expected catalog defaults verbatim, got %+v", rec)
	}
	if rec.Source != SourceDatabase {
		t.Errorf("expected source %q, got %q", SourceDatabase, rec.Source)
	}
}

func TestCompute_EmptyCatalogEntryFallsBackToName(t *testing.T) {
	rec := Compute(&medicine.Medicine{}, "Paracetamol 500mg")

	if rec.Dosage != "500 mg" {
		t.Errorf("expected dosage extracted from name, got %q", rec.Dosage)
	}
	if rec.Frequency != "As needed" {
		t.Errorf("expected %q for paracetamol, got %q", "As needed", rec.Frequency)
	}
	if rec.Duration != "5 days" {
		t.Errorf("expected default duration, got %q", rec.Duration)
	}
	if rec.Source != SourceComputed {
		t.Errorf("expected source %q, got %q", SourceComputed, rec.Source)
	}
}

func TestCompute_NoCatalogEntryIsDefault(t *testing.T) {
	rec := Compute(nil, "Paracetamol 500mg")

	if rec.Source != SourceDefault {
		t.Errorf("expected source %q when no catalog entry exists, got %q", SourceDefault, rec.Source)
	}
	if rec.Dosage != "500 mg" {
		t.Errorf("expected name-extracted dosage, got %q", rec.Dosage)
	}
	if rec.Frequency != "Twice daily" || rec.Duration != "5 days" {
		t.Errorf("expected fixed default frequency/duration, got %+v", rec)
	}
}

func TestCompute_StrengthUnitByForm(t *testing.T) {
	tests := []struct {
		name string
		form medicine.Form
		want string
	}{
		{"tablet uses mg", medicine.FormTablet, "250 mg"},
		{"capsule uses mg", medicine.FormCapsule, "250 mg"},
		{"syrup uses ml", medicine.FormSyrup, "250 ml"},
		{"drops use ml", medicine.FormDrops, "250 ml"},
		{"injection uses ml", medicine.FormInjection, "250 ml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := &medicine.Medicine{Form: tt.form, Strength: "250"}
			rec := Compute(med, "Something")
			if rec.Dosage != tt.want {
				t.Errorf("expected dosage %q, got %q", tt.want, rec.Dosage)
			}
			if rec.Source != SourceComputed {
				t.Errorf("expected source computed, got %q", rec.Source)
			}
		})
	}
}

func TestCompute_PartialCatalogDefaults(t *testing.T) {
	// Only the dosage is on file; frequency and duration still derive
	// from name keywords, and the result is marked computed.
	med := &medicine.Medicine{DefaultDosage: "1 tablet"}

	rec := Compute(med, "Amoxicillin 250mg")
	if rec.Dosage != "1 tablet" {
		t.Errorf("expected explicit dosage kept, got %q", rec.Dosage)
	}
	if rec.Frequency != "Three times daily" {
		t.Errorf("expected amoxicillin keyword rule, got %q", rec.Frequency)
	}
	if rec.Source != SourceComputed {
		t.Errorf("expected source computed, got %q", rec.Source)
	}
}

func TestDeriveFrequencyKeywords(t *testing.T) {
	tests := []struct {
		medName string
		want    string
	}{
		{"Amoxicillin 500mg", "Three times daily"},
		{"Azithromycin 250mg", "Three times daily"},
		{"Broad-spectrum Antibiotic", "Three times daily"},
		{"Pain Relief Gel", "As needed"},
		{"Paracetamol", "As needed"},
		{"Cetirizine 10mg", "Twice daily"},
	}
	for _, tt := range tests {
		rec := Compute(&medicine.Medicine{}, tt.medName)
		if rec.Frequency != tt.want {
			t.Errorf("%q: expected frequency %q, got %q", tt.medName, tt.want, rec.Frequency)
		}
	}
}

func TestDeriveDurationKeywords(t *testing.T) {
	tests := []struct {
		medName string
		want    string
	}{
		{"Some Antibiotic", "7 days"},
		{"Chronic Care Tablet", "30 days"},
		{"Maintenance Dose", "30 days"},
		{"Cetirizine", "5 days"},
	}
	for _, tt := range tests {
		rec := Compute(&medicine.Medicine{}, tt.medName)
		if rec.Duration != tt.want {
			t.Errorf("%q: expected duration %q, got %q", tt.medName, tt.want, rec.Duration)
		}
	}
}

func TestExtractDosage(t *testing.T) {
	tests := []struct {
		medName string
		want    string
	}{
		{"Paracetamol 500mg", "500 mg"},
		{"Ibuprofen 400 MG", "400 mg"},
		{"Cough Syrup 5ml", "5 ml"},
		{"Vitamin D 1000mcg", "1000 mcg"},
		{"Metformin 1g", "1 g"},
		{"Unusual Medicine", "500 mg"}, // no token: fixed fallback
	}
	for _, tt := range tests {
		if got := extractDosage(tt.medName); got != tt.want {
			t.Errorf("extractDosage(%q) = %q, want %q", tt.medName, got, tt.want)
		}
	}
}

func TestDefault_NeverFails(t *testing.T) {
	rec := Default("")
	if rec.Dosage != "500 mg" || rec.Frequency != "Twice daily" || rec.Duration != "5 days" {
		t.Errorf("expected fixed defaults for empty name, got %+v", rec)
	}
	if rec.Source != SourceDefault {
		t.Errorf("expected source default, got %q", rec.Source)
	}
}
