// Package recommend derives dosage, frequency, and duration suggestions
// for a medicine name, preferring explicit catalog defaults and falling
// back to name-based heuristics. It is a UI convenience, not a clinical
// source of truth: the fallback chain always produces an answer and the
// name-token extraction is best-effort.
package recommend

import (
	"regexp"
	"strings"

	"github.com/careaxis/hms/internal/domain/medicine"
)

// Source tags how a recommendation's values were derived.
type Source string

const (
	// SourceDatabase: all three values came verbatim from catalog defaults.
	SourceDatabase Source = "database"
	// SourceComputed: a catalog entry existed but at least one value was
	// derived from strength, form, or name keywords.
	SourceComputed Source = "computed"
	// SourceDefault: no catalog entry; pure name-based extraction.
	SourceDefault Source = "default"
)

type Recommendation struct {
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Source    Source `json:"source"`
}

// strengthPattern matches a numeric strength token in a medicine name,
// e.g. "500mg", "250 MG", "5ml". It will misfire on unusual naming
// conventions; treat the result as a default, not a fact.
var strengthPattern = regexp.MustCompile(`(?i)(\d+)\s*(mg|g|ml|mcg)`)

const (
	fallbackDosage    = "500 mg"
	fallbackFrequency = "Twice daily"
	fallbackDuration  = "5 days"
)

// Compute derives a recommendation for the given medicine name, using the
// catalog entry when one was found. The fallback chain short-circuits:
// full catalog defaults win outright, otherwise each field falls back
// independently through explicit field → derived value → fixed default.
func Compute(med *medicine.Medicine, name string) Recommendation {
	if med == nil {
		return Default(name)
	}

	if med.DefaultDosage != "" && med.DefaultFrequency != "" && med.DefaultDuration != "" {
		return Recommendation{
			Dosage:    med.DefaultDosage,
			Frequency: med.DefaultFrequency,
			Duration:  med.DefaultDuration,
			Source:    SourceDatabase,
		}
	}

	return Recommendation{
		Dosage:    deriveDosage(med, name),
		Frequency: deriveFrequency(med, name),
		Duration:  deriveDuration(med, name),
		Source:    SourceComputed,
	}
}

// Default is the never-fail path: name-based dosage extraction with fixed
// frequency and duration. Callers use it when the catalog lookup itself
// failed, so the endpoint can still answer.
func Default(name string) Recommendation {
	return Recommendation{
		Dosage:    extractDosage(name),
		Frequency: fallbackFrequency,
		Duration:  fallbackDuration,
		Source:    SourceDefault,
	}
}

func deriveDosage(med *medicine.Medicine, name string) string {
	if med.DefaultDosage != "" {
		return med.DefaultDosage
	}
	if med.Strength != "" {
		unit := "mg"
		if med.Form.IsLiquid() {
			unit = "ml"
		}
		return med.Strength + " " + unit
	}
	return extractDosage(name)
}

func extractDosage(name string) string {
	m := strengthPattern.FindStringSubmatch(name)
	if m == nil {
		return fallbackDosage
	}
	return m[1] + " " + strings.ToLower(m[2])
}

func deriveFrequency(med *medicine.Medicine, name string) string {
	if med != nil && med.DefaultFrequency != "" {
		return med.DefaultFrequency
	}
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "antibiotic", "amoxicillin", "azithromycin"):
		return "Three times daily"
	case containsAny(lower, "pain", "paracetamol"):
		return "As needed"
	default:
		return fallbackFrequency
	}
}

func deriveDuration(med *medicine.Medicine, name string) string {
	if med != nil && med.DefaultDuration != "" {
		return med.DefaultDuration
	}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "antibiotic"):
		return "7 days"
	case containsAny(lower, "chronic", "maintenance"):
		return "30 days"
	default:
		return fallbackDuration
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
