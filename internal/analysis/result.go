// Package analysis turns raw model completions into structured threat
// assessments and maps categories onto a fixed taxonomy.
package analysis

import (
	"fmt"
	"strings"
)

// Threat levels, highest first.
const (
	ThreatCritical = "CRITICAL"
	ThreatHigh     = "HIGH"
	ThreatMedium   = "MEDIUM"
	ThreatLow      = "LOW"
	ThreatUnknown  = "UNKNOWN"
)

// Result is a structured threat assessment extracted from a model response.
// It is ephemeral: only the rendered text and the category are persisted.
type Result struct {
	ThreatLevel      string `json:"threat_level"`
	Category         string `json:"category"`
	Summary          string `json:"summary"`
	TechnicalDetails string `json:"technical_details"`
}

// Render produces the stored, human-readable form of the assessment. The
// label order and wording are a display contract: the same structured input
// must render identically across runs.
func (r *Result) Render() string {
	details := r.TechnicalDetails
	if details == "" {
		details = "N/A"
	}
	return fmt.Sprintf("Threat Level: %s\nCategory: %s\nSummary: %s\nTechnical Details: %s",
		r.ThreatLevel, r.Category, r.Summary, details)
}

// clampThreatLevel folds arbitrary model output onto the fixed level set.
func clampThreatLevel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case ThreatCritical:
		return ThreatCritical
	case ThreatHigh:
		return ThreatHigh
	case ThreatMedium:
		return ThreatMedium
	case ThreatLow:
		return ThreatLow
	}
	return ThreatUnknown
}
