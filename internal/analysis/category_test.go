package analysis

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"exact taxonomy label", "Ransomware", CategoryRansomware},
		{"case-insensitive", "PHISHING", CategoryPhishing},
		{"turkish ransom keyword", "fidye yazılımı", CategoryRansomware},
		{"turkish vulnerability keyword", "kritik zafiyet", CategoryVulnerability},
		{"cve reference", "CVE-2025-12345 exploit chain", CategoryVulnerability},
		{"ransomware beats breach", "ransomware gang breach", CategoryRansomware},
		{"data leak needs full phrase", "massive data leak reported", CategoryDataLeak},
		{"general passthrough", "general", CategoryGeneral},
		{"empty collapses to general", "", CategoryGeneral},
		{"whitespace collapses to general", "   ", CategoryGeneral},
		{"short unmatched preserved", "Cryptojacking", "Cryptojacking"},
		{"long unmatched collapses", strings.Repeat("x", 40), CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.candidate); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestNormalizePriorityOrder(t *testing.T) {
	// "lockbit exploit" matches both Ransomware and Vulnerability keywords;
	// the earlier taxonomy entry must win.
	if got := Normalize("lockbit exploit kit"); got != CategoryRansomware {
		t.Errorf("expected Ransomware to win on priority, got %q", got)
	}
}
