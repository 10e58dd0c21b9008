package analysis

import "strings"

// The closed category taxonomy. Every persisted category is one of these,
// except for the short-text fallback documented on Normalize.
const (
	CategoryRansomware    = "Ransomware"
	CategoryMalware       = "Malware"
	CategoryPhishing      = "Phishing"
	CategoryDDoS          = "DDoS"
	CategoryAPT           = "APT"
	CategoryVulnerability = "Vulnerability"
	CategoryBreach        = "Breach"
	CategoryDataLeak      = "Data Leak"
	CategoryGeneral       = "General"
)

// Categories lists the taxonomy in match-priority order.
var Categories = []string{
	CategoryRansomware,
	CategoryMalware,
	CategoryPhishing,
	CategoryDDoS,
	CategoryAPT,
	CategoryVulnerability,
	CategoryBreach,
	CategoryDataLeak,
	CategoryGeneral,
}

// maxVerbatimCategory bounds the short-text fallback. Raw text longer than
// this is treated as a failed extraction and collapses to General.
const maxVerbatimCategory = 24

// categoryKeywords maps each category to its trigger keywords, scanned in
// priority order with case-insensitive substring matching. Mixed-language
// keywords (Turkish feeds are first-class sources) live in the same list.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryRansomware, []string{"ransomware", "ransom", "fidye", "lockbit", "extortion"}},
	{CategoryMalware, []string{"malware", "trojan", "botnet", "spyware", "infostealer", "worm", "zararlı yazılım"}},
	{CategoryPhishing, []string{"phishing", "oltalama", "smishing", "credential harvest"}},
	{CategoryDDoS, []string{"ddos", "denial of service", "denial-of-service"}},
	{CategoryAPT, []string{"apt", "nation-state", "state-sponsored", "espionage"}},
	{CategoryVulnerability, []string{"vulnerability", "cve-", "zero-day", "0-day", "exploit", "zafiyet", "güvenlik açığı"}},
	{CategoryBreach, []string{"breach", "hacked", "compromised", "ihlal"}},
	{CategoryDataLeak, []string{"data leak", "leak", "sızıntı", "exposed database", "exposed data"}},
}

// Normalize maps free-form or structured category text onto the fixed
// taxonomy. First keyword match wins. Unmatched text collapses to General
// when long (a failed extraction), but short unmatched labels are preserved
// verbatim so signal from unanticipated labels is not silently lost.
func Normalize(candidate string) string {
	text := strings.TrimSpace(candidate)
	if text == "" {
		return CategoryGeneral
	}

	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}

	if strings.EqualFold(text, CategoryGeneral) {
		return CategoryGeneral
	}

	if len(text) > maxVerbatimCategory {
		return CategoryGeneral
	}
	return text
}
