package feeds

import "strings"

// Filter decides which entries are security-relevant and which titles are
// urgent enough for an alert-style notification.
type Filter struct {
	// SecurityKeywords gate entry into the pipeline: an entry whose
	// title+summary contains none of these never reaches the AI backends
	// or the store.
	SecurityKeywords []string

	// UrgentKeywords mark titles for the urgent notification header.
	// Mostly widely-deployed vendor/product names plus generic
	// exploitation terms.
	UrgentKeywords []string
}

// DefaultFilter returns the filter with the built-in keyword lists.
func DefaultFilter() *Filter {
	return &Filter{
		SecurityKeywords: []string{
			"security", "cyber", "hack", "breach", "malware", "ransomware",
			"vulnerability", "cve", "exploit", "phishing", "zero-day",
			"0-day", "ddos", "backdoor", "botnet", "spyware", "trojan",
			"data leak", "leak", "patch", "attack", "threat", "infosec",
			"apt", "credential", "siber", "fidye", "zafiyet", "oltalama",
		},
		UrgentKeywords: []string{
			"zero-day", "0-day", "actively exploited", "in the wild",
			"emergency", "critical", "cisa", "kev",
			"windows", "microsoft", "chrome", "apple", "ios", "android",
			"linux", "vmware", "cisco", "fortinet", "citrix", "exchange",
			"openssl", "kubernetes",
		},
	}
}

// Relevant reports whether the item passes the security-keyword gate.
func (f *Filter) Relevant(item Item) bool {
	text := strings.ToLower(item.Title + " " + item.Summary)
	for _, kw := range f.SecurityKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Urgent reports whether the title warrants the urgent notification header.
// Checked against the raw title only, independent of the AI threat level.
func (f *Filter) Urgent(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range f.UrgentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
