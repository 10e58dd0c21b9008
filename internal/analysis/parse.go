package analysis

import (
	"encoding/json"
	"strings"
)

// Parse extracts a structured Result from a raw model completion, or nil if
// no usable payload is present. Models rarely emit pure JSON, so parsing is
// deliberately lenient: one optional ```json fence is stripped, then only the
// substring between the first '{' and the last '}' is decoded. Prose before
// or after the object is ignored.
//
// Returning nil is the only failure mode. Callers leave the item's analysis
// unset for a later sweep; a partially populated record is never produced.
func Parse(raw string) *Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	text = stripFence(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var res Result
	if err := json.Unmarshal([]byte(text[start:end+1]), &res); err != nil {
		return nil
	}

	// threat_level and summary are the minimum usable payload
	if strings.TrimSpace(res.ThreatLevel) == "" || strings.TrimSpace(res.Summary) == "" {
		return nil
	}

	res.ThreatLevel = clampThreatLevel(res.ThreatLevel)
	res.Category = Normalize(res.Category)
	res.Summary = strings.TrimSpace(res.Summary)
	res.TechnicalDetails = strings.TrimSpace(res.TechnicalDetails)
	return &res
}

// stripFence removes a single leading/trailing markdown code fence, with an
// optional case-insensitive "json" tag.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	rest := s[3:]
	if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
		rest = rest[4:]
	}
	rest = strings.TrimLeft(rest, "\r\n")

	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
