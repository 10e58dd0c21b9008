package analysis

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to answer with the structured JSON payload
// that Parse understands.
const SystemPrompt = `You are a cybersecurity expert AI. Your task is to analyze security news and provide structured intelligence.
You must return your response in a valid JSON format. Do not add any markdown formatting (like ` + "```json ... ```" + `) outside the JSON block if possible, or strictly adhere to the requested format.

Output Format:
{
  "threat_level": "CRITICAL" | "HIGH" | "MEDIUM" | "LOW",
  "category": "Malware" | "Phishing" | "Ransomware" | "Vulnerability" | "Breach" | "DDoS" | "APT" | "Data Leak" | "General",
  "summary": "A concise summary of the news (max 2 sentences).",
  "technical_details": "Brief technical implications or IOCs if mentioned, otherwise 'N/A'."
}

Rules:
1. 'threat_level': Determine based on the severity of the incident.
   - CRITICAL: Active exploitation, zero-day, massive data breach.
   - HIGH: High severity CVE, significant malware campaign.
   - MEDIUM: Patched vulnerabilities, warnings.
   - LOW: General news, educational content.
2. 'category': Choose the most fitting category from the list.
3. Be concise and professional.`

// maxSnippet bounds the content snippet included in the prompt.
const maxSnippet = 500

// NewsPrompt builds the per-item analysis prompt.
func NewsPrompt(title, link, content string) string {
	snippet := strings.TrimSpace(content)
	if runes := []rune(snippet); len(runes) > maxSnippet {
		snippet = string(runes[:maxSnippet])
	}
	return fmt.Sprintf("Analyze the following security news:\nTitle: %s\nLink: %s\nContent Snippet: %s\n\nReturn the JSON analysis.",
		title, link, snippet)
}
