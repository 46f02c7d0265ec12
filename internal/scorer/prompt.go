package scorer

import "strings"

// systemMessage is sent as the system turn ahead of the prompt.
const systemMessage = "You are a helpful assistant."

const promptTemplate = `SYSTEM: You are "Astra", an AI Test Architect assistant. Answer concisely and strictly follow the requested JSON schema.

USER:
You will be given:
1) A short repository summary (plain text)
2) A JSON test report

Task:
- Analyze the inputs and return ONLY a JSON object with EXACTLY these fields:
  - overall_score: integer 0-100 (test health)
  - key_findings: array of up to 6 strings (<=120 chars each)
  - top_priorities: array of exactly 3 objects, each:
      { "title": string, "impact": "low"|"medium"|"high", "effort_mins": integer, "rationale": string }
  - simulated_pr_title: short string (<=80 chars)
  - suggested_pr_changes: array of up to 6 short strings (<=120 chars)

Important:
- Return valid JSON only. Do NOT include comments or extraneous text.
- Keep values concise. Use deterministic style. Use "impact" exactly as low/medium/high.

Inputs:
REPO_SUMMARY:
{{repo_summary}}

TEST_REPORT:
{{test_report}}
`

// BuildPrompt renders the grading prompt. Both inputs are trimmed.
func BuildPrompt(summary, report string) string {
	r := strings.NewReplacer(
		"{{repo_summary}}", strings.TrimSpace(summary),
		"{{test_report}}", strings.TrimSpace(report),
	)
	return r.Replace(promptTemplate)
}
