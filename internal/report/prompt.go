// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/report-engine/pkg/types"
)

// synthesisPromptTmpl is the final synthesis prompt. The numbered
// instructions are load-bearing: the model must weight consistent,
// high-credibility claims, flag contradictions and single-source
// claims, and leave the sources section to the deterministic formatter.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are an expert research assistant conducting comprehensive analysis with fact-checking capabilities.
Task: Create a detailed, balanced research report from multiple search perspectives.

Original Query: {{.OriginalQuery}}
Search Queries Used: {{.Queries}}

Results from Multiple Searches (with credibility ratings):
{{.Snippets}}

FACT-CHECKING ANALYSIS:
{{.FactCheck}}

Create a comprehensive report with:
- Executive Summary (2-3 sentences)
- Key Findings (main facts and insights - prioritize CONSISTENT facts from High credibility sources)
- Advantages/Benefits
- Disadvantages/Criticisms/Concerns
- Different Perspectives (if applicable)
- Market Position/Comparisons (if applicable)
- Future Outlook/Trends
- Fact-Check Alerts (highlight any contradictory or single-source claims that need verification)
- Open Questions/Areas for Further Research

IMPORTANT INSTRUCTIONS:
1. Prioritize information that appears in multiple sources (marked as CONSISTENT in fact-check analysis)
2. Flag contradictory information with a warning
3. Mark single-source claims as "needs verification"
4. Give more weight to High credibility sources
5. Do NOT include a sources section - I will add properly formatted sources afterward
6. Do NOT use inline URLs or "Credit:" citations - reference sources by publisher name only when needed
`))

// renderSynthesisPrompt fills the synthesis template from a run's state.
// The snippet digest covers at most digestSize top-ranked results.
func renderSynthesisPrompt(run *types.ResearchRun, digestSize int) (string, error) {
	var buf bytes.Buffer
	err := synthesisPromptTmpl.Execute(&buf, struct {
		OriginalQuery string
		Queries       string
		Snippets      string
		FactCheck     string
	}{
		OriginalQuery: run.OriginalQuery,
		Queries:       strings.Join(run.ExpandedQueries, ", "),
		Snippets:      synthesisDigest(run.Results, digestSize),
		FactCheck:     run.FactConsistency,
	})
	if err != nil {
		return "", fmt.Errorf("rendering synthesis prompt: %w", err)
	}
	return buf.String(), nil
}

// synthesisDigest renders the ranked results as annotated snippets.
func synthesisDigest(results []types.SearchResult, digestSize int) string {
	if digestSize > 0 && len(results) > digestSize {
		results = results[:digestSize]
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s [Credibility: %s]: %s\n  %s\n", r.Title, r.Credibility.Level, r.URL, r.Content)
	}
	return b.String()
}
