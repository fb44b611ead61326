package causal

import (
	"fmt"
	"strings"

	domain "gocause/domain/causal"
)

// Summary renders a plain-text digest of a root-cause result: the top three
// roots and the top three critical paths. Pure formatting over the returned
// struct; no analyzer state is involved.
func Summary(result *domain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "target: %s\n", result.Target)
	fmt.Fprintf(&b, "confidence: %s\n", result.Confidence)
	fmt.Fprintf(&b, "explanation power: %.2f\n", result.ExplanationPower)

	if len(result.RootCauses) == 0 {
		b.WriteString("\nno qualifying root causes found\n")
		return b.String()
	}

	b.WriteString("\ntop root causes:\n")
	for i, rc := range result.RootCauses {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s - impact %.2f, tier %s\n", i+1, rc.Name, rc.TotalImpact, rc.Tier)
	}

	if len(result.CriticalPaths) > 0 {
		b.WriteString("\ncritical paths:\n")
		for i, p := range result.CriticalPaths {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (impact %.2f, %s)\n",
				i+1, strings.Join(p.Nodes, " → "), p.Impact, p.Strength)
		}
	}
	return b.String()
}
