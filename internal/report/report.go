// Package report renders a consensus result as a plain-text file for
// export. The section order is fixed and every list is numbered from 1
// with no gaps.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/council"
)

const divider = "============================================================"

// FileName returns the export filename for the given generation time,
// llm-council-consensus-<epoch-millis>.txt.
func FileName(at time.Time) string {
	return fmt.Sprintf("llm-council-consensus-%d.txt", at.UnixMilli())
}

// Render serializes the consensus into the exported report text. The
// generation time is passed in so tests can pin it.
func Render(consensus *council.ConsensusResult, at time.Time) string {
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("LLM COUNCIL CONSENSUS REPORT\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", at.UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "FINAL RECOMMENDATION: %s\n", strings.ToUpper(string(consensus.Recommendation)))
	fmt.Fprintf(&b, "Confidence: %d%%\n\n", consensus.Confidence)

	b.WriteString("VOTE DISTRIBUTION\n")
	support, oppose, abstain := consensus.VoteDistribution.Percentages()
	fmt.Fprintf(&b, "  Support: %d (%d%%)\n", consensus.VoteDistribution.Support, support)
	fmt.Fprintf(&b, "  Oppose:  %d (%d%%)\n", consensus.VoteDistribution.Oppose, oppose)
	fmt.Fprintf(&b, "  Abstain: %d (%d%%)\n\n", consensus.VoteDistribution.Abstain, abstain)

	fmt.Fprintf(&b, "MAJORITY POSITION: %s (%d%%)\n", strings.ToUpper(string(consensus.MajorityPosition.Vote)), consensus.MajorityPosition.Percentage)
	fmt.Fprintf(&b, "  Members: %s\n", memberList(consensus.MajorityPosition.Members))
	for _, pos := range consensus.MinorityPositions {
		fmt.Fprintf(&b, "MINORITY POSITION: %s (%d%%)\n", strings.ToUpper(string(pos.Vote)), pos.Percentage)
		fmt.Fprintf(&b, "  Members: %s\n", memberList(pos.Members))
	}
	b.WriteString("\n")

	writeText(&b, "COUNCIL SUMMARY", consensus.CouncilSummary)
	writeText(&b, "DECISION", consensus.Final.Decision)
	writeNumbered(&b, "IMPLEMENTATION STEPS", consensus.Final.ImplementationSteps)
	writeNumbered(&b, "RISK MITIGATIONS", consensus.Final.RiskMitigations)
	writeNumbered(&b, "SUCCESS CRITERIA", consensus.Final.SuccessCriteria)
	writeText(&b, "ADDITIONAL GUIDANCE", consensus.Final.AdditionalGuidance)
	writeNumbered(&b, "ARGUMENTS FOR", consensus.Arguments.For)
	writeNumbered(&b, "ARGUMENTS AGAINST", consensus.Arguments.Against)
	writeNumbered(&b, "KEY CONSIDERATIONS", consensus.Arguments.Considerations)

	b.WriteString(divider + "\n")
	return b.String()
}

// Export writes the rendered report into dir and returns the full path of
// the file it created.
func Export(consensus *council.ConsensusResult, dir string) (string, error) {
	if consensus == nil {
		return "", fmt.Errorf("report: nothing to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: ensure export dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(Render(consensus, now)), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

func writeText(b *strings.Builder, heading, text string) {
	b.WriteString(heading + "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(none)"
	}
	b.WriteString("  " + text + "\n\n")
}

func writeNumbered(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading + "\n")
	if len(items) == 0 {
		b.WriteString("  (none)\n\n")
		return
	}
	for i, item := range items {
		fmt.Fprintf(b, "  %d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

func memberList(members []string) string {
	if len(members) == 0 {
		return "(none)"
	}
	return strings.Join(members, ", ")
}
