package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/council"
)

func sampleConsensus() *council.ConsensusResult {
	return &council.ConsensusResult{
		Recommendation:   council.VoteSupport,
		Confidence:       82,
		VoteDistribution: council.VoteSummary{Support: 3, Oppose: 1, Abstain: 1},
		MajorityPosition: council.Position{
			Vote:       council.VoteSupport,
			Percentage: 60,
			Members:    []string{"gpt-4o", "claude-3-5-sonnet", "gemini-1-5-pro"},
		},
		MinorityPositions: []council.Position{
			{Vote: council.VoteOppose, Percentage: 20, Members: []string{"llama-3-1-405b"}},
			{Vote: council.VoteAbstain, Percentage: 20, Members: []string{"mistral-large"}},
		},
		Arguments: council.SynthesizedArguments{
			For:            []string{"strong demand signal", "first-mover window"},
			Against:        []string{"supply risk"},
			Considerations: []string{"regulatory review pending"},
		},
		CouncilSummary: "The council leans toward launching.",
		Final: council.FinalRecommendation{
			Decision:            "Launch product X next quarter.",
			ImplementationSteps: []string{"finalize pricing", "brief sales", "ship beta"},
			RiskMitigations:     []string{"dual-source components"},
			SuccessCriteria:     []string{"1000 active users in 90 days"},
			AdditionalGuidance:  "Revisit the decision if supply costs rise.",
		},
	}
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1724673845123)
	got := FileName(at)
	want := "llm-council-consensus-1724673845123.txt"
	if got != want {
		t.Fatalf("FileName = %q, want %q", got, want)
	}
}

func TestRenderSectionOrder(t *testing.T) {
	text := Render(sampleConsensus(), time.Unix(0, 0))

	sections := []string{
		"LLM COUNCIL CONSENSUS REPORT",
		"Generated:",
		"FINAL RECOMMENDATION: SUPPORT",
		"Confidence: 82%",
		"VOTE DISTRIBUTION",
		"MAJORITY POSITION: SUPPORT (60%)",
		"MINORITY POSITION: OPPOSE (20%)",
		"MINORITY POSITION: ABSTAIN (20%)",
		"COUNCIL SUMMARY",
		"DECISION",
		"IMPLEMENTATION STEPS",
		"RISK MITIGATIONS",
		"SUCCESS CRITERIA",
		"ADDITIONAL GUIDANCE",
		"ARGUMENTS FOR",
		"ARGUMENTS AGAINST",
		"KEY CONSIDERATIONS",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(text, section)
		if idx < 0 {
			t.Fatalf("section %q missing from report:\n%s", section, text)
		}
		if idx < last {
			t.Fatalf("section %q appears out of order", section)
		}
		last = idx
	}

	if !strings.Contains(text, "Support: 3 (60%)") {
		t.Fatalf("vote distribution line missing:\n%s", text)
	}
	if !strings.Contains(text, "gpt-4o, claude-3-5-sonnet, gemini-1-5-pro") {
		t.Fatalf("majority member list missing:\n%s", text)
	}
}

func TestRenderNumberingIsContiguous(t *testing.T) {
	itemRe := regexp.MustCompile(`^  (\d+)\. `)

	for _, n := range []int{0, 1, 2, 5, 17} {
		items := make([]string, n)
		for i := range items {
			items[i] = fmt.Sprintf("step %d", i)
		}
		consensus := sampleConsensus()
		consensus.Final.ImplementationSteps = items

		text := Render(consensus, time.Unix(0, 0))
		section := between(t, text, "IMPLEMENTATION STEPS\n", "\n\n")

		var numbers []int
		for _, line := range strings.Split(section, "\n") {
			if m := itemRe.FindStringSubmatch(line); m != nil {
				var v int
				fmt.Sscanf(m[1], "%d", &v)
				numbers = append(numbers, v)
			}
		}
		if len(numbers) != n {
			t.Fatalf("n=%d: got %d numbered items", n, len(numbers))
		}
		for i, v := range numbers {
			if v != i+1 {
				t.Fatalf("n=%d: item %d numbered %d, want %d", n, i, v, i+1)
			}
		}
		if n == 0 && !strings.Contains(section, "(none)") {
			t.Fatalf("empty list should render (none), got %q", section)
		}
	}
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Export(sampleConsensus(), dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	name := filepath.Base(path)
	if !regexp.MustCompile(`^llm-council-consensus-\d+\.txt$`).MatchString(name) {
		t.Fatalf("unexpected filename %q", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "FINAL RECOMMENDATION: SUPPORT") {
		t.Fatalf("exported file misses report body")
	}
}

func TestExportRejectsNil(t *testing.T) {
	if _, err := Export(nil, t.TempDir()); err == nil {
		t.Fatalf("expected error for nil consensus")
	}
}

func between(t *testing.T, text, start, end string) string {
	t.Helper()
	i := strings.Index(text, start)
	if i < 0 {
		t.Fatalf("marker %q not found", start)
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return rest
	}
	return rest[:j]
}
