// internal/tui/views.go
//
// Screen renderers. Each screen is a pure function of the latest workflow
// snapshot; no view mutates state.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/council"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/workflow"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#B00020")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7EC699"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	selectedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#5B8DEF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	voteStyles = map[council.Vote]lipgloss.Style{
		council.VoteSupport: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7EC699")),
		council.VoteOppose:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75")),
		council.VoteAbstain: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D8B45A")),
	}
)

func (a *App) View() string {
	var content string
	switch a.snap.Screen {
	case workflow.ScreenInput:
		content = a.renderInputScreen()
	case workflow.ScreenDeliberation:
		content = a.renderDeliberationScreen()
	case workflow.ScreenConsensus:
		content = a.renderConsensusScreen()
	}

	sections := []string{headerStyle.Render("◉ LLM COUNCIL")}
	if a.snap.Err != "" {
		sections = append(sections, errorStyle.Render(a.snap.Err)+dimStyle.Render("  (esc to dismiss)"))
	}
	if a.noticeMsg != "" {
		sections = append(sections, noticeStyle.Render(a.noticeMsg))
	}
	sections = append(sections, content)
	if panel := a.renderLogPanel(); panel != "" {
		sections = append(sections, panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderInputScreen() string {
	lines := []string{
		titleStyle.Render("Problem Statement"),
		"",
		a.input.View(),
		"",
	}
	if a.loading {
		lines = append(lines, a.spin.View()+" Convening the council...")
	} else {
		lines = append(lines, dimStyle.Render("ctrl+s convene · ctrl+c quit"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderDeliberationScreen() string {
	deliberation := a.snap.Deliberation
	if deliberation == nil {
		return dimStyle.Render("No deliberation loaded.")
	}

	summary := deliberation.VoteSummary()
	support, oppose, abstain := summary.Percentages()

	lines := []string{
		titleStyle.Render("Council Deliberation"),
		dimStyle.Render(truncate(a.snap.Problem, max(20, a.width-10))),
		"",
		a.renderVoteRow("Support", summary.Support, support),
		a.renderVoteRow("Oppose", summary.Oppose, oppose),
		a.renderVoteRow("Abstain", summary.Abstain, abstain),
		"",
	}

	for i, member := range deliberation.Members {
		lines = append(lines, a.renderMemberPanel(i, member))
	}

	if a.loading {
		lines = append(lines, a.spin.View()+" Synthesizing consensus...")
	} else {
		lines = append(lines, dimStyle.Render("↑/↓ select · enter expand · s synthesize · r reset · q quit"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderVoteRow(label string, count, percent int) string {
	bar := a.voteBar.ViewAs(float64(percent) / 100)
	return fmt.Sprintf("%-8s %s %3d%% (%d)", label, bar, percent, count)
}

func (a *App) renderMemberPanel(index int, member council.Member) string {
	voteStyle, ok := voteStyles[member.Analysis.Vote]
	if !ok {
		voteStyle = dimStyle
	}
	head := fmt.Sprintf("%s  %s · %d%% confidence",
		titleStyle.Render(member.ID),
		voteStyle.Render(strings.ToUpper(string(member.Analysis.Vote))),
		member.Analysis.Confidence)

	body := []string{head}
	if a.expanded[index] {
		if perspective := strings.TrimSpace(member.Analysis.ModelPerspective); perspective != "" {
			body = append(body, dimStyle.Render(perspective))
		}
		body = append(body, "", titleStyle.Render("Reasoning"))
		for n, step := range member.Analysis.ReasoningChain {
			body = append(body, fmt.Sprintf("  %d. %s", n+1, step))
		}
		body = append(body, "", titleStyle.Render("Key Arguments"))
		for _, arg := range member.Analysis.KeyArguments {
			body = append(body, "  • "+arg)
		}
	}

	style := panelStyle
	if index == a.selected {
		style = selectedPanelStyle
	}
	return style.Width(max(30, a.width-6)).Render(strings.Join(body, "\n"))
}

func (a *App) renderConsensusScreen() string {
	consensus := a.snap.Consensus
	if consensus == nil {
		return dimStyle.Render("No consensus loaded.")
	}

	voteStyle, ok := voteStyles[consensus.Recommendation]
	if !ok {
		voteStyle = titleStyle
	}
	header := fmt.Sprintf("Recommendation: %s · %d%% Confidence",
		voteStyle.Render(strings.ToUpper(string(consensus.Recommendation))),
		consensus.Confidence)

	lines := []string{
		titleStyle.Render("Consensus Report"),
		header,
		"",
		a.report.View(),
		"",
		dimStyle.Render("↑/↓ scroll · e export · r reset · q quit"),
	}
	return strings.Join(lines, "\n")
}

// renderReportBody builds the scrollable consensus text for the viewport.
func (a *App) renderReportBody() string {
	consensus := a.snap.Consensus
	if consensus == nil {
		return ""
	}

	var b strings.Builder
	support, oppose, abstain := consensus.VoteDistribution.Percentages()
	fmt.Fprintf(&b, "Vote distribution: support %d%% · oppose %d%% · abstain %d%%\n\n", support, oppose, abstain)

	fmt.Fprintf(&b, "Majority: %s (%d%%) · %s\n", strings.ToUpper(string(consensus.MajorityPosition.Vote)),
		consensus.MajorityPosition.Percentage, strings.Join(consensus.MajorityPosition.Members, ", "))
	for _, pos := range consensus.MinorityPositions {
		fmt.Fprintf(&b, "Minority: %s (%d%%) · %s\n", strings.ToUpper(string(pos.Vote)),
			pos.Percentage, strings.Join(pos.Members, ", "))
	}
	b.WriteString("\n")

	writeSection(&b, "Council Summary", consensus.CouncilSummary)
	writeSection(&b, "Decision", consensus.Final.Decision)
	writeList(&b, "Implementation Steps", consensus.Final.ImplementationSteps)
	writeList(&b, "Risk Mitigations", consensus.Final.RiskMitigations)
	writeList(&b, "Success Criteria", consensus.Final.SuccessCriteria)
	writeSection(&b, "Additional Guidance", consensus.Final.AdditionalGuidance)
	writeList(&b, "Arguments For", consensus.Arguments.For)
	writeList(&b, "Arguments Against", consensus.Arguments.Against)
	writeList(&b, "Key Considerations", consensus.Arguments.Considerations)
	return b.String()
}

func writeSection(b *strings.Builder, heading, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.WriteString(titleStyle.Render(heading) + "\n" + text + "\n\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(titleStyle.Render(heading) + "\n")
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := dimStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
