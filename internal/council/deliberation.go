package council

import (
	"encoding/json"
	"fmt"
)

// MemberCount is the fixed size of the council. The roster is configuration,
// never data-driven.
const MemberCount = 5

// MemberAnalysis is one council member's vote and rationale.
type MemberAnalysis struct {
	Vote             Vote     `json:"vote"`
	Confidence       int      `json:"confidence"`
	ReasoningChain   []string `json:"reasoning_chain"`
	KeyArguments     []string `json:"key_arguments"`
	ModelPerspective string   `json:"model_perspective,omitempty"`
}

// Member pairs a fixed council identity with its analysis.
type Member struct {
	ID       string
	Analysis MemberAnalysis
}

// Deliberation is the complete set of five member analyses for one problem
// statement. Members preserves roster order from configuration, and the
// array length keeps the exactly-five invariant in the type.
type Deliberation struct {
	Members [MemberCount]Member

	// Raw is the orchestrator result payload exactly as returned by the
	// gateway. The synthesizer stage re-sends it verbatim.
	Raw json.RawMessage
}

type deliberationPayload struct {
	Deliberation map[string]MemberAnalysis `json:"deliberation"`
	VoteSummary  *VoteSummary              `json:"vote_summary,omitempty"`
}

// ParseDeliberation decodes an orchestrator result payload against the
// configured roster. Every configured identity must be present, and the
// payload may not introduce members outside the roster.
func ParseDeliberation(raw json.RawMessage, roster []string) (*Deliberation, error) {
	if len(roster) != MemberCount {
		return nil, fmt.Errorf("council: roster must have %d members, got %d", MemberCount, len(roster))
	}
	var payload deliberationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("council: decode deliberation: %w", err)
	}
	if len(payload.Deliberation) == 0 {
		return nil, fmt.Errorf("council: deliberation payload has no member analyses")
	}

	d := &Deliberation{Raw: append(json.RawMessage(nil), raw...)}
	for i, id := range roster {
		analysis, ok := payload.Deliberation[id]
		if !ok {
			return nil, fmt.Errorf("council: member %q missing from deliberation", id)
		}
		vote, err := ParseVote(string(analysis.Vote))
		if err != nil {
			return nil, fmt.Errorf("council: member %q: %w", id, err)
		}
		analysis.Vote = vote
		analysis.Confidence = clampConfidence(analysis.Confidence)
		d.Members[i] = Member{ID: id, Analysis: analysis}
	}
	for id := range payload.Deliberation {
		if !rosterHas(roster, id) {
			return nil, fmt.Errorf("council: unexpected member %q in deliberation", id)
		}
	}
	return d, nil
}

// VoteSummary tallies the five member votes.
func (d *Deliberation) VoteSummary() VoteSummary {
	var summary VoteSummary
	for _, member := range d.Members {
		switch member.Analysis.Vote {
		case VoteSupport:
			summary.Support++
		case VoteOppose:
			summary.Oppose++
		case VoteAbstain:
			summary.Abstain++
		}
	}
	return summary
}

func rosterHas(roster []string, id string) bool {
	for _, candidate := range roster {
		if candidate == id {
			return true
		}
	}
	return false
}

func clampConfidence(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
