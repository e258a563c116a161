package council

import (
	"encoding/json"
	"fmt"
)

// Position is a vote category with its percentage share and the members
// that hold it.
type Position struct {
	Vote       Vote     `json:"vote"`
	Percentage int      `json:"percentage"`
	Members    []string `json:"members"`
}

// SynthesizedArguments groups the arguments the synthesizer distilled from
// the deliberation.
type SynthesizedArguments struct {
	For            []string `json:"for"`
	Against        []string `json:"against"`
	Considerations []string `json:"key_considerations"`
}

// FinalRecommendation is the actionable bundle at the end of the report.
type FinalRecommendation struct {
	Decision            string   `json:"decision"`
	ImplementationSteps []string `json:"implementation_steps"`
	RiskMitigations     []string `json:"risk_mitigations"`
	SuccessCriteria     []string `json:"success_criteria"`
	AdditionalGuidance  string   `json:"additional_guidance"`
}

// ConsensusResult is the synthesizer's weighted aggregation of a
// deliberation into a single recommendation.
type ConsensusResult struct {
	Recommendation    Vote                 `json:"recommendation"`
	Confidence        int                  `json:"confidence_score"`
	VoteDistribution  VoteSummary          `json:"vote_distribution"`
	MajorityPosition  Position             `json:"majority_position"`
	MinorityPositions []Position           `json:"minority_positions"`
	Arguments         SynthesizedArguments `json:"synthesized_arguments"`
	CouncilSummary    string               `json:"council_summary"`
	Final             FinalRecommendation  `json:"final_recommendation"`
}

// ParseConsensus decodes a synthesizer result payload and normalizes its
// vote fields and confidence score.
func ParseConsensus(raw json.RawMessage) (*ConsensusResult, error) {
	var result ConsensusResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("council: decode consensus: %w", err)
	}
	vote, err := ParseVote(string(result.Recommendation))
	if err != nil {
		return nil, fmt.Errorf("council: consensus recommendation: %w", err)
	}
	result.Recommendation = vote
	result.Confidence = clampConfidence(result.Confidence)

	if majority, err := normalizePosition(result.MajorityPosition); err != nil {
		return nil, fmt.Errorf("council: majority position: %w", err)
	} else {
		result.MajorityPosition = majority
	}
	for i, pos := range result.MinorityPositions {
		normalized, err := normalizePosition(pos)
		if err != nil {
			return nil, fmt.Errorf("council: minority position %d: %w", i, err)
		}
		result.MinorityPositions[i] = normalized
	}
	return &result, nil
}

func normalizePosition(pos Position) (Position, error) {
	vote, err := ParseVote(string(pos.Vote))
	if err != nil {
		return Position{}, err
	}
	pos.Vote = vote
	if pos.Percentage < 0 {
		pos.Percentage = 0
	}
	if pos.Percentage > 100 {
		pos.Percentage = 100
	}
	return pos, nil
}
