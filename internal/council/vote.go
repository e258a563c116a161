// Package council models the data exchanged with the deliberation agents:
// the five-member council, their votes and analyses, and the synthesized
// consensus result.
package council

import (
	"fmt"
	"math"
	"strings"
)

// Vote is one council member's position on the problem statement.
type Vote string

const (
	VoteSupport Vote = "support"
	VoteOppose  Vote = "oppose"
	VoteAbstain Vote = "abstain"
)

// ParseVote normalizes a wire value into a Vote.
func ParseVote(value string) (Vote, error) {
	switch Vote(strings.ToLower(strings.TrimSpace(value))) {
	case VoteSupport:
		return VoteSupport, nil
	case VoteOppose:
		return VoteOppose, nil
	case VoteAbstain:
		return VoteAbstain, nil
	default:
		return "", fmt.Errorf("council: unknown vote %q", value)
	}
}

// VoteSummary counts votes per category across the council.
type VoteSummary struct {
	Support int `json:"support"`
	Oppose  int `json:"oppose"`
	Abstain int `json:"abstain"`
}

// Total returns the number of votes counted.
func (s VoteSummary) Total() int {
	return s.Support + s.Oppose + s.Abstain
}

// Percentages returns the rounded share of each category. A zero total
// yields 0/0/0 rather than dividing by zero.
func (s VoteSummary) Percentages() (support, oppose, abstain int) {
	total := s.Total()
	if total <= 0 {
		return 0, 0, 0
	}
	pct := func(count int) int {
		return int(math.Round(100 * float64(count) / float64(total)))
	}
	return pct(s.Support), pct(s.Oppose), pct(s.Abstain)
}
