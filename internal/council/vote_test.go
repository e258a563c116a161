package council

import "testing"

func TestParseVote(t *testing.T) {
	cases := []struct {
		in      string
		want    Vote
		wantErr bool
	}{
		{"support", VoteSupport, false},
		{"  OPPOSE ", VoteOppose, false},
		{"Abstain", VoteAbstain, false},
		{"", "", true},
		{"maybe", "", true},
	}
	for _, tc := range cases {
		got, err := ParseVote(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVote(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVote(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVote(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPercentagesKnownSplit(t *testing.T) {
	s, o, a := (VoteSummary{Support: 3, Oppose: 1, Abstain: 1}).Percentages()
	if s != 60 || o != 20 || a != 20 {
		t.Fatalf("expected 60/20/20, got %d/%d/%d", s, o, a)
	}
}

func TestPercentagesZeroTotal(t *testing.T) {
	s, o, a := (VoteSummary{}).Percentages()
	if s != 0 || o != 0 || a != 0 {
		t.Fatalf("expected 0/0/0 for empty summary, got %d/%d/%d", s, o, a)
	}
}

// Rounded shares may not sum to exactly 100, but the drift stays within one
// point either way, and a zero count always renders as 0%.
func TestPercentagesRoundingSlack(t *testing.T) {
	for support := 0; support <= 7; support++ {
		for oppose := 0; oppose <= 7; oppose++ {
			for abstain := 0; abstain <= 7; abstain++ {
				summary := VoteSummary{Support: support, Oppose: oppose, Abstain: abstain}
				if summary.Total() == 0 {
					continue
				}
				s, o, a := summary.Percentages()
				sum := s + o + a
				if sum < 99 || sum > 101 {
					t.Fatalf("summary %+v: percentage sum %d outside [99,101]", summary, sum)
				}
				if support == 0 && s != 0 {
					t.Fatalf("summary %+v: zero support rendered as %d%%", summary, s)
				}
				if oppose == 0 && o != 0 {
					t.Fatalf("summary %+v: zero oppose rendered as %d%%", summary, o)
				}
				if abstain == 0 && a != 0 {
					t.Fatalf("summary %+v: zero abstain rendered as %d%%", summary, a)
				}
			}
		}
	}
}
