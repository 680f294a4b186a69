package payment

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDeclined, true},
		{StatusDeclined, StatusApproved, true}, // re-approval
		{StatusApproved, StatusDeclined, false},
		{StatusApproved, StatusPending, false},
		{StatusDeclined, StatusPending, false},
		{StatusDeclined, StatusDeclined, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusApproved, false},
		{"bogus", StatusApproved, false},
		{StatusPending, "bogus", false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v; want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
