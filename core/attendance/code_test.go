package attendance

import (
	"testing"
	"time"
)

const (
	testSecret = "sssshh"
	testPeriod = 30 * time.Second
)

func TestMakeCodeRotates(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	c1, err := MakeCode("ses-1", base, testPeriod, testSecret)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}
	c2, err := MakeCode("ses-1", base.Add(10*time.Second), testPeriod, testSecret)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}
	if c1 != c2 {
		t.Error("codes within the same window differ")
	}

	c3, err := MakeCode("ses-1", base.Add(testPeriod), testPeriod, testSecret)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}
	if c1 == c3 {
		t.Error("code did not rotate after a full period")
	}
}

func TestMakeCodeBoundToSession(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	c1, _ := MakeCode("ses-1", base, testPeriod, testSecret)
	c2, _ := MakeCode("ses-2", base, testPeriod, testSecret)
	if c1 == c2 {
		t.Error("codes for different sessions are equal")
	}

	c3, _ := MakeCode("ses-1", base, testPeriod, "other-secret")
	if c1 == c3 {
		t.Error("codes under different secrets are equal")
	}
}

func TestVerifyCode(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	code, err := MakeCode("ses-1", base, testPeriod, testSecret)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}

	tests := []struct {
		name    string
		session string
		code    string
		at      time.Time
		wantErr bool
	}{
		{"same window", "ses-1", code, base.Add(15 * time.Second), false},
		{"previous window still accepted", "ses-1", code, base.Add(testPeriod + 10*time.Second), false},
		{"two windows old", "ses-1", code, base.Add(2*testPeriod + time.Second), true},
		{"wrong session", "ses-2", code, base, true},
		{"empty code", "ses-1", "", base, true},
		{"garbage code", "ses-1", "garbage", base, true},
	}
	for _, tt := range tests {
		err := VerifyCode(tt.session, tt.code, tt.at, testPeriod, testSecret)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: VerifyCode() err = %v; wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSecondsRemaining(t *testing.T) {
	base := time.Unix(3000, 0) // window boundary for a 30s period
	if got := SecondsRemaining(base, testPeriod); got != 30 {
		t.Errorf("SecondsRemaining() = %d; want 30", got)
	}
	if got := SecondsRemaining(base.Add(29*time.Second), testPeriod); got != 1 {
		t.Errorf("SecondsRemaining() = %d; want 1", got)
	}
}
