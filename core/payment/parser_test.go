package payment

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

const (
	mpesaMsg = "SB11QK9X7B Confirmed. Ksh12,000.00 sent to NCBA BANK KENYA PLC. for account 5571370018 " +
		"on 1/2/24 at 3:14 PM New M-PESA balance is Ksh1,044.97."
	ncbaMsg = "Your M-Pesa payment of KES 6,200.00 to CODE BLUE MEDICAL TRAINING INSTITUTE 123321 " +
		"was successful on 20/06/2025 07:34 PM. M-Pesa Ref: TFK6OJWXV2. NCBA, Go for it."
)

func TestInterpretMpesaMessage(t *testing.T) {
	p := Interpret(mpesaMsg)

	if !p.IsValid {
		t.Fatalf("IsValid = false; errors: %v", p.Errors)
	}
	if p.Source != SourceMpesa {
		t.Errorf("Source = %q; want %q", p.Source, SourceMpesa)
	}
	if p.Reference != "SB11QK9X7B" {
		t.Errorf("Reference = %q; want SB11QK9X7B", p.Reference)
	}
	if want := decimal.NewFromFloat(12000.00); !p.Amount.Equal(want) {
		t.Errorf("Amount = %v; want %v", p.Amount, want)
	}
	if p.Institution != "NCBA BANK KENYA PLC." {
		t.Errorf("Institution = %q; want %q", p.Institution, "NCBA BANK KENYA PLC.")
	}
	if p.AccountNumber != "5571370018" {
		t.Errorf("AccountNumber = %q; want 5571370018", p.AccountNumber)
	}
	if p.Date != "2024-02-01" {
		t.Errorf("Date = %q; want 2024-02-01", p.Date)
	}
	if p.Time != "15:14:00" {
		t.Errorf("Time = %q; want 15:14:00", p.Time)
	}
}

func TestInterpretNcbaMessage(t *testing.T) {
	p := Interpret(ncbaMsg)

	if !p.IsValid {
		t.Fatalf("IsValid = false; errors: %v", p.Errors)
	}
	if p.Source != SourceNCBA {
		t.Errorf("Source = %q; want %q", p.Source, SourceNCBA)
	}
	if p.Reference != "TFK6OJWXV2" {
		t.Errorf("Reference = %q; want TFK6OJWXV2", p.Reference)
	}
	if want := decimal.NewFromFloat(6200.00); !p.Amount.Equal(want) {
		t.Errorf("Amount = %v; want %v", p.Amount, want)
	}
	if p.Institution != "CODE BLUE MEDICAL TRAINING INSTITUTE" {
		t.Errorf("Institution = %q; want %q", p.Institution, "CODE BLUE MEDICAL TRAINING INSTITUTE")
	}
	if p.AccountNumber != "123321" {
		t.Errorf("AccountNumber = %q; want 123321", p.AccountNumber)
	}
	if p.Date != "2025-06-20" {
		t.Errorf("Date = %q; want 2025-06-20", p.Date)
	}
	if p.Time != "19:34:00" {
		t.Errorf("Time = %q; want 19:34:00", p.Time)
	}
}

func TestInterpretNoMatch(t *testing.T) {
	tests := []string{
		"",
		"hello there",
		"Your airtime purchase of KES 100.00 was successful.",
	}
	wantErrs := []string{
		errAmountText,
		errReferenceText,
		errDateText,
		errTimeText,
		errSourceText,
	}
	for _, raw := range tests {
		p := Interpret(raw)
		if p.IsValid {
			t.Errorf("Interpret(%q).IsValid = true; want false", raw)
		}
		if p.Source != "" {
			t.Errorf("Interpret(%q).Source = %q; want empty", raw, p.Source)
		}
		if !reflect.DeepEqual(p.Errors, wantErrs) {
			t.Errorf("Interpret(%q).Errors = %v; want %v", raw, p.Errors, wantErrs)
		}
	}
}

func TestInterpretTimeConversion(t *testing.T) {
	tests := []struct {
		time string
		ampm string
		want string
	}{
		{"12:00", "AM", "00:00:00"},
		{"12:00", "PM", "12:00:00"},
		{"1:15", "PM", "13:15:00"},
		{"11:59", "PM", "23:59:00"},
		{"9:05", "AM", "09:05:00"},
		{"19:34", "", "19:34:00"}, // no marker: already 24-hour
		{"07:34", "", "07:34:00"},
		{"bogus", "", ""},
	}
	for _, tt := range tests {
		if got := isoTime(tt.time, tt.ampm); got != tt.want {
			t.Errorf("isoTime(%q, %q) = %q; want %q", tt.time, tt.ampm, got, tt.want)
		}
	}
}

func TestInterpretDateConversion(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"1/2/24", "2024-02-01"}, // two-digit year assumed 2000s
		{"20/06/2025", "2025-06-20"},
		{"31/12/99", "2099-12-31"},
		{"31/13/24", "2024-13-31"}, // format-only, calendar validity not checked
		{"1/2", ""},
		{"a/b/c", ""},
	}
	for _, tt := range tests {
		if got := isoDate(tt.date); got != tt.want {
			t.Errorf("isoDate(%q) = %q; want %q", tt.date, got, tt.want)
		}
	}
}

func TestInterpretAmountSeparators(t *testing.T) {
	p := Interpret("QX1 Confirmed. Ksh1,234,567.89 sent to ACME on 5/6/24 at 10:00 AM New M-PESA balance is Ksh1.00.")
	if want := decimal.NewFromFloat(1234567.89); !p.Amount.Equal(want) {
		t.Errorf("Amount = %v; want %v", p.Amount, want)
	}
}

func TestInterpretZeroAmount(t *testing.T) {
	p := Interpret("QX1 Confirmed. Ksh0.00 sent to ACME on 5/6/24 at 10:00 AM New M-PESA balance is Ksh1.00.")
	if p.IsValid {
		t.Error("IsValid = true; want false")
	}
	if len(p.Errors) != 1 || p.Errors[0] != errAmountText {
		t.Errorf("Errors = %v; want [%q]", p.Errors, errAmountText)
	}
}

func TestInterpretNcbaNoAccountNo24hTime(t *testing.T) {
	p := Interpret("Your M-Pesa payment of KES 500.00 to ST LUKES CHAPEL was successful on 3/1/24 19:34. M-Pesa Ref: ABC123XYZ. NCBA, Go for it.")
	if !p.IsValid {
		t.Fatalf("IsValid = false; errors: %v", p.Errors)
	}
	if p.Institution != "ST LUKES CHAPEL" {
		t.Errorf("Institution = %q; want %q", p.Institution, "ST LUKES CHAPEL")
	}
	if p.AccountNumber != "" {
		t.Errorf("AccountNumber = %q; want empty", p.AccountNumber)
	}
	if p.Date != "2024-01-03" {
		t.Errorf("Date = %q; want 2024-01-03", p.Date)
	}
	if p.Time != "19:34:00" {
		t.Errorf("Time = %q; want 19:34:00", p.Time)
	}
}

func TestInterpretIsIdempotent(t *testing.T) {
	p1 := Interpret(mpesaMsg)
	p2 := Interpret(mpesaMsg)
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("repeated calls differ: %+v != %+v", p1, p2)
	}
}
