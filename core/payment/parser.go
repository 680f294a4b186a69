package payment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedPayment is the outcome of interpreting one provider SMS body.
// It is transient; a FeePayment is only persisted from a valid one.
type ParsedPayment struct {
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Time          string          `json:"time"` // HH:MM:SS
	Institution   string          `json:"institution"`
	AccountNumber string          `json:"account_number"`
	Source        string          `json:"source"`
	IsValid       bool            `json:"is_valid"`
	Errors        []string        `json:"errors"`
}

// interpreter error texts; these are the only five it can produce
const (
	errAmountText    = "Could not parse valid amount."
	errReferenceText = "Could not parse reference code."
	errDateText      = "Could not parse valid date."
	errTimeText      = "Could not parse valid time."
	errSourceText    = "Could not determine source."
)

var (
	// Template A: bank-relayed mobile-money payment, e.g.
	// "Your M-Pesa payment of KES 6,200.00 to CODE BLUE MEDICAL TRAINING INSTITUTE 123321
	//  was successful on 20/06/2025 07:34 PM. M-Pesa Ref: TFK6OJWXV2. NCBA, Go for it."
	ncbaRegex = regexp.MustCompile(
		`Your M-?[Pp]esa payment of (?:KES|Ksh)\.?\s*([\d,]+(?:\.\d+)?)\s+to\s+(.+?)(?:\s+(\d+))?\s+was successful on\s+(\d{1,2}/\d{1,2}/\d{2,4})\s+(\d{1,2}:\d{2})(?:\s*(AM|PM))?\.\s*M-?[Pp]esa Ref:?\s*([A-Z0-9]+)`)

	// Template B: direct mobile-money transfer, e.g.
	// "SB11QK9X7B Confirmed. Ksh12,000.00 sent to NCBA BANK KENYA PLC. for account 5571370018
	//  on 1/2/24 at 3:14 PM New M-PESA balance is Ksh1,044.97."
	mpesaRegex = regexp.MustCompile(
		`^\s*([A-Z0-9]+)\s+Confirmed\.\s*(?:Ksh|KES)\.?\s*([\d,]+(?:\.\d+)?)\s+sent to\s+(.+?)(?:\s+for account\s+(\S+))?\s+on\s+(\d{1,2}/\d{1,2}/\d{2,4})\s+at\s+(\d{1,2}:\d{2})\s*(AM|PM)`)

	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoTimeRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// Interpret extracts a structured payment from a raw provider SMS body.
// It is pure and total: it never fails, reporting problems through
// ParsedPayment.Errors instead. Callers must check IsValid before trusting
// any field. Templates are tried in a fixed order; first match wins.
func Interpret(raw string) ParsedPayment {
	var p ParsedPayment

	if m := ncbaRegex.FindStringSubmatch(raw); m != nil {
		p.Source = SourceNCBA
		p.Amount = parseAmount(m[1])
		p.Institution = strings.TrimSpace(m[2])
		p.AccountNumber = m[3]
		p.Date = isoDate(m[4])
		p.Time = isoTime(m[5], m[6])
		p.Reference = m[7]
	} else if m := mpesaRegex.FindStringSubmatch(raw); m != nil {
		p.Source = SourceMpesa
		p.Reference = m[1]
		p.Amount = parseAmount(m[2])
		p.Institution = strings.TrimSpace(m[3])
		p.AccountNumber = m[4]
		p.Date = isoDate(m[5])
		p.Time = isoTime(m[6], m[7])
	}

	p.validate()
	return p
}

func (p *ParsedPayment) validate() {
	p.Errors = make([]string, 0, 5)
	if !p.Amount.IsPositive() {
		p.Errors = append(p.Errors, errAmountText)
	}
	if p.Reference == "" {
		p.Errors = append(p.Errors, errReferenceText)
	}
	if !isoDateRegex.MatchString(p.Date) {
		p.Errors = append(p.Errors, errDateText)
	}
	if !isoTimeRegex.MatchString(p.Time) {
		p.Errors = append(p.Errors, errTimeText)
	}
	if p.Source == "" {
		p.Errors = append(p.Errors, errSourceText)
	}
	p.IsValid = len(p.Errors) == 0
}

// parseAmount converts "12,000.00" to a decimal. Only "," thousands and "."
// decimal separators are recognized. Unparseable input yields zero, which the
// validation step flags.
func parseAmount(s string) decimal.Decimal {
	amt, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return amt
}

// isoDate converts D/M/YYYY or D/M/YY to YYYY-MM-DD.
// Two-digit years are assumed 2000s. The conversion is format-only:
// day/month ranges are not checked against the calendar, so 31/13/24
// comes out as "2024-13-31".
func isoDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ""
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return ""
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return ""
	}
	if len(parts[2]) <= 2 {
		year += 2000
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// isoTime converts "H:MM" plus an optional AM/PM marker to HH:MM:SS.
// With a marker, 12 AM maps to 00 and PM adds 12 to hours 1-11; without one,
// the input is taken as already 24-hour. Seconds are zero-filled.
func isoTime(s, ampm string) string {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ""
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ""
	}
	switch strings.ToUpper(ampm) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%02d:00", hour, minute)
}
