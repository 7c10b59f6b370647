// Package parser turns raw OCR and PDF text into structured candidate
// records. Everything here is a pure function over the input text: no state,
// no I/O, and no failure mode beyond degrading to defaults.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"
)

// DefaultMerchant is used when the text has no non-blank line to take a
// merchant name from.
const DefaultMerchant = "Unknown Merchant"

// ReceiptData is the best-effort autofill suggestion extracted from a
// recognized receipt. TotalCents is nil when no plausible amount was found.
// It is a suggestion, not a fact: the client is expected to let the user
// correct every field before submitting.
type ReceiptData struct {
	Merchant   string
	TotalCents *int64
	Date       string // YYYY-MM-DD
}

var (
	// Labeled total, e.g. "Total: $12.34", "AMOUNT DUE 7.50".
	labeledTotalRe = regexp.MustCompile(`(?i)(?:total|amount|due|balance)[\s:]*[$€£]?\s*(\d+\.\d{2})`)
	// Any standalone decimal with exactly two fraction digits.
	decimalTokenRe = regexp.MustCompile(`\d+\.\d{2}`)
	// A slash/dash date token or an ISO date token; first capture wins.
	receiptDateRe = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})|(\d{4}-\d{2}-\d{2})`)
)

// slashDateLayouts for M/D/Y-style tokens, two- and four-digit years.
var slashDateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
}

// ParseReceipt extracts {merchant, total, date} from a block of recognized
// receipt text using time.Now() as the fallback date.
func ParseReceipt(text string) ReceiptData {
	return ParseReceiptAt(text, time.Now())
}

// ParseReceiptAt is ParseReceipt with an explicit processing time, so the
// current-date fallback can be pinned in tests.
func ParseReceiptAt(text string, now time.Time) ReceiptData {
	data := ReceiptData{
		Merchant: DefaultMerchant,
		Date:     now.Format("2006-01-02"),
	}

	// Merchant: first non-blank line, trimmed.
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			data.Merchant = trimmed
			break
		}
	}

	// Total: prefer the first labeled match; otherwise the largest standalone
	// two-decimal token anywhere in the text.
	if m := labeledTotalRe.FindStringSubmatch(text); m != nil {
		if cents, err := util.ParseCents(m[1]); err == nil {
			data.TotalCents = &cents
		}
	}
	if data.TotalCents == nil {
		var max int64
		found := false
		for _, tok := range decimalTokenRe.FindAllString(text, -1) {
			cents, err := util.ParseCents(tok)
			if err != nil {
				continue
			}
			if !found || cents > max {
				max = cents
				found = true
			}
		}
		if found {
			data.TotalCents = &max
		}
	}

	// Date: first slash/dash or ISO token that parses as a real calendar
	// date; otherwise keep the processing-time default.
	if m := receiptDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseReceiptDate(m[1], m[2]); ok {
			data.Date = d
		}
	}

	return data
}

func parseReceiptDate(slashTok, isoTok string) (string, bool) {
	if slashTok != "" {
		for _, layout := range slashDateLayouts {
			if t, err := time.Parse(layout, slashTok); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	}
	if t, err := time.Parse("2006-01-02", isoTok); err == nil {
		return t.Format("2006-01-02"), true
	}
	return "", false
}
