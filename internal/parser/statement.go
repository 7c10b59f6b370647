package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"
)

// Candidate is one unpersisted transaction row extracted from a statement
// line: a date, a trimmed description, and an exact fixed-point amount.
type Candidate struct {
	Date        string // YYYY-MM-DD
	Description string
	AmountCents int64
}

// statementLineRe matches "MM/DD/YYYY  description  1,234.56". The
// description span is non-greedy so trailing whitespace stays out of it;
// thousands separators in the amount are optional.
var statementLineRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(.*?)\s+([\d,]+\.\d{2})`)

// ParseStatementLine extracts a candidate transaction from one line of
// statement text. The second return is false for lines that do not match:
// headers, footers, balances and blank lines are expected and skipped
// silently.
func ParseStatementLine(line string) (Candidate, bool) {
	m := statementLineRe.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}

	t, err := time.Parse("01/02/2006", m[1])
	if err != nil {
		return Candidate{}, false
	}

	cents, err := util.ParseCents(m[3])
	if err != nil {
		return Candidate{}, false
	}

	return Candidate{
		Date:        t.Format("2006-01-02"),
		Description: strings.TrimSpace(m[2]),
		AmountCents: cents,
	}, true
}

// ParseStatement runs ParseStatementLine over every line of the text and
// returns the candidates in input order.
func ParseStatement(text string) []Candidate {
	var candidates []Candidate
	for _, line := range strings.Split(text, "\n") {
		if c, ok := ParseStatementLine(line); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}
