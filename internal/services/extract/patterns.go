package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"reclaim/internal/models"
)

var (
	totalKeywordRegex = regexp.MustCompile(`(?i)\b(grand\s+total|total\s+due|amount\s+due|balance\s+due|total)\b`)
	amountRegex       = regexp.MustCompile(`(?:[$€£]\s*)?(\d{1,3}(?:,\d{3})*\.\d{2})`)

	merchantStopRegex = regexp.MustCompile(`(?i)\b(receipt|invoice|tax\s+invoice|welcome|thank\s+you|thanks|duplicate|copy|www\.|http|tel[:.]|phone|fax|vat|gst|abn|order\s+#)\b`)
)

// datePattern pairs a line match with the layouts to try. The first pattern in
// the list is the unambiguous one; anything later counts as a fallback
// heuristic and caps confidence at medium.
type datePattern struct {
	regex   *regexp.Regexp
	layouts []string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), []string{"2006-01-02"}},
	{regexp.MustCompile(`\b(\d{4}/\d{2}/\d{2})\b`), []string{"2006/01/02"}},
	{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`), []string{"01/02/2006", "02/01/2006"}},
	{regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`), []string{"02-01-2006", "01-02-2006"}},
	{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2})\b`), []string{"01/02/06", "02/01/06"}},
	{regexp.MustCompile(`\b([A-Z][a-z]{2,8}\.? \d{1,2},? \d{4})\b`), []string{"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006"}},
	{regexp.MustCompile(`\b(\d{1,2} [A-Z][a-z]{2,8} \d{4})\b`), []string{"2 Jan 2006", "2 January 2006"}},
}

// findTotal looks for the highest currency-like amount on a line carrying a
// total keyword; when no keyword line has one, it falls back to the highest
// amount anywhere in the text.
func findTotal(lines []string) (total *float64, fallback bool) {
	best := -1.0
	for _, line := range lines {
		if !totalKeywordRegex.MatchString(line) {
			continue
		}
		for _, m := range amountRegex.FindAllStringSubmatch(line, -1) {
			if v, ok := parseAmount(m[1]); ok && v > best {
				best = v
			}
		}
	}
	if best >= 0 {
		return &best, false
	}

	for _, line := range lines {
		for _, m := range amountRegex.FindAllStringSubmatch(line, -1) {
			if v, ok := parseAmount(m[1]); ok && v > best {
				best = v
			}
		}
	}
	if best >= 0 {
		return &best, true
	}
	return nil, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// findDate tries the regional formats in precedence order and normalizes the
// first hit to a calendar date.
func findDate(text string) (date *time.Time, fallback bool) {
	for i, p := range datePatterns {
		m := p.regex.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for j, layout := range p.layouts {
			d, err := time.Parse(layout, m[1])
			if err != nil {
				continue
			}
			return &d, i > 0 || j > 0
		}
	}
	return nil, false
}

// findMerchant picks the first line that looks like a business name: not
// boilerplate, not mostly numeric, at least a few letters.
func findMerchant(lines []string) (merchant string, fallback bool) {
	seen := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if !plausibleMerchant(line) {
			continue
		}
		return line, seen > 1
	}
	return "", false
}

func plausibleMerchant(line string) bool {
	if merchantStopRegex.MatchString(line) {
		return false
	}
	letters, digits := 0, 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters >= 3 && letters > digits
}

// detectRefundType scans for refund-policy boilerplate printed on the slip.
func detectRefundType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "no refund") ||
		strings.Contains(lower, "no return") ||
		strings.Contains(lower, "all sales final") ||
		strings.Contains(lower, "final sale"):
		return models.RefundTypeNone
	case strings.Contains(lower, "store credit only") ||
		strings.Contains(lower, "refund as store credit"):
		return models.RefundTypeStoreCredit
	case strings.Contains(lower, "exchange only") ||
		strings.Contains(lower, "exchanges only"):
		return models.RefundTypeExchangeOnly
	}
	return models.RefundTypeNotSpecified
}
