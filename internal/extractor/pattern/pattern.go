// Package pattern implements the deterministic, regex-based extraction
// baseline. Identical input always yields an identical result or failure.
package pattern

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"extractd/internal/domain"
	"extractd/internal/extractor"
	"extractd/internal/port"
)

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var supportedCurrencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "AUD": true, "CAD": true,
	"CHF": true, "CNY": true, "INR": true, "JPY": true, "NZD": true,
}

var symbolToCode = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
}

var (
	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Invoice\s*Number[:#]?\s*([A-Za-z0-9\-_/]+)`),
		regexp.MustCompile(`(?i)Invoice\s*#[:\s]*([A-Za-z0-9\-_/]+)`),
		regexp.MustCompile(`(?i)Invoice[:\s]+([A-Za-z0-9\-_/]+)`),
		regexp.MustCompile(`(?i)Transaction\s*#[:\s]*([A-Za-z0-9\-_/]+)`),
		regexp.MustCompile(`(?i)Transaction\s*Number[:#]?\s*([A-Za-z0-9\-_/]+)`),
	}

	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDateRe = regexp.MustCompile(`\b([A-Za-z]{3,9})\s+(\d{1,2}),\s*(\d{4})\b`)

	totalLineRe = regexp.MustCompile(`(?i)\b(TOTAL|Grand\s+Total|Total\s+Paid)\b`)
	symbolRe    = regexp.MustCompile(`[\$€£]`)
	codeRe      = regexp.MustCompile(`\b(USD|EUR|GBP|AUD|CAD|CHF|CNY|INR|JPY|NZD)\b`)

	// Amounts anchored to a currency symbol; preferred to avoid matching
	// identifiers or dates.
	symbolAmountRe = regexp.MustCompile(`([\$€£])\s*([0-9]{1,3}(?:[,.\s][0-9]{3})*(?:[.,][0-9]{2})|[0-9]+(?:[.,][0-9]{2})?)`)
	// Any amount-looking number; used only when nothing symbol-anchored matched.
	amountRe = regexp.MustCompile(`([\$€£])?\s*([0-9]{1,3}(?:[,.\s][0-9]{3})*(?:[.,][0-9]{2})|[0-9]+(?:[.,][0-9]{2})?)`)
)

// Extractor is the pattern-based TextExtractor.
type Extractor struct{}

// New creates a pattern Extractor.
func New() *Extractor {
	return &Extractor{}
}

var _ port.TextExtractor = (*Extractor)(nil)

// Extract maps document text to structured fields using label patterns and
// totals-line heuristics.
func (e *Extractor) Extract(_ context.Context, documentText string) (*domain.ExtractionResult, error) {
	if err := extractor.CheckTrigger(documentText); err != nil {
		return nil, err
	}

	result := &domain.ExtractionResult{
		DocType:       detectDocType(documentText),
		InvoiceNumber: extractInvoiceNumber(documentText),
		InvoiceDate:   extractDateISO(documentText),
	}
	result.Currency, result.TotalAmount = extractCurrencyAndAmount(documentText)
	return result, nil
}

func detectDocType(text string) string {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "INVOICE") {
		return domain.DocTypeInvoice
	}
	if strings.Contains(upper, "RECEIPT") {
		return domain.DocTypeReceipt
	}
	return domain.DocTypeUnknown
}

func extractInvoiceNumber(text string) *string {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			num := strings.TrimSpace(m[1])
			return &num
		}
	}
	return nil
}

// extractDateISO accepts ISO YYYY-MM-DD or "December 15, 2024" style dates and
// normalizes to ISO.
func extractDateISO(text string) *string {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		iso := m[1] + "-" + m[2] + "-" + m[3]
		return &iso
	}
	m := monthDateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	month, ok := months[strings.ToLower(m[1])]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	dt := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if dt.Day() != day || dt.Month() != month || dt.Year() != year {
		// Impossible calendar date, e.g. February 30
		return nil
	}
	iso := dt.Format("2006-01-02")
	return &iso
}

type amountCandidate struct {
	amount   float64
	currency *string
}

// extractCurrencyAndAmount scans lines preferentially containing total-like
// keywords, prefers symbol-anchored amounts, and resolves ambiguity by
// selecting the numerically highest qualifying amount.
func extractCurrencyAndAmount(text string) (*string, *float64) {
	lines := strings.Split(normalizeNewlines(text), "\n")

	var totals, symbolLines, codeLines []string
	hasCurrencyHint := false
	for _, line := range lines {
		if totalLineRe.MatchString(line) {
			totals = append(totals, line)
		}
		if symbolRe.MatchString(line) {
			symbolLines = append(symbolLines, line)
			hasCurrencyHint = true
		}
		if codeRe.MatchString(line) {
			codeLines = append(codeLines, line)
			hasCurrencyHint = true
		}
	}

	var totalsWithCurrency []string
	for _, line := range totals {
		if symbolRe.MatchString(line) || codeRe.MatchString(line) {
			totalsWithCurrency = append(totalsWithCurrency, line)
		}
	}

	// Candidate priority: totals with a currency hint, any totals, symbol
	// lines, code lines. Only a document with no currency hints at all falls
	// back to arbitrary numeric lines.
	firstGroup := totalsWithCurrency
	if len(firstGroup) == 0 {
		firstGroup = totals
	}
	var candidates []string
	seen := map[string]bool{}
	for _, group := range [][]string{firstGroup, symbolLines, codeLines} {
		for _, line := range group {
			if !seen[line] {
				seen[line] = true
				candidates = append(candidates, line)
			}
		}
	}
	if !hasCurrencyHint {
		for _, line := range lines {
			if amountRe.MatchString(line) && !seen[line] {
				seen[line] = true
				candidates = append(candidates, line)
			}
		}
	}

	var parsed []amountCandidate
	for _, cand := range candidates {
		var lineCode *string
		if m := codeRe.FindStringSubmatch(cand); m != nil && supportedCurrencyCodes[m[1]] {
			code := m[1]
			lineCode = &code
		}

		symbolMatches := symbolAmountRe.FindAllStringSubmatch(cand, -1)
		for _, m := range symbolMatches {
			amount, ok := parseAmount(m[2])
			if !ok {
				continue
			}
			currency := lineCode
			if currency == nil {
				if code, known := symbolToCode[m[1]]; known {
					c := code
					currency = &c
				}
			}
			parsed = append(parsed, amountCandidate{amount: amount, currency: currency})
		}
		if len(symbolMatches) > 0 {
			continue
		}

		for _, m := range amountRe.FindAllStringSubmatch(cand, -1) {
			amount, ok := parseAmount(m[2])
			if !ok {
				continue
			}
			var currency *string
			if code, known := symbolToCode[m[1]]; known {
				c := code
				currency = &c
			} else if lineCode != nil {
				currency = lineCode
			}
			parsed = append(parsed, amountCandidate{amount: amount, currency: currency})
		}
	}

	if len(parsed) == 0 {
		return nil, nil
	}
	best := parsed[0]
	for _, c := range parsed[1:] {
		if c.amount > best.amount {
			best = c
		}
	}
	return best.currency, &best.amount
}

// parseAmount normalizes thousand separators, handling both 1,234.56 and the
// European 1.234,56 form.
func parseAmount(raw string) (float64, bool) {
	normalized := strings.NewReplacer(" ", "", ",", "").Replace(raw)
	if strings.Contains(raw, ",") && strings.Contains(raw, ".") &&
		strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
		normalized = strings.NewReplacer(" ", "", ".", "").Replace(raw)
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
