package util

import (
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

// Placeholder is shown for missing values.
const Placeholder = "—"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339, sqlite datetime and plain dates.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate formats a timestamp as "Jan 02, 2006".
func FormatDate(ts string) string {
	if strings.TrimSpace(ts) == "" {
		return Placeholder
	}
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ts
	}
	return t.Format("Jan 02, 2006")
}

// FormatRelative formats a timestamp relative to now: "3 days ago",
// "2 weeks from now". Missing values render as "never".
func FormatRelative(ts *string, now time.Time) string {
	if ts == nil || strings.TrimSpace(*ts) == "" {
		return "never"
	}
	t, ok := ParseTimestamp(*ts)
	if !ok {
		return *ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney formats minor units: FormatMoney(123456, "USD") is "$1,234.56".
// Currencies without a known symbol get the code as a suffix.
func FormatMoney(cents int64, currency string) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	sign := ""
	if neg {
		sign = "-"
	}
	amount := humanize.FormatFloat("#,###.##", float64(cents)/100)
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sign + sym + amount
	}
	if currency == "" {
		return sign + amount
	}
	return sign + amount + " " + strings.ToUpper(currency)
}

// FormatCount formats an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatOrdinal formats 1 as "1st", 2 as "2nd".
func FormatOrdinal(n int) string {
	return humanize.Ordinal(n)
}

// FormatBool renders a flag as a check mark or a cross.
func FormatBool(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

// FormatOptional dereferences s, or returns the placeholder.
func FormatOptional(s *string) string {
	if s == nil || *s == "" {
		return Placeholder
	}
	return *s
}

// TitleCase turns "order-items" or "order_items" into "Order Items".
func TitleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
