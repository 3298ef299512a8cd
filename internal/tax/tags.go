package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseTags extracts "tax:key=value" pairs from a transaction's tags.
// Tags outside the tax namespace and payloads without "=" are ignored.
func parseTags(tags []string) map[string]string {
	var parsed map[string]string
	for _, tag := range tags {
		if !strings.HasPrefix(strings.ToLower(tag), "tax:") {
			continue
		}
		payload := tag[strings.Index(tag, ":")+1:]
		key, value, ok := strings.Cut(payload, "=")
		if !ok {
			continue
		}
		if parsed == nil {
			parsed = make(map[string]string)
		}
		parsed[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return parsed
}

// asDecimal parses a tag payload; malformed numerics degrade to zero
// instead of failing the whole report.
func asDecimal(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
