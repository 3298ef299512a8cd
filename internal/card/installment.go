package card

import (
	"strconv"
	"strings"
)

// Installment describes one slice of a purchase split across cycles,
// parsed from "card:installment=n/total" and "card:installment_key=..."
// tags. Malformed payloads yield no installment info rather than an
// error.
type Installment struct {
	Number int
	Total  int
	Key    string
}

// ParseInstallment extracts installment metadata from a transaction's
// tags. The second return is false when no well-formed installment tag
// is present.
func ParseInstallment(tags []string) (Installment, bool) {
	var inst Installment
	var found bool
	for _, tag := range tags {
		if !strings.HasPrefix(strings.ToLower(tag), "card:") {
			continue
		}
		payload := tag[strings.Index(tag, ":")+1:]
		key, value, ok := strings.Cut(payload, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "installment":
			num, total, ok := strings.Cut(strings.TrimSpace(value), "/")
			if !ok {
				continue
			}
			n, err := strconv.Atoi(num)
			if err != nil || n < 1 {
				continue
			}
			t, err := strconv.Atoi(total)
			if err != nil || t < n {
				continue
			}
			inst.Number, inst.Total = n, t
			found = true
		case "installment_key":
			inst.Key = strings.TrimSpace(value)
		}
	}
	if !found {
		return Installment{}, false
	}
	return inst, true
}
